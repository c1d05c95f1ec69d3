package services

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/utils"
)

const (
	MaxCaptionLength   = 2200
	MaxInstagramHashes = 30
)

const (
	TriggerManual    = "manual"
	TriggerScheduler = "scheduler"
)

type SocialService struct {
	DB        *gorm.DB
	Repo      *repository.SocialRepository
	UploadDir string
	Notifier  Notifier
	Now       Clock
}

func NewSocialService(db *gorm.DB, repo *repository.SocialRepository, uploadDir string, notifier Notifier, now Clock) *SocialService {
	return &SocialService{DB: db, Repo: repo, UploadDir: uploadDir, Notifier: orNoop(notifier), Now: orNow(now)}
}

func postTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// NormalizeHashtags trims, prefixes with '#' and drops duplicates (case-insensitive).
func NormalizeHashtags(tags ...[]string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, list := range tags {
		for _, t := range list {
			t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), "#"))
			if t == "" || strings.ContainsAny(t, " \t") {
				continue
			}
			t = "#" + t
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func normalizePlatforms(in []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range in {
		p = strings.ToLower(strings.TrimSpace(p))
		if !entity.ValidPlatform(p) {
			return nil, invalid("Platformă necunoscută: %s", p)
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// ValidatePlatformRules enforces the per-network limits on a post.
func ValidatePlatformRules(content string, platforms, hashtags []string) error {
	if len(platforms) == 0 {
		return invalid("Selectați cel puțin o platformă")
	}
	length := utf8.RuneCountInString(content)
	for _, p := range platforms {
		switch p {
		case entity.PlatformInstagram, entity.PlatformTikTok:
			if length > MaxCaptionLength {
				return invalid("Textul depășește %d de caractere pentru %s", MaxCaptionLength, p)
			}
		}
		if p == entity.PlatformInstagram && len(hashtags) > MaxInstagramHashes {
			return invalid("Instagram permite maximum %d de hashtag-uri", MaxInstagramHashes)
		}
	}
	return nil
}

// ---------------- Posts ----------------

type PostInput struct {
	Title        string
	Content      string
	Platforms    []string
	Hashtags     []string
	MediaURLs    []string
	ScheduledAt  *time.Time
	HashtagSetID *uint
}

func (s *SocialService) ListPosts(f repository.PostFilter) ([]entity.SocialPost, error) {
	if f.From != nil {
		t := postTime(*f.From)
		f.From = &t
	}
	if f.To != nil {
		t := postTime(*f.To)
		f.To = &t
	}
	return s.Repo.ListPosts(f)
}

func (s *SocialService) GetPost(id uint) (*entity.SocialPost, error) {
	p, err := s.Repo.FindPost(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Postarea nu a fost găsită")
	}
	return p, err
}

func (s *SocialService) applyPost(p *entity.SocialPost, in PostInput) error {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return invalid("Conținutul postării este obligatoriu")
	}
	platforms, err := normalizePlatforms(in.Platforms)
	if err != nil {
		return err
	}
	var setTags []string
	if in.HashtagSetID != nil {
		set, err := s.Repo.FindHashtagSet(*in.HashtagSetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Setul de hashtag-uri nu a fost găsit")
		}
		if err != nil {
			return err
		}
		setTags = set.Hashtags
	}
	hashtags := NormalizeHashtags(in.Hashtags, setTags)
	if err := ValidatePlatformRules(content, platforms, hashtags); err != nil {
		return err
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Content = content
	p.Platforms = datatypes.JSONSlice[string](platforms)
	p.Hashtags = datatypes.JSONSlice[string](hashtags)
	media := nonEmpty(in.MediaURLs)
	p.MediaURLs = datatypes.JSONSlice[string](media)
	return nil
}

// CreatePost stores a draft, or a scheduled post when scheduledAt is in the future.
func (s *SocialService) CreatePost(actor Actor, in PostInput) (*entity.SocialPost, error) {
	p := &entity.SocialPost{Status: entity.PostDraft, CreatedByID: actor.ID}
	if err := s.applyPost(p, in); err != nil {
		return nil, err
	}
	if in.ScheduledAt != nil {
		at := postTime(*in.ScheduledAt)
		p.ScheduledAt = &at
		if at.After(s.Now()) {
			p.Status = entity.PostScheduled
		}
	}
	if err := s.Repo.CreatePost(p); err != nil {
		return nil, err
	}
	logger.L().Info("social post created", zap.Uint("post_id", p.ID), zap.String("status", p.Status))
	return p, nil
}

func (s *SocialService) UpdatePost(id uint, in PostInput) (*entity.SocialPost, error) {
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if p.Status == entity.PostPublished {
		return nil, invalid("Postările publicate nu mai pot fi modificate")
	}
	if err := s.applyPost(p, in); err != nil {
		return nil, err
	}
	if in.ScheduledAt != nil {
		at := postTime(*in.ScheduledAt)
		if p.Status == entity.PostScheduled && !at.After(s.Now()) {
			return nil, invalid("Data programării trebuie să fie în viitor")
		}
		p.ScheduledAt = &at
	}
	if err := s.Repo.SavePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SocialService) DeletePost(id uint) error {
	n, err := s.Repo.DeletePost(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Postarea nu a fost găsită")
	}
	return nil
}

var publishableFrom = []string{entity.PostDraft, entity.PostScheduled, entity.PostFailed}

func (s *SocialService) publish(id uint, trigger string) (*entity.SocialPost, error) {
	affected, err := s.Repo.PublishGuard(id, publishableFrom, postTime(s.Now()))
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := s.GetPost(id); err != nil {
			return nil, err
		}
		return nil, invalid("Postarea este deja publicată")
	}
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	metrics.PostsPublishedCounter.WithLabelValues(trigger).Inc()
	logger.L().Info("social post published", zap.Uint("post_id", id), zap.String("trigger", trigger))
	s.Notifier.PublishTo(EventSocialPublished, p, managementRoles)
	return p, nil
}

func (s *SocialService) PublishPost(id uint) (*entity.SocialPost, error) {
	return s.publish(id, TriggerManual)
}

// SchedulePost moves a draft or failed post to scheduled at a future time.
func (s *SocialService) SchedulePost(id uint, at time.Time) (*entity.SocialPost, error) {
	at = postTime(at)
	if !at.After(s.Now()) {
		return nil, invalid("Data programării trebuie să fie în viitor")
	}
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.PostDraft && p.Status != entity.PostFailed {
		return nil, invalid("Doar ciornele sau postările eșuate pot fi programate (status: %s)", p.Status)
	}
	p.Status = entity.PostScheduled
	p.ScheduledAt = &at
	if err := s.Repo.SavePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SocialService) UnschedulePost(id uint) (*entity.SocialPost, error) {
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.PostScheduled {
		return nil, invalid("Postarea nu este programată")
	}
	p.Status = entity.PostDraft
	if err := s.Repo.SavePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// PublishDue publishes every scheduled post whose time has passed and returns how many.
func (s *SocialService) PublishDue() (int, error) {
	ids, err := s.Repo.DuePostIDs(postTime(s.Now()))
	if err != nil {
		return 0, err
	}
	published := 0
	for _, id := range ids {
		if _, err := s.publish(id, TriggerScheduler); err != nil {
			if errors.Is(err, ErrInvalid) {
				continue
			}
			return published, err
		}
		published++
	}
	return published, nil
}

// RunPublisher calls PublishDue every interval until ctx is cancelled.
func (s *SocialService) RunPublisher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PublishDue()
			if err != nil {
				logger.L().Error("publish due posts", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.L().Info("scheduled posts published", zap.Int("count", n))
			}
		}
	}
}

// ---------------- Templates ----------------

type SocialTemplateInput struct {
	Name      string
	Category  string
	Content   string
	Platforms []string
	Hashtags  []string
}

func (s *SocialService) ListTemplates(category string) ([]entity.SocialTemplate, error) {
	return s.Repo.ListTemplates(category)
}

func (s *SocialService) GetTemplate(id uint) (*entity.SocialTemplate, error) {
	t, err := s.Repo.FindTemplate(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Șablonul nu a fost găsit")
	}
	return t, err
}

func applySocialTemplate(t *entity.SocialTemplate, in SocialTemplateInput) error {
	t.Name = strings.TrimSpace(in.Name)
	t.Content = strings.TrimSpace(in.Content)
	if t.Name == "" || t.Content == "" {
		return invalid("Numele și conținutul șablonului sunt obligatorii")
	}
	platforms, err := normalizePlatforms(in.Platforms)
	if err != nil {
		return err
	}
	hashtags := NormalizeHashtags(in.Hashtags)
	if err := ValidatePlatformRules(t.Content, platforms, hashtags); err != nil {
		return err
	}
	t.Category = strings.TrimSpace(in.Category)
	t.Platforms = datatypes.JSONSlice[string](platforms)
	t.Hashtags = datatypes.JSONSlice[string](hashtags)
	return nil
}

func (s *SocialService) CreateTemplate(in SocialTemplateInput) (*entity.SocialTemplate, error) {
	var t entity.SocialTemplate
	if err := applySocialTemplate(&t, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SocialService) UpdateTemplate(id uint, in SocialTemplateInput) (*entity.SocialTemplate, error) {
	t, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	if err := applySocialTemplate(t, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SocialService) DeleteTemplate(id uint) error {
	n, err := s.Repo.Delete(&entity.SocialTemplate{}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Șablonul nu a fost găsit")
	}
	return nil
}

// UseTemplate creates a draft post prefilled from the template. The platform rules are
// checked again since they apply to the post, not only to the stored template.
func (s *SocialService) UseTemplate(actor Actor, id uint) (*entity.SocialPost, error) {
	t, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	hashtags := NormalizeHashtags(t.Hashtags)
	if err := ValidatePlatformRules(t.Content, t.Platforms, hashtags); err != nil {
		return nil, err
	}
	p := &entity.SocialPost{
		Title:       t.Name,
		Content:     t.Content,
		Platforms:   datatypes.JSONSlice[string](slices.Clone([]string(t.Platforms))),
		Hashtags:    datatypes.JSONSlice[string](hashtags),
		MediaURLs:   datatypes.JSONSlice[string]{},
		Status:      entity.PostDraft,
		CreatedByID: actor.ID,
		TemplateID:  &t.ID,
	}
	if err := s.Repo.CreatePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ---------------- Hashtag sets ----------------

func (s *SocialService) ListHashtagSets() ([]entity.HashtagSet, error) {
	return s.Repo.ListHashtagSets()
}

func (s *SocialService) GetHashtagSet(id uint) (*entity.HashtagSet, error) {
	set, err := s.Repo.FindHashtagSet(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Setul de hashtag-uri nu a fost găsit")
	}
	return set, err
}

func (s *SocialService) applyHashtagSet(set *entity.HashtagSet, name string, tags []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("Numele setului este obligatoriu")
	}
	count, err := s.Repo.CountHashtagSetsByName(name, set.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return invalid("Există deja un set numit %q", name)
	}
	normalized := NormalizeHashtags(tags)
	if len(normalized) == 0 {
		return invalid("Setul trebuie să conțină cel puțin un hashtag")
	}
	set.Name = name
	set.Hashtags = datatypes.JSONSlice[string](normalized)
	return nil
}

func (s *SocialService) CreateHashtagSet(name string, tags []string) (*entity.HashtagSet, error) {
	var set entity.HashtagSet
	if err := s.applyHashtagSet(&set, name, tags); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *SocialService) UpdateHashtagSet(id uint, name string, tags []string) (*entity.HashtagSet, error) {
	set, err := s.GetHashtagSet(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyHashtagSet(set, name, tags); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(set); err != nil {
		return nil, err
	}
	return set, nil
}

// DeleteHashtagSet hard-deletes so the name can be reused.
func (s *SocialService) DeleteHashtagSet(id uint) error {
	n, err := s.Repo.HardDelete(&entity.HashtagSet{}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Setul de hashtag-uri nu a fost găsit")
	}
	return nil
}

// ---------------- Content library ----------------

type LibraryInput struct {
	Title      string
	Type       string
	URL        string
	Content    string
	Tags       []string
	FileBase64 string
}

func (s *SocialService) ListLibrary(itemType, tag string) ([]entity.ContentLibraryItem, error) {
	return s.Repo.ListLibrary(itemType, tag)
}

func (s *SocialService) GetLibraryItem(id uint) (*entity.ContentLibraryItem, error) {
	it, err := s.Repo.FindLibraryItem(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Elementul din bibliotecă nu a fost găsit")
	}
	return it, err
}

func (s *SocialService) applyLibrary(it *entity.ContentLibraryItem, in LibraryInput) error {
	it.Title = strings.TrimSpace(in.Title)
	if it.Title == "" {
		return invalid("Titlul este obligatoriu")
	}
	switch in.Type {
	case entity.LibraryImage, entity.LibraryVideo, entity.LibraryText:
	default:
		return invalid("Tip invalid: %s", in.Type)
	}
	it.Type = in.Type
	it.Content = strings.TrimSpace(in.Content)
	it.Tags = datatypes.JSONSlice[string](nonEmpty(in.Tags))
	switch {
	case in.FileBase64 != "":
		name, err := utils.SaveBase64File(in.FileBase64, filepath.Join(s.UploadDir, "library"))
		if err != nil {
			return invalid("Fișier invalid: %v", err)
		}
		it.URL = "/uploads/library/" + name
	case in.URL != "":
		it.URL = strings.TrimSpace(in.URL)
	}
	if it.Type == entity.LibraryText && it.Content == "" {
		return invalid("Elementele text trebuie să aibă conținut")
	}
	if it.Type != entity.LibraryText && it.URL == "" {
		return invalid("Elementele media trebuie să aibă un fișier sau un URL")
	}
	return nil
}

func (s *SocialService) CreateLibraryItem(actor Actor, in LibraryInput) (*entity.ContentLibraryItem, error) {
	it := entity.ContentLibraryItem{UploadedByID: actor.ID}
	if err := s.applyLibrary(&it, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(&it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *SocialService) UpdateLibraryItem(id uint, in LibraryInput) (*entity.ContentLibraryItem, error) {
	it, err := s.GetLibraryItem(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyLibrary(it, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Save(it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *SocialService) DeleteLibraryItem(id uint) error {
	n, err := s.Repo.Delete(&entity.ContentLibraryItem{}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Elementul din bibliotecă nu a fost găsit")
	}
	return nil
}
