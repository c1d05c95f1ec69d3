package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type SocialRepository struct {
	DB *gorm.DB
}

func NewSocialRepository(db *gorm.DB) *SocialRepository {
	return &SocialRepository{DB: db}
}

func (r *SocialRepository) WithTx(tx *gorm.DB) *SocialRepository {
	return &SocialRepository{DB: tx}
}

// ---------------- Posts ----------------

type PostFilter struct {
	Status   string
	From     *time.Time
	To       *time.Time
	Platform string
}

// ListPosts filters on the scheduled time; platform filtering happens in memory since
// platforms is a JSON column.
func (r *SocialRepository) ListPosts(f PostFilter) ([]entity.SocialPost, error) {
	q := r.DB.Model(&entity.SocialPost{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_at < ?", *f.To)
	}
	var posts []entity.SocialPost
	if err := q.Order("COALESCE(scheduled_at, created_at) DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	if f.Platform == "" {
		return posts, nil
	}
	out := posts[:0]
	for _, p := range posts {
		for _, pl := range p.Platforms {
			if pl == f.Platform {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *SocialRepository) FindPost(id uint) (*entity.SocialPost, error) {
	var p entity.SocialPost
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SocialRepository) CreatePost(p *entity.SocialPost) error {
	return r.DB.Create(p).Error
}

func (r *SocialRepository) SavePost(p *entity.SocialPost) error {
	return r.DB.Save(p).Error
}

func (r *SocialRepository) DeletePost(id uint) (int64, error) {
	res := r.DB.Delete(&entity.SocialPost{}, id)
	return res.RowsAffected, res.Error
}

// DuePostIDs returns scheduled posts whose time has come.
func (r *SocialRepository) DuePostIDs(now time.Time) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&entity.SocialPost{}).
		Where("status = ? AND scheduled_at <= ?", entity.PostScheduled, now).
		Order("scheduled_at ASC").Pluck("id", &ids).Error
	return ids, err
}

// PublishGuard marks the post published only if its status is one of from.
func (r *SocialRepository) PublishGuard(id uint, from []string, at time.Time) (int64, error) {
	res := r.DB.Model(&entity.SocialPost{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{"status": entity.PostPublished, "published_at": at})
	return res.RowsAffected, res.Error
}

// ---------------- Templates ----------------

func (r *SocialRepository) ListTemplates(category string) ([]entity.SocialTemplate, error) {
	q := r.DB.Model(&entity.SocialTemplate{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []entity.SocialTemplate
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *SocialRepository) FindTemplate(id uint) (*entity.SocialTemplate, error) {
	var t entity.SocialTemplate
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ---------------- Hashtag sets ----------------

func (r *SocialRepository) ListHashtagSets() ([]entity.HashtagSet, error) {
	var out []entity.HashtagSet
	err := r.DB.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *SocialRepository) FindHashtagSet(id uint) (*entity.HashtagSet, error) {
	var s entity.HashtagSet
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountHashtagSetsByName includes soft-deleted rows; the unique index covers them too.
func (r *SocialRepository) CountHashtagSetsByName(name string, excludeID uint) (int64, error) {
	var count int64
	q := r.DB.Unscoped().Model(&entity.HashtagSet{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

// ---------------- Library ----------------

func (r *SocialRepository) ListLibrary(itemType, tag string) ([]entity.ContentLibraryItem, error) {
	q := r.DB.Model(&entity.ContentLibraryItem{})
	if itemType != "" {
		q = q.Where("type = ?", itemType)
	}
	var items []entity.ContentLibraryItem
	if err := q.Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	if tag == "" {
		return items, nil
	}
	out := items[:0]
	for _, it := range items {
		for _, t := range it.Tags {
			if t == tag {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func (r *SocialRepository) FindLibraryItem(id uint) (*entity.ContentLibraryItem, error) {
	var it entity.ContentLibraryItem
	if err := r.DB.First(&it, id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// Create, Save and Delete work on templates, hashtag sets and library items.
func (r *SocialRepository) Create(model any) error {
	return r.DB.Create(model).Error
}

func (r *SocialRepository) Save(model any) error {
	return r.DB.Save(model).Error
}

func (r *SocialRepository) Delete(model any, id uint) (int64, error) {
	res := r.DB.Delete(model, id)
	return res.RowsAffected, res.Error
}

func (r *SocialRepository) HardDelete(model any, id uint) (int64, error) {
	res := r.DB.Unscoped().Delete(model, id)
	return res.RowsAffected, res.Error
}
