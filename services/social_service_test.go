package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/testutil"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

type socialFixture struct {
	db       *gorm.DB
	svc      *SocialService
	clock    *mutableClock
	notifier *notifierMock
	actor    Actor
}

func newSocialFixture(t *testing.T) *socialFixture {
	db := testutil.NewDB(t)
	clk := &mutableClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	n := newNotifierMock()
	svc := NewSocialService(db, repository.NewSocialRepository(db), t.TempDir(), n, clk.Now)
	u := testutil.CreateUser(t, db, entity.RoleManager)
	return &socialFixture{db: db, svc: svc, clock: clk, notifier: n, actor: Actor{ID: u.ID, Role: u.Role}}
}

func TestNormalizeHashtags(t *testing.T) {
	got := NormalizeHashtags(
		[]string{"laser", "#LaserTag", " #laser ", "", "două cuvinte", "##party"},
		[]string{"#lasertag", "weekend"},
	)
	assert.Equal(t, []string{"#laser", "#LaserTag", "#party", "#weekend"}, got)
}

func TestValidatePlatformRules(t *testing.T) {
	long := strings.Repeat("a", MaxCaptionLength+1)
	many := make([]string, MaxInstagramHashes+1)
	for i := range many {
		many[i] = fmt.Sprintf("#t%d", i)
	}

	tests := []struct {
		name      string
		content   string
		platforms []string
		hashtags  []string
		wantErr   bool
	}{
		{"ok", "Salut", []string{entity.PlatformFacebook}, nil, false},
		{"no platform", "Salut", nil, nil, true},
		{"long on facebook", long, []string{entity.PlatformFacebook}, nil, false},
		{"long on instagram", long, []string{entity.PlatformInstagram}, nil, true},
		{"long on tiktok", long, []string{entity.PlatformTikTok}, nil, true},
		{"too many tags on instagram", "x", []string{entity.PlatformInstagram}, many, true},
		{"many tags on facebook", "x", []string{entity.PlatformFacebook}, many, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlatformRules(tt.content, tt.platforms, tt.hashtags)
			if tt.wantErr {
				requireKind(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreatePostStatus(t *testing.T) {
	f := newSocialFixture(t)

	draft, err := f.svc.CreatePost(f.actor, PostInput{
		Content: "Vino la laser tag!", Platforms: []string{"Facebook", "facebook"}, Hashtags: []string{"laser"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PostDraft, draft.Status)
	assert.Equal(t, []string{entity.PlatformFacebook}, []string(draft.Platforms))
	assert.Equal(t, []string{"#laser"}, []string(draft.Hashtags))

	future := f.clock.now.Add(2 * time.Hour)
	scheduled, err := f.svc.CreatePost(f.actor, PostInput{
		Content: "Turneu sâmbătă", Platforms: []string{entity.PlatformInstagram}, ScheduledAt: &future,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PostScheduled, scheduled.Status)

	past := f.clock.now.Add(-time.Hour)
	stale, err := f.svc.CreatePost(f.actor, PostInput{
		Content: "Ieri", Platforms: []string{entity.PlatformTikTok}, ScheduledAt: &past,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PostDraft, stale.Status)

	_, err = f.svc.CreatePost(f.actor, PostInput{Content: "x", Platforms: []string{"myspace"}})
	requireKind(t, err, ErrInvalid, "myspace")
	_, err = f.svc.CreatePost(f.actor, PostInput{Content: "  ", Platforms: []string{entity.PlatformFacebook}})
	requireKind(t, err, ErrInvalid)
}

func TestCreatePostWithHashtagSet(t *testing.T) {
	f := newSocialFixture(t)
	set, err := f.svc.CreateHashtagSet("Weekend", []string{"weekend", "#distractie"})
	require.NoError(t, err)

	p, err := f.svc.CreatePost(f.actor, PostInput{
		Content: "Party", Platforms: []string{entity.PlatformInstagram}, Hashtags: []string{"#weekend", "laser"},
		HashtagSetID: &set.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"#weekend", "#laser", "#distractie"}, []string(p.Hashtags))

	missing := uint(9999)
	_, err = f.svc.CreatePost(f.actor, PostInput{
		Content: "Party", Platforms: []string{entity.PlatformInstagram}, HashtagSetID: &missing,
	})
	requireKind(t, err, ErrNotFound)
}

func TestPublishPost(t *testing.T) {
	f := newSocialFixture(t)
	p, err := f.svc.CreatePost(f.actor, PostInput{Content: "Acum", Platforms: []string{entity.PlatformFacebook}})
	require.NoError(t, err)

	published, err := f.svc.PublishPost(p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PostPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(f.clock.now))
	f.notifier.AssertCalled(t, "PublishTo", EventSocialPublished, mock.Anything,
		[]string{entity.RoleAdmin, entity.RoleManager}, []uint(nil))

	_, err = f.svc.PublishPost(p.ID)
	requireKind(t, err, ErrInvalid, "deja publicată")
	_, err = f.svc.PublishPost(9999)
	requireKind(t, err, ErrNotFound)

	_, err = f.svc.UpdatePost(p.ID, PostInput{Content: "Altceva", Platforms: []string{entity.PlatformFacebook}})
	requireKind(t, err, ErrInvalid, "publicate")
	_, err = f.svc.SchedulePost(p.ID, f.clock.now.Add(time.Hour))
	requireKind(t, err, ErrInvalid)
}

func TestScheduleAndUnschedule(t *testing.T) {
	f := newSocialFixture(t)
	p, err := f.svc.CreatePost(f.actor, PostInput{Content: "Ofertă", Platforms: []string{entity.PlatformFacebook}})
	require.NoError(t, err)

	_, err = f.svc.SchedulePost(p.ID, f.clock.now.Add(-time.Minute))
	requireKind(t, err, ErrInvalid, "viitor")

	s, err := f.svc.SchedulePost(p.ID, f.clock.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entity.PostScheduled, s.Status)

	_, err = f.svc.SchedulePost(p.ID, f.clock.now.Add(2*time.Hour))
	requireKind(t, err, ErrInvalid, "status: scheduled")

	past := f.clock.now.Add(-time.Hour)
	_, err = f.svc.UpdatePost(p.ID, PostInput{Content: "Ofertă", Platforms: []string{entity.PlatformFacebook}, ScheduledAt: &past})
	requireKind(t, err, ErrInvalid, "viitor")

	d, err := f.svc.UnschedulePost(p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PostDraft, d.Status)

	_, err = f.svc.UnschedulePost(p.ID)
	requireKind(t, err, ErrInvalid)
}

func TestPublishDue(t *testing.T) {
	f := newSocialFixture(t)
	soon := f.clock.now.Add(10 * time.Minute)
	later := f.clock.now.Add(3 * time.Hour)

	a, err := f.svc.CreatePost(f.actor, PostInput{Content: "A", Platforms: []string{entity.PlatformFacebook}, ScheduledAt: &soon})
	require.NoError(t, err)
	b, err := f.svc.CreatePost(f.actor, PostInput{Content: "B", Platforms: []string{entity.PlatformFacebook}, ScheduledAt: &later})
	require.NoError(t, err)

	n, err := f.svc.PublishDue()
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock.now = f.clock.now.Add(time.Hour)
	n, err = f.svc.PublishDue()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.GetPost(a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PostPublished, got.Status)
	got, err = f.svc.GetPost(b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PostScheduled, got.Status)

	n, err = f.svc.PublishDue()
	require.NoError(t, err)
	assert.Zero(t, n, "already published posts are not picked up again")
}

func TestRunPublisherStopsOnCancel(t *testing.T) {
	f := newSocialFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunPublisher(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop")
	}
}

func TestListPostsByPlatform(t *testing.T) {
	f := newSocialFixture(t)
	_, err := f.svc.CreatePost(f.actor, PostInput{Content: "FB", Platforms: []string{entity.PlatformFacebook}})
	require.NoError(t, err)
	_, err = f.svc.CreatePost(f.actor, PostInput{Content: "IG", Platforms: []string{entity.PlatformInstagram, entity.PlatformFacebook}})
	require.NoError(t, err)

	list, err := f.svc.ListPosts(repository.PostFilter{Platform: entity.PlatformInstagram})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "IG", list[0].Content)

	list, err = f.svc.ListPosts(repository.PostFilter{Status: entity.PostDraft})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTemplatesAndUseTemplate(t *testing.T) {
	f := newSocialFixture(t)

	_, err := f.svc.CreateTemplate(SocialTemplateInput{Name: "", Content: "x"})
	requireKind(t, err, ErrInvalid)

	_, err = f.svc.CreateTemplate(SocialTemplateInput{Name: "Fără platformă", Content: "x"})
	requireKind(t, err, ErrInvalid, "platformă")
	_, err = f.svc.CreateTemplate(SocialTemplateInput{
		Name: "Prea lung", Content: strings.Repeat("a", MaxCaptionLength+1), Platforms: []string{entity.PlatformInstagram},
	})
	requireKind(t, err, ErrInvalid, "instagram")

	tpl, err := f.svc.CreateTemplate(SocialTemplateInput{
		Name: "Zi de naștere", Category: "evenimente", Content: "La mulți ani!",
		Platforms: []string{entity.PlatformFacebook}, Hashtags: []string{"party"},
	})
	require.NoError(t, err)

	list, err := f.svc.ListTemplates("evenimente")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	p, err := f.svc.UseTemplate(f.actor, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PostDraft, p.Status)
	assert.Equal(t, "La mulți ani!", p.Content)
	assert.Equal(t, []string{entity.PlatformFacebook}, []string(p.Platforms))
	assert.Equal(t, []string{"#party"}, []string(p.Hashtags))
	require.NotNil(t, p.TemplateID)
	assert.Equal(t, tpl.ID, *p.TemplateID)

	updated, err := f.svc.UpdateTemplate(tpl.ID, SocialTemplateInput{
		Name: "Aniversare", Content: "La mulți ani!", Platforms: []string{entity.PlatformInstagram},
	})
	require.NoError(t, err)
	assert.Equal(t, "Aniversare", updated.Name)

	require.NoError(t, f.svc.DeleteTemplate(tpl.ID))
	_, err = f.svc.UseTemplate(f.actor, tpl.ID)
	requireKind(t, err, ErrNotFound)
}

func TestUseTemplateChecksPlatformRules(t *testing.T) {
	f := newSocialFixture(t)
	stored := []*entity.SocialTemplate{
		{Name: "Fără platformă", Content: "Salut"},
		{Name: "Prea lung", Content: strings.Repeat("a", MaxCaptionLength+1),
			Platforms: datatypes.JSONSlice[string]{entity.PlatformTikTok}},
	}
	for _, tpl := range stored {
		require.NoError(t, f.db.Create(tpl).Error)
		_, err := f.svc.UseTemplate(f.actor, tpl.ID)
		requireKind(t, err, ErrInvalid)
	}

	var posts int64
	require.NoError(t, f.db.Model(&entity.SocialPost{}).Count(&posts).Error)
	assert.Zero(t, posts)
}

func TestHashtagSets(t *testing.T) {
	f := newSocialFixture(t)

	set, err := f.svc.CreateHashtagSet("Vară", []string{"vara", "#soare"})
	require.NoError(t, err)
	assert.Equal(t, []string{"#vara", "#soare"}, []string(set.Hashtags))

	_, err = f.svc.CreateHashtagSet("Vară", []string{"x"})
	requireKind(t, err, ErrInvalid, "Există deja")
	_, err = f.svc.CreateHashtagSet("Gol", []string{" ", "#"})
	requireKind(t, err, ErrInvalid)

	updated, err := f.svc.UpdateHashtagSet(set.ID, "Vară", []string{"plaja"})
	require.NoError(t, err, "keeping its own name is allowed")
	assert.Equal(t, []string{"#plaja"}, []string(updated.Hashtags))

	require.NoError(t, f.svc.DeleteHashtagSet(set.ID))
	requireKind(t, f.svc.DeleteHashtagSet(set.ID), ErrNotFound)

	_, err = f.svc.CreateHashtagSet("Vară", []string{"iar"})
	assert.NoError(t, err, "name is free again after delete")
}

func TestLibrary(t *testing.T) {
	f := newSocialFixture(t)

	_, err := f.svc.CreateLibraryItem(f.actor, LibraryInput{Title: "Logo", Type: entity.LibraryImage})
	requireKind(t, err, ErrInvalid, "fișier sau un URL")
	_, err = f.svc.CreateLibraryItem(f.actor, LibraryInput{Title: "Slogan", Type: entity.LibraryText})
	requireKind(t, err, ErrInvalid, "conținut")
	_, err = f.svc.CreateLibraryItem(f.actor, LibraryInput{Title: "X", Type: "audio"})
	requireKind(t, err, ErrInvalid, "audio")

	img, err := f.svc.CreateLibraryItem(f.actor, LibraryInput{
		Title: "Arena", Type: entity.LibraryImage, URL: "https://cdn.laserzone.test/arena.jpg", Tags: []string{"arena", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"arena"}, []string(img.Tags))
	_, err = f.svc.CreateLibraryItem(f.actor, LibraryInput{Title: "Slogan", Type: entity.LibraryText, Content: "Joacă în lumină"})
	require.NoError(t, err)

	list, err := f.svc.ListLibrary("", "arena")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, img.ID, list[0].ID)

	list, err = f.svc.ListLibrary(entity.LibraryText, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteLibraryItem(img.ID))
	_, err = f.svc.GetLibraryItem(img.ID)
	requireKind(t, err, ErrNotFound)
}
