package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/resp"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
)

type PostRequest struct {
	Title        string     `json:"title" binding:"max=200"`
	Content      string     `json:"content" binding:"required"`
	Platforms    []string   `json:"platforms" binding:"required,min=1,dive,platform"`
	Hashtags     []string   `json:"hashtags"`
	MediaURLs    []string   `json:"mediaUrls"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
	HashtagSetID *uint      `json:"hashtagSetId"`
}

type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

type SocialTemplateRequest struct {
	Name      string   `json:"name" binding:"required,max=200"`
	Category  string   `json:"category" binding:"max=100"`
	Content   string   `json:"content" binding:"required"`
	Platforms []string `json:"platforms" binding:"required,min=1,dive,platform"`
	Hashtags  []string `json:"hashtags"`
}

type HashtagSetRequest struct {
	Name     string   `json:"name" binding:"required,max=100"`
	Hashtags []string `json:"hashtags" binding:"required,min=1"`
}

type LibraryRequest struct {
	Title      string   `json:"title" binding:"required,max=200"`
	Type       string   `json:"type" binding:"required,oneof=image video text"`
	URL        string   `json:"url"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	FileBase64 string   `json:"fileBase64"`
}

// SocialController serves posts, templates, hashtag sets and the content library.
type SocialController struct {
	Service *services.SocialService
}

func NewSocialController(s *services.SocialService) *SocialController {
	return &SocialController{Service: s}
}

// ---------------- Posts ----------------

// GET /api/social/posts?status=&from=&to=&platform=
func (ctl *SocialController) ListPosts(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	posts, err := ctl.Service.ListPosts(repository.PostFilter{
		Status: c.Query("status"), From: from, To: to, Platform: c.Query("platform"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, posts)
}

func (ctl *SocialController) GetPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Service.GetPost(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

func (ctl *SocialController) CreatePost(c *gin.Context) {
	var req PostRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := ctl.Service.CreatePost(actor(c), services.PostInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, p)
}

func (ctl *SocialController) UpdatePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req PostRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := ctl.Service.UpdatePost(id, services.PostInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

func (ctl *SocialController) DeletePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeletePost(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

func (ctl *SocialController) PublishPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Service.PublishPost(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

func (ctl *SocialController) SchedulePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := ctl.Service.SchedulePost(id, req.ScheduledAt)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

func (ctl *SocialController) UnschedulePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Service.UnschedulePost(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, p)
}

// ---------------- Templates ----------------

func (ctl *SocialController) ListTemplates(c *gin.Context) {
	list, err := ctl.Service.ListTemplates(c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, list)
}

func (ctl *SocialController) GetTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := ctl.Service.GetTemplate(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

func (ctl *SocialController) CreateTemplate(c *gin.Context) {
	var req SocialTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := ctl.Service.CreateTemplate(services.SocialTemplateInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, t)
}

func (ctl *SocialController) UpdateTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SocialTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := ctl.Service.UpdateTemplate(id, services.SocialTemplateInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, t)
}

func (ctl *SocialController) DeleteTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteTemplate(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// POST /api/social/templates/:id/use
func (ctl *SocialController) UseTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Service.UseTemplate(actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, p)
}

// ---------------- Hashtag sets ----------------

func (ctl *SocialController) ListHashtagSets(c *gin.Context) {
	sets, err := ctl.Service.ListHashtagSets()
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, sets)
}

func (ctl *SocialController) GetHashtagSet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	set, err := ctl.Service.GetHashtagSet(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, set)
}

func (ctl *SocialController) CreateHashtagSet(c *gin.Context) {
	var req HashtagSetRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := ctl.Service.CreateHashtagSet(req.Name, req.Hashtags)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, set)
}

func (ctl *SocialController) UpdateHashtagSet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req HashtagSetRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := ctl.Service.UpdateHashtagSet(id, req.Name, req.Hashtags)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, set)
}

func (ctl *SocialController) DeleteHashtagSet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteHashtagSet(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// ---------------- Content library ----------------

// GET /api/social/library?type=&tag=
func (ctl *SocialController) ListLibrary(c *gin.Context) {
	items, err := ctl.Service.ListLibrary(c.Query("type"), c.Query("tag"))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, items)
}

func (ctl *SocialController) GetLibraryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	it, err := ctl.Service.GetLibraryItem(id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, it)
}

func (ctl *SocialController) CreateLibraryItem(c *gin.Context) {
	var req LibraryRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := ctl.Service.CreateLibraryItem(actor(c), services.LibraryInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.Created(c, it)
}

func (ctl *SocialController) UpdateLibraryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req LibraryRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := ctl.Service.UpdateLibraryItem(id, services.LibraryInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, it)
}

func (ctl *SocialController) DeleteLibraryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctl.Service.DeleteLibraryItem(id); err != nil {
		fail(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}
