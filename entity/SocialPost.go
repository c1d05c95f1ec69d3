package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PostDraft     = "draft"
	PostScheduled = "scheduled"
	PostPublished = "published"
	PostFailed    = "failed"
)

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
)

func ValidPlatform(p string) bool {
	return p == PlatformFacebook || p == PlatformInstagram || p == PlatformTikTok
}

type SocialPost struct {
	gorm.Model
	Title       string                      `json:"title"`
	Content     string                      `gorm:"not null" json:"content"`
	Platforms   datatypes.JSONSlice[string] `json:"platforms"`
	Hashtags    datatypes.JSONSlice[string] `json:"hashtags"`
	MediaURLs   datatypes.JSONSlice[string] `json:"mediaUrls"`
	ScheduledAt *time.Time                  `gorm:"index" json:"scheduledAt,omitempty"`
	Status      string                      `gorm:"index;not null;default:draft" json:"status"`
	PublishedAt *time.Time                  `json:"publishedAt,omitempty"`

	CreatedByID uint  `json:"createdById"`
	TemplateID  *uint `json:"templateId,omitempty"`
}
