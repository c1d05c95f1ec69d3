package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LibraryImage = "image"
	LibraryVideo = "video"
	LibraryText  = "text"
)

type ContentLibraryItem struct {
	gorm.Model
	Title        string                      `gorm:"not null" json:"title"`
	Type         string                      `gorm:"index;not null" json:"type"`
	URL          string                      `json:"url"`
	Content      string                      `json:"content"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	UploadedByID uint                        `json:"uploadedById"`
}
