package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SocialTemplate struct {
	gorm.Model
	Name      string                      `gorm:"not null" json:"name"`
	Category  string                      `json:"category"`
	Content   string                      `gorm:"not null" json:"content"`
	Platforms datatypes.JSONSlice[string] `json:"platforms"`
	Hashtags  datatypes.JSONSlice[string] `json:"hashtags"`
}
