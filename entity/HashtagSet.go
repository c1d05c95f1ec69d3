package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HashtagSet struct {
	gorm.Model
	Name     string                      `gorm:"uniqueIndex;not null" json:"name"`
	Hashtags datatypes.JSONSlice[string] `json:"hashtags"`
}
