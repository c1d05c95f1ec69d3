package entity

import "gorm.io/gorm"

type ChecklistItem struct {
	gorm.Model
	TemplateID  uint   `gorm:"index;not null" json:"templateId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Position    int    `gorm:"not null" json:"position"`
	IsRequired  bool   `gorm:"not null" json:"isRequired"`
}
