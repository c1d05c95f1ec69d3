package entity

import "gorm.io/gorm"

type OnboardingDocument struct {
	gorm.Model
	Title             string `gorm:"not null" json:"title"`
	Description       string `json:"description"`
	FileURL           string `json:"fileUrl"`
	Position          int    `gorm:"not null;default:0" json:"position"`
	RequiresSignature bool   `gorm:"not null" json:"requiresSignature"`
}
