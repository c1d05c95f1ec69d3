package entity

import "gorm.io/gorm"

type OnboardingVideoChapter struct {
	gorm.Model
	Title        string `gorm:"not null" json:"title"`
	StartSeconds int    `gorm:"not null" json:"startSeconds"`
	EndSeconds   int    `gorm:"not null" json:"endSeconds"`
	Position     int    `gorm:"not null;default:0" json:"position"`
}
