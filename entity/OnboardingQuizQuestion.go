package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionSingleChoice = "single_choice"
	QuestionMultiSelect  = "multi_select"
	QuestionOpenText     = "open_text"
)

type OnboardingQuizQuestion struct {
	gorm.Model
	Question       string                      `gorm:"not null" json:"question"`
	Type           string                      `gorm:"not null" json:"type"`
	Options        datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswers datatypes.JSONSlice[string] `json:"correctAnswers"`
	Points         int                         `gorm:"not null;default:1" json:"points"`
	Position       int                         `gorm:"not null;default:0" json:"position"`
}
