package entity

import "time"

// OnboardingConfig is a single-row table (ID 1).
type OnboardingConfig struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	WelcomeMessage       string    `json:"welcomeMessage"`
	VideoURL             string    `json:"videoUrl"`
	VideoDurationSeconds int       `json:"videoDurationSeconds"`
	PassingScore         int       `gorm:"not null;default:80" json:"passingScore"`   // percent
	MaxQuizAttempts      int       `gorm:"not null;default:0" json:"maxQuizAttempts"` // 0 = unlimited
	UpdatedAt            time.Time `json:"updatedAt"`
}

func DefaultOnboardingConfig() OnboardingConfig {
	return OnboardingConfig{
		ID:             1,
		WelcomeMessage: "Bine ai venit în echipa LaserZone!",
		PassingScore:   80,
	}
}
