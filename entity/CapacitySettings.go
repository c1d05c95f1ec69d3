package entity

import "time"

// CapacitySettings is a single-row table (ID 1).
type CapacitySettings struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	MaxPlayersPerSlot int       `gorm:"not null;default:24" json:"maxPlayersPerSlot"`
	WarningThreshold  int       `gorm:"not null;default:75" json:"warningThreshold"` // percent
	OpeningTime       string    `gorm:"not null;default:'10:00'" json:"openingTime"`
	ClosingTime       string    `gorm:"not null;default:'22:00'" json:"closingTime"`
	UpdatedByID       *uint     `json:"updatedById,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func DefaultCapacitySettings() CapacitySettings {
	return CapacitySettings{
		ID:                1,
		MaxPlayersPerSlot: 24,
		WarningThreshold:  75,
		OpeningTime:       "10:00",
		ClosingTime:       "22:00",
	}
}
