package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	WarningVerbal  = "verbal"
	WarningWritten = "written"
	WarningFinal   = "final"
)

func ValidWarningLevel(l string) bool {
	return l == WarningVerbal || l == WarningWritten || l == WarningFinal
}

// pending_acknowledgment -> acknowledged | refused | cleared
const (
	WarningPending      = "pending_acknowledgment"
	WarningAcknowledged = "acknowledged"
	WarningRefused      = "refused"
	WarningCleared      = "cleared"
)

type Warning struct {
	gorm.Model
	EmployeeID uint `gorm:"index;not null" json:"employeeId"`
	Employee   User `json:"employee"`
	IssuedByID uint `gorm:"not null" json:"issuedById"`
	IssuedBy   User `json:"issuedBy"`

	Level       string `gorm:"not null" json:"level"`
	Reason      string `gorm:"not null" json:"reason"`
	Description string `json:"description"`
	Status      string `gorm:"index;not null;default:pending_acknowledgment" json:"status"`

	EmployeeComment string     `json:"employeeComment"`
	AcknowledgedAt  *time.Time `json:"acknowledgedAt,omitempty"`
	RefusedAt       *time.Time `json:"refusedAt,omitempty"`
	RefusalReason   string     `json:"refusalReason"`

	ClearedAt   *time.Time `json:"clearedAt,omitempty"`
	ClearedByID *uint      `json:"clearedById,omitempty"`
	ClearReason string     `json:"clearReason"`
}
