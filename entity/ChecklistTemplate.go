package entity

import "gorm.io/gorm"

const (
	ShiftOpening = "opening"
	ShiftMidday  = "midday"
	ShiftClosing = "closing"
)

func ValidShift(s string) bool {
	return s == ShiftOpening || s == ShiftMidday || s == ShiftClosing
}

type ChecklistTemplate struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Shift       string `gorm:"index;not null" json:"shift"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`

	Items []ChecklistItem `gorm:"foreignKey:TemplateID" json:"items"`

	CreatedByID uint `json:"createdById"`
}
