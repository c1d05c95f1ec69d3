package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	InstanceInProgress = "in_progress"
	InstanceCompleted  = "completed"
)

// ChecklistInstance is one run of a template for a given day.
type ChecklistInstance struct {
	gorm.Model
	TemplateID uint              `gorm:"uniqueIndex:idx_instance_template_date;not null" json:"templateId"`
	Template   ChecklistTemplate `json:"-"`
	Date       string            `gorm:"uniqueIndex:idx_instance_template_date;not null" json:"date"` // YYYY-MM-DD
	Shift      string            `gorm:"index;not null" json:"shift"`
	Status     string            `gorm:"not null;default:in_progress" json:"status"`

	// ItemIDs pins the template items the run was created with; later template edits
	// do not change it.
	ItemIDs datatypes.JSONSlice[uint] `json:"itemIds"`
	Items   []ChecklistItem           `gorm:"-" json:"-"`

	AssignedToID  *uint      `json:"assignedToId,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CompletedByID *uint      `json:"completedById,omitempty"`

	Completions []ChecklistCompletion `gorm:"foreignKey:InstanceID" json:"completions"`
}
