package entity

import "time"

// ChecklistCompletion marks one item done inside an instance. Un-completing deletes the row.
type ChecklistCompletion struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	InstanceID    uint      `gorm:"uniqueIndex:idx_completion_instance_item;not null" json:"instanceId"`
	ItemID        uint      `gorm:"uniqueIndex:idx_completion_instance_item;not null" json:"itemId"`
	CompletedByID uint      `gorm:"not null" json:"completedById"`
	CompletedAt   time.Time `gorm:"not null" json:"completedAt"`
	Notes         string    `json:"notes"`
}
