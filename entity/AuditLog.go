package entity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditEntityTemplate = "checklist_template"
	AuditEntityInstance = "checklist_instance"
)

// AuditLog is append-only; rows are never updated or deleted.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	EntityType string            `gorm:"size:50;index:idx_audit_entity;not null" json:"entityType"`
	EntityID   uint              `gorm:"index:idx_audit_entity;not null" json:"entityId"`
	Action     string            `gorm:"size:50;not null" json:"action"`
	UserID     uint              `gorm:"index" json:"userId"`
	Details    datatypes.JSONMap `json:"details"`
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
}
