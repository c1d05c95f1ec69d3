package repository

import (
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

// AuditLogRepository only appends and reads; there is no update or delete.
type AuditLogRepository struct {
	DB *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

func (r *AuditLogRepository) WithTx(tx *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{DB: tx}
}

func (r *AuditLogRepository) Create(e *entity.AuditLog) error {
	return r.DB.Create(e).Error
}

// List returns newest entries first.
func (r *AuditLogRepository) List(entityType string, entityID uint, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := r.DB.Model(&entity.AuditLog{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if entityID != 0 {
		q = q.Where("entity_id = ?", entityID)
	}
	var out []entity.AuditLog
	err := q.Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
