package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type WarningRepository struct {
	DB *gorm.DB
}

func NewWarningRepository(db *gorm.DB) *WarningRepository {
	return &WarningRepository{DB: db}
}

func (r *WarningRepository) WithTx(tx *gorm.DB) *WarningRepository {
	return &WarningRepository{DB: tx}
}

type WarningFilter struct {
	EmployeeID uint
	Status     string
	Level      string
}

func (r *WarningRepository) List(f WarningFilter) ([]entity.Warning, error) {
	q := r.DB.Model(&entity.Warning{}).Preload("Employee").Preload("IssuedBy")
	if f.EmployeeID != 0 {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	var out []entity.Warning
	err := q.Order("id DESC").Find(&out).Error
	return out, err
}

func (r *WarningRepository) FindByID(id uint) (*entity.Warning, error) {
	var w entity.Warning
	if err := r.DB.Preload("Employee").Preload("IssuedBy").First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WarningRepository) Create(w *entity.Warning) error {
	return r.DB.Omit(clause.Associations).Create(w).Error
}

func (r *WarningRepository) Save(w *entity.Warning) error {
	return r.DB.Omit(clause.Associations).Save(w).Error
}

// UpdateGuard applies updates only while the warning is still in status from.
func (r *WarningRepository) UpdateGuard(id uint, from string, updates map[string]any) (int64, error) {
	res := r.DB.Model(&entity.Warning{}).Where("id = ? AND status = ?", id, from).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *WarningRepository) HardDelete(id uint) (int64, error) {
	res := r.DB.Unscoped().Delete(&entity.Warning{}, id)
	return res.RowsAffected, res.Error
}

type WarningCount struct {
	Level  string
	Status string
	Count  int64
}

// CountByLevelAndStatus groups the employee's warnings.
func (r *WarningRepository) CountByLevelAndStatus(employeeID uint) ([]WarningCount, error) {
	var out []WarningCount
	err := r.DB.Model(&entity.Warning{}).
		Select("level, status, COUNT(*) AS count").
		Where("employee_id = ?", employeeID).
		Group("level, status").
		Scan(&out).Error
	return out, err
}
