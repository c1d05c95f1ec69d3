package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type ChecklistRepository struct {
	DB *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{DB: db}
}

func (r *ChecklistRepository) WithTx(tx *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{DB: tx}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// ---------------- Templates ----------------

func (r *ChecklistRepository) ListTemplates(shift string, active *bool) ([]entity.ChecklistTemplate, error) {
	q := r.DB.Model(&entity.ChecklistTemplate{}).Preload("Items", orderedItems)
	if shift != "" {
		q = q.Where("shift = ?", shift)
	}
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var out []entity.ChecklistTemplate
	err := q.Order("shift ASC, name ASC").Find(&out).Error
	return out, err
}

func (r *ChecklistRepository) FindTemplate(id uint) (*entity.ChecklistTemplate, error) {
	var t entity.ChecklistTemplate
	if err := r.DB.Preload("Items", orderedItems).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate inserts the template together with its items.
func (r *ChecklistRepository) CreateTemplate(t *entity.ChecklistTemplate) error {
	return r.DB.Create(t).Error
}

func (r *ChecklistRepository) SaveTemplate(t *entity.ChecklistTemplate) error {
	return r.DB.Omit(clause.Associations).Save(t).Error
}

// ReplaceItems soft-deletes the current items and inserts items for templateID.
func (r *ChecklistRepository) ReplaceItems(templateID uint, items []entity.ChecklistItem) error {
	if err := r.DB.Where("template_id = ?", templateID).Delete(&entity.ChecklistItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].TemplateID = templateID
	}
	if len(items) == 0 {
		return nil
	}
	return r.DB.Create(&items).Error
}

func (r *ChecklistRepository) DeleteTemplate(id uint) (int64, error) {
	res := r.DB.Delete(&entity.ChecklistTemplate{}, id)
	return res.RowsAffected, res.Error
}

// ---------------- Instances ----------------

func (r *ChecklistRepository) ListInstances(date, shift string) ([]entity.ChecklistInstance, error) {
	q := r.DB.Model(&entity.ChecklistInstance{}).Preload("Completions")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if shift != "" {
		q = q.Where("shift = ?", shift)
	}
	var out []entity.ChecklistInstance
	err := q.Order("date DESC, shift ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *ChecklistRepository) FindInstance(id uint) (*entity.ChecklistInstance, error) {
	var inst entity.ChecklistInstance
	err := r.DB.Preload("Completions").
		Preload("Template", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&inst, id).Error
	if err != nil {
		return nil, err
	}
	items, err := r.instanceItems(&inst)
	if err != nil {
		return nil, err
	}
	inst.Items = items
	return &inst, nil
}

// instanceItems loads the items pinned on the instance, including ones since removed
// from the template. Rows without a pinned list fall back to the live template items.
func (r *ChecklistRepository) instanceItems(inst *entity.ChecklistInstance) ([]entity.ChecklistItem, error) {
	items := []entity.ChecklistItem{}
	q := r.DB.Where("template_id = ?", inst.TemplateID)
	if len(inst.ItemIDs) > 0 {
		q = r.DB.Unscoped().Where("id IN ?", []uint(inst.ItemIDs))
	}
	err := orderedItems(q).Find(&items).Error
	return items, err
}

// CountInstances counts instances of templateID on date, including soft-deleted ones
// because the unique index still holds them.
func (r *ChecklistRepository) CountInstances(templateID uint, date string) (int64, error) {
	var count int64
	err := r.DB.Unscoped().Model(&entity.ChecklistInstance{}).
		Where("template_id = ? AND date = ?", templateID, date).Count(&count).Error
	return count, err
}

func (r *ChecklistRepository) CreateInstance(inst *entity.ChecklistInstance) error {
	return r.DB.Omit(clause.Associations).Create(inst).Error
}

// CompleteInstanceGuard moves an instance from in_progress to completed.
func (r *ChecklistRepository) CompleteInstanceGuard(id, userID uint, at time.Time) (int64, error) {
	res := r.DB.Model(&entity.ChecklistInstance{}).
		Where("id = ? AND status = ?", id, entity.InstanceInProgress).
		Updates(map[string]any{
			"status":          entity.InstanceCompleted,
			"completed_at":    at,
			"completed_by_id": userID,
		})
	return res.RowsAffected, res.Error
}

func (r *ChecklistRepository) CountCompletion(instanceID, itemID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.ChecklistCompletion{}).
		Where("instance_id = ? AND item_id = ?", instanceID, itemID).Count(&count).Error
	return count, err
}

func (r *ChecklistRepository) CreateCompletion(c *entity.ChecklistCompletion) error {
	return r.DB.Create(c).Error
}

func (r *ChecklistRepository) DeleteCompletion(instanceID, itemID uint) (int64, error) {
	res := r.DB.Where("instance_id = ? AND item_id = ?", instanceID, itemID).
		Delete(&entity.ChecklistCompletion{})
	return res.RowsAffected, res.Error
}
