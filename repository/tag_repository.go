package repository

import (
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	return &TagRepository{DB: tx}
}

func (r *TagRepository) List() ([]entity.Tag, error) {
	var tags []entity.Tag
	err := r.DB.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) FindByID(id uint) (*entity.Tag, error) {
	var t entity.Tag
	if err := r.DB.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) CountByName(name string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Tag{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count, err
}

func (r *TagRepository) Create(t *entity.Tag) error {
	return r.DB.Create(t).Error
}

// Delete removes the tag and its customer links. Run inside a transaction.
func (r *TagRepository) Delete(id uint) (int64, error) {
	if err := r.DB.Where("tag_id = ?", id).Delete(&entity.CustomerTag{}).Error; err != nil {
		return 0, err
	}
	res := r.DB.Delete(&entity.Tag{}, id)
	return res.RowsAffected, res.Error
}
