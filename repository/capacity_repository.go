package repository

import (
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type CapacityRepository struct {
	DB *gorm.DB
}

func NewCapacityRepository(db *gorm.DB) *CapacityRepository {
	return &CapacityRepository{DB: db}
}

func (r *CapacityRepository) WithTx(tx *gorm.DB) *CapacityRepository {
	return &CapacityRepository{DB: tx}
}

// Get returns the settings row, creating it with defaults when missing.
func (r *CapacityRepository) Get() (*entity.CapacitySettings, error) {
	s := entity.DefaultCapacitySettings()
	if err := r.DB.FirstOrCreate(&s, entity.CapacitySettings{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CapacityRepository) Save(s *entity.CapacitySettings) error {
	s.ID = 1
	return r.DB.Save(s).Error
}
