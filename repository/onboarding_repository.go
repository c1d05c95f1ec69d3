package repository

import (
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type OnboardingRepository struct {
	DB *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{DB: db}
}

func (r *OnboardingRepository) WithTx(tx *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{DB: tx}
}

// ---------------- Config ----------------

func (r *OnboardingRepository) GetConfig() (*entity.OnboardingConfig, error) {
	cfg := entity.DefaultOnboardingConfig()
	if err := r.DB.FirstOrCreate(&cfg, entity.OnboardingConfig{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *OnboardingRepository) SaveConfig(cfg *entity.OnboardingConfig) error {
	cfg.ID = 1
	return r.DB.Save(cfg).Error
}

// ---------------- Content ----------------

func (r *OnboardingRepository) ListDocuments() ([]entity.OnboardingDocument, error) {
	var out []entity.OnboardingDocument
	err := r.DB.Order("position ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *OnboardingRepository) FindDocument(id uint) (*entity.OnboardingDocument, error) {
	var d entity.OnboardingDocument
	if err := r.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *OnboardingRepository) ListChapters() ([]entity.OnboardingVideoChapter, error) {
	var out []entity.OnboardingVideoChapter
	err := r.DB.Order("position ASC, start_seconds ASC").Find(&out).Error
	return out, err
}

func (r *OnboardingRepository) FindChapter(id uint) (*entity.OnboardingVideoChapter, error) {
	var ch entity.OnboardingVideoChapter
	if err := r.DB.First(&ch, id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *OnboardingRepository) ListQuestions() ([]entity.OnboardingQuizQuestion, error) {
	var out []entity.OnboardingQuizQuestion
	err := r.DB.Order("position ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *OnboardingRepository) FindQuestion(id uint) (*entity.OnboardingQuizQuestion, error) {
	var q entity.OnboardingQuizQuestion
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// Create, Save and Delete work on any content model (documents, chapters, questions).
func (r *OnboardingRepository) Create(model any) error {
	return r.DB.Create(model).Error
}

func (r *OnboardingRepository) Save(model any) error {
	return r.DB.Save(model).Error
}

func (r *OnboardingRepository) Delete(model any, id uint) (int64, error) {
	res := r.DB.Delete(model, id)
	return res.RowsAffected, res.Error
}

// ---------------- Progress ----------------

func (r *OnboardingRepository) FindProgress(employeeID uint) (*entity.OnboardingProgress, error) {
	var p entity.OnboardingProgress
	if err := r.DB.Where("employee_id = ?", employeeID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *OnboardingRepository) CreateProgress(p *entity.OnboardingProgress) error {
	return r.DB.Create(p).Error
}

func (r *OnboardingRepository) SaveProgress(p *entity.OnboardingProgress) error {
	return r.DB.Save(p).Error
}
