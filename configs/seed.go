package configs

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
)

//go:embed onboarding_seed.yaml
var defaultOnboardingSeed []byte

// create the first admin
func SeedAdmin(db *gorm.DB, email, password string) error {
	log := logger.L()
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin already exists", zap.String("email", email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "LaserZone",
		Role:      entity.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("admin seeded", zap.String("email", email))
	return nil
}

// SeedDefaults makes sure the single-row settings tables exist.
func SeedDefaults(db *gorm.DB) error {
	capacity := entity.DefaultCapacitySettings()
	if err := db.FirstOrCreate(&capacity, entity.CapacitySettings{ID: 1}).Error; err != nil {
		return fmt.Errorf("seed capacity settings: %w", err)
	}
	cfg := entity.DefaultOnboardingConfig()
	if err := db.FirstOrCreate(&cfg, entity.OnboardingConfig{ID: 1}).Error; err != nil {
		return fmt.Errorf("seed onboarding config: %w", err)
	}
	return nil
}

type OnboardingSeed struct {
	Config struct {
		WelcomeMessage       string `yaml:"welcome_message"`
		VideoURL             string `yaml:"video_url"`
		VideoDurationSeconds int    `yaml:"video_duration_seconds"`
		PassingScore         int    `yaml:"passing_score"`
		MaxQuizAttempts      int    `yaml:"max_quiz_attempts"`
	} `yaml:"config"`
	Documents []struct {
		Title             string `yaml:"title"`
		Description       string `yaml:"description"`
		FileURL           string `yaml:"file_url"`
		RequiresSignature bool   `yaml:"requires_signature"`
	} `yaml:"documents"`
	Chapters []struct {
		Title string `yaml:"title"`
		Start int    `yaml:"start"`
		End   int    `yaml:"end"`
	} `yaml:"chapters"`
	Questions []struct {
		Question string   `yaml:"question"`
		Type     string   `yaml:"type"`
		Options  []string `yaml:"options"`
		Correct  []string `yaml:"correct"`
		Points   int      `yaml:"points"`
	} `yaml:"questions"`
}

func ParseOnboardingSeed(data []byte) (*OnboardingSeed, error) {
	var seed OnboardingSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse onboarding seed: %w", err)
	}
	for i, q := range seed.Questions {
		switch q.Type {
		case entity.QuestionSingleChoice, entity.QuestionMultiSelect, entity.QuestionOpenText:
		default:
			return nil, fmt.Errorf("question %d: unknown type %q", i+1, q.Type)
		}
	}
	return &seed, nil
}

// SeedOnboardingContent loads documents, chapters and quiz questions from path
// (or the embedded default) when no content exists yet.
func SeedOnboardingContent(db *gorm.DB, path string) error {
	data := defaultOnboardingSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read onboarding seed: %w", err)
		}
		data = b
	}
	seed, err := ParseOnboardingSeed(data)
	if err != nil {
		return err
	}

	var existing int64
	if err := db.Model(&entity.OnboardingQuizQuestion{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		logger.L().Info("onboarding content already present, skip seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		cfg := entity.DefaultOnboardingConfig()
		if err := tx.FirstOrCreate(&cfg, entity.OnboardingConfig{ID: 1}).Error; err != nil {
			return err
		}
		if seed.Config.WelcomeMessage != "" {
			cfg.WelcomeMessage = seed.Config.WelcomeMessage
		}
		cfg.VideoURL = seed.Config.VideoURL
		cfg.VideoDurationSeconds = seed.Config.VideoDurationSeconds
		if seed.Config.PassingScore > 0 {
			cfg.PassingScore = seed.Config.PassingScore
		}
		cfg.MaxQuizAttempts = seed.Config.MaxQuizAttempts
		if err := tx.Save(&cfg).Error; err != nil {
			return err
		}

		for i, d := range seed.Documents {
			doc := entity.OnboardingDocument{
				Title: d.Title, Description: d.Description, FileURL: d.FileURL,
				Position: i + 1, RequiresSignature: d.RequiresSignature,
			}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
		}
		for i, c := range seed.Chapters {
			ch := entity.OnboardingVideoChapter{Title: c.Title, StartSeconds: c.Start, EndSeconds: c.End, Position: i + 1}
			if err := tx.Create(&ch).Error; err != nil {
				return err
			}
		}
		for i, q := range seed.Questions {
			points := q.Points
			if points <= 0 {
				points = 1
			}
			question := entity.OnboardingQuizQuestion{
				Question:       q.Question,
				Type:           q.Type,
				Options:        datatypes.JSONSlice[string](q.Options),
				CorrectAnswers: datatypes.JSONSlice[string](q.Correct),
				Points:         points,
				Position:       i + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		logger.L().Info("onboarding content seeded",
			zap.Int("documents", len(seed.Documents)),
			zap.Int("chapters", len(seed.Chapters)),
			zap.Int("questions", len(seed.Questions)))
		return nil
	})
}

// SeedAll runs every seeder in order.
func SeedAll(db *gorm.DB, cfg *Config) error {
	var errs []error
	if err := SeedDefaults(db); err != nil {
		errs = append(errs, err)
	}
	if err := SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		errs = append(errs, fmt.Errorf("seed admin: %w", err))
	}
	if err := SeedOnboardingContent(db, cfg.OnboardingSeedFile); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
