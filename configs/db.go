package configs

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

// ConnectionDB opens the configured database and keeps it as the package connection.
func ConnectionDB(cfg *Config) error {
	database, err := OpenDB(cfg.DBDriver, cfg.DBSource, cfg.DBLogLevel)
	if err != nil {
		return err
	}
	db = database
	return nil
}

func OpenDB(driver, source, logLevel string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(parseGormLevel(logLevel))}

	var (
		database *gorm.DB
		err      error
	)
	switch driver {
	case DriverPostgres:
		database, err = gorm.Open(postgres.Open(source), gcfg)
	case DriverSQLite:
		database, err = gorm.Open(sqlite.Open(source), gcfg)
		if err == nil {
			// sqlite allows a single writer; one connection avoids "database is locked".
			sqlDB, dbErr := database.DB()
			if dbErr != nil {
				return nil, dbErr
			}
			sqlDB.SetMaxOpenConns(1)
			if err := database.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
				return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return database, nil
}

func CloseDB(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&entity.User{},
		&entity.Customer{}, &entity.Tag{}, &entity.CustomerTag{},
		&entity.Reservation{}, &entity.CapacitySettings{},
		&entity.ChecklistTemplate{}, &entity.ChecklistItem{},
		&entity.ChecklistInstance{}, &entity.ChecklistCompletion{},
		&entity.AuditLog{},
		&entity.OnboardingConfig{}, &entity.OnboardingDocument{},
		&entity.OnboardingVideoChapter{}, &entity.OnboardingQuizQuestion{},
		&entity.OnboardingProgress{},
		&entity.SocialPost{}, &entity.SocialTemplate{},
		&entity.HashtagSet{}, &entity.ContentLibraryItem{},
		&entity.Warning{},
	}
}

func SetupDatabase(database *gorm.DB) error {
	// custom join table for Customer.Tags (keeps created_at)
	if err := database.SetupJoinTable(&entity.Customer{}, "Tags", &entity.CustomerTag{}); err != nil {
		return fmt.Errorf("setup join table failed: %w", err)
	}
	if err := database.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
