package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv string
	Port   string

	DBDriver   string
	DBSource   string
	DBLogLevel string

	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool
	CORSOrigins   []string

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	VenueTimezone string
	UploadDir     string

	OnboardingSeedFile    string
	SocialPublishInterval time.Duration

	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8000"),
		DBDriver:              getEnv("DB_DRIVER", DriverSQLite),
		DBSource:              getEnv("DB_SOURCE", "laserzone.db"),
		DBLogLevel:            getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:             getEnv("JWT_SECRET", "changeme"),
		SessionTTL:            getDuration("SESSION_TTL", 12*time.Hour),
		SessionCookie:         getEnv("SESSION_COOKIE", "lz_session"),
		CookieSecure:          getBool("COOKIE_SECURE", false),
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFile:               getEnv("LOG_FILE", ""),
		LogMaxSizeMB:          getInt("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups:         getInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays:         getInt("LOG_MAX_AGE_DAYS", 30),
		VenueTimezone:         getEnv("VENUE_TIMEZONE", "Europe/Bucharest"),
		UploadDir:             getEnv("UPLOAD_DIR", "uploads"),
		OnboardingSeedFile:    getEnv("ONBOARDING_SEED_FILE", ""),
		SocialPublishInterval: getDuration("SOCIAL_PUBLISH_INTERVAL", time.Minute),
		AdminEmail:            getEnv("ADMIN_EMAIL", ""),
		AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Validate() error {
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBSource == "" {
		return errors.New("DB_SOURCE is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SocialPublishInterval <= 0 {
		return errors.New("SOCIAL_PUBLISH_INTERVAL must be positive")
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == "changeme") {
		return errors.New("JWT_SECRET must be set in production")
	}
	if _, err := time.LoadLocation(c.VenueTimezone); err != nil {
		return fmt.Errorf("invalid VENUE_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the venue timezone; Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.VenueTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
