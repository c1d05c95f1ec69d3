package logger

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Settings controls where and how the application logs.
type Settings struct {
	Level       string
	Environment string // development | production
	ServiceName string

	// FilePath switches output to a rotating file.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (s *Settings) Validate() error {
	switch s.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("invalid log level: %q", s.Level)
	}
	if s.FilePath != "" && (s.MaxSizeMB <= 0 || s.MaxBackups < 0 || s.MaxAgeDays < 0) {
		return fmt.Errorf("file logger requires a positive max size and non-negative backups/age")
	}
	return nil
}

var log = zap.NewNop()

// New builds a zap logger from settings without touching the global one.
func New(s *Settings) (*zap.Logger, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	level := parseLevel(s.Level)
	fields := zap.Fields(
		zap.String("service", s.ServiceName),
		zap.String("environment", s.Environment),
	)

	if s.FilePath != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   s.FilePath,
			MaxSize:    s.MaxSizeMB,
			MaxBackups: s.MaxBackups,
			MaxAge:     s.MaxAgeDays,
			Compress:   true,
		})
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), writer, level)
		return zap.New(core, zap.AddCaller(), fields), nil
	}

	if s.Environment == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build(fields)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build(fields)
}

// Init builds the logger and installs it as the package and zap global logger.
func Init(s *Settings) error {
	l, err := New(s)
	if err != nil {
		return err
	}
	log = l
	zap.ReplaceGlobals(l)
	return nil
}

// L returns the global logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	return log
}

func Sync() {
	_ = log.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type contextKey string

const loggerKey contextKey = "logger"

// GinKey is where middlewares store the request-scoped logger.
const GinKey = "logger"

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return log
}

// FromGin returns the request-scoped logger, falling back to the global one.
func FromGin(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(GinKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return log
}
