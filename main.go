package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/configs"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/validation"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/routes"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/ws"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lzhub",
		Short:         "LaserZone Hub operations backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate, seed and start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema and exit",
			RunE: func(_ *cobra.Command, _ []string) error {
				_, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer logger.Sync()
				defer configs.CloseDB(db)
				logger.L().Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Apply the schema and insert default data",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer logger.Sync()
				defer configs.CloseDB(db)
				if err := configs.SeedAll(db, cfg); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				logger.L().Info("seed completed")
				return nil
			},
		},
	)
	return root
}

// bootstrap loads config, installs the logger and opens a migrated database.
func bootstrap() (*configs.Config, *gorm.DB, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(&logger.Settings{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "lzhub",
		FilePath:    cfg.LogFile,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	}); err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}

	if err := configs.ConnectionDB(cfg); err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	db := configs.DB()
	if err := configs.SetupDatabase(db); err != nil {
		_ = configs.CloseDB(db)
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, db, nil
}

func serve(parent context.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer configs.CloseDB(db)
	log := logger.L()

	if err := configs.SeedAll(db, cfg); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := validation.Register(); err != nil {
		return err
	}
	metrics.Register()
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := ws.NewLiveHub(cfg.CORSOrigins)
	svc := routes.NewServices(db, cfg, hub)
	r := routes.NewRouter(cfg, svc, hub)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		svc.Social.RunPublisher(ctx, cfg.SocialPublishInterval)
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	stop()
	wg.Wait()
	log.Info("server stopped")
	return nil
}
