package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/client-onboarding/internal/audit"
	"github.com/BruksfildServices01/client-onboarding/internal/config"
	dbpkg "github.com/BruksfildServices01/client-onboarding/internal/db"
	"github.com/BruksfildServices01/client-onboarding/internal/logger"
	"github.com/BruksfildServices01/client-onboarding/internal/routes"
	ucClient "github.com/BruksfildServices01/client-onboarding/internal/usecase/client"
)

// In-flight creates may still be sending their welcome email.
const shutdownGracePeriod = ucClient.WelcomeSendTimeout + 5*time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lggr, err := logger.New(logger.Config{
		Env:    cfg.Env,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return err
	}
	defer func() { _ = lggr.Sync() }()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	deps := routes.Deps{Logger: lggr}

	// ======================================================
	// STORE / CACHE
	// ======================================================
	var db *gorm.DB
	if cfg.StoreDriver == config.StoreDriverPostgres {
		db, err = dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := dbpkg.Close(db); err != nil {
				lggr.Error("error closing database", zap.Error(err))
			}
		}()
		deps.DB = db
	}

	if cfg.RedisURL != "" {
		rdb, err := dbpkg.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		deps.Redis = rdb
	}

	// ======================================================
	// AUDIT
	// ======================================================
	var sink audit.Sink = audit.NewLogSink(lggr.Named("audit"))
	if db != nil {
		sink = audit.NewGormSink(db)
	}
	deps.Audit = audit.NewDispatcher(sink, lggr)
	defer deps.Audit.Close()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	if err := routes.RegisterRoutes(r, cfg, deps); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lggr.Info("server starting",
		zap.String("addr", cfg.Addr()),
		zap.String("store_driver", cfg.StoreDriver),
		zap.Bool("list_cache", deps.Redis != nil),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		lggr.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lggr.Error("graceful server shutdown failed", zap.Error(err))
			_ = server.Close()
		}
	}

	lggr.Info("server stopped")
	return nil
}
