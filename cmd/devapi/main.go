package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/wichananm65/pet-shop-storefront/internal/config"
	"github.com/wichananm65/pet-shop-storefront/internal/devapi"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db = mustOpenDB(cfg.DatabaseURL, logger)
		defer db.Close()
	}

	srv, err := devapi.New(devapi.Options{
		JWTSecret: cfg.JWTSecret,
		StaticDir: cfg.StaticDir,
		DB:        db,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to build dev backend", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Listen(cfg.Addr); err != nil {
		logger.Fatal("dev backend stopped", zap.Error(err))
	}
}

func mustOpenDB(url string, logger *zap.Logger) *sql.DB {
	db, err := devapi.OpenDB(url)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := devapi.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	return db
}
