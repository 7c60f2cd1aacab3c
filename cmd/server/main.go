package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-tracker/internal/accounts"
	"inventory-tracker/internal/config"
	"inventory-tracker/internal/database"
	"inventory-tracker/internal/handlers"
	"inventory-tracker/internal/inventory"
	"inventory-tracker/internal/logger"
	"inventory-tracker/internal/server"
	"inventory-tracker/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	db, err := database.Open(cfg, logg)
	if err != nil {
		return err
	}

	images, err := imageStore(cfg)
	if err != nil {
		return err
	}

	acc := accounts.New(db, logg.Named("accounts"))
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	err = acc.EnsureAdmin(seedCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	inv := inventory.New(db,
		inventory.WithLogger(logg.Named("inventory")),
		inventory.WithImageStore(images, cfg.AllowedImageExtensions, cfg.MaxUploadBytes),
		inventory.WithLegacyHolderSync(cfg.LegacyHolderSync),
	)

	sessionStore, err := server.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Options{
		Config:   cfg,
		Sessions: sessionStore,
		Handlers: handlers.New(acc, inv, logg.Named("http")),
		Users:    acc,
		Logger:   logg.Named("http"),
	})

	addr := ":" + cfg.ServerPort
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logg.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logg.Info("shutdown complete")
	return nil
}

func imageStore(cfg *config.Config) (storage.ImageStore, error) {
	if cfg.ImageStore == config.ImageStoreMinio {
		m := cfg.Minio
		return storage.NewMinioStore(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
	}
	return storage.NewFileStore(cfg.UploadDir)
}
