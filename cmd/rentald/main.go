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

	"battery-rental-backend/config"
	"battery-rental-backend/internal/api"
	"battery-rental-backend/internal/auth"
	"battery-rental-backend/internal/db"
	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/rental"
	"battery-rental-backend/internal/roster"
	"battery-rental-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "rental-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret must be configured")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	if err := seedAdmin(cfg, appStore); err != nil {
		logger.Fatalf("failed to seed admin account: %v", err)
	}

	loc := time.Local
	if cfg.Server.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Server.Timezone)
		if err != nil {
			logger.Fatalf("invalid server.timezone %q: %v", cfg.Server.Timezone, err)
		}
	}

	rentalSvc := rental.NewService(appStore, loc)
	rosterSvc := roster.NewService(appStore)

	router := api.NewRouter(cfg, appStore, rentalSvc, rosterSvc)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

// seedAdmin creates the configured administrator account on first start.
func seedAdmin(cfg *config.Config, s store.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.GetUser(ctx, cfg.Seed.AdminID); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if cfg.Seed.AdminPassword == "" {
		return errors.New("seed.admin_password must be set when the admin account does not exist")
	}
	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}
	return s.CreateUser(ctx, &model.User{
		ID:           cfg.Seed.AdminID,
		Name:         cfg.Seed.AdminName,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
}
