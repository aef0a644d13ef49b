package main

import (
	"context"
	"fmt"
	"os"

	"quizvault/internal/config"
	"quizvault/internal/logger"
	"quizvault/internal/service"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not initialized yet, use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")

	store, err := service.NewStoreFromConfig(cfg)
	if err != nil {
		log.Fatal("Failed to open storage backend", zap.Error(err))
	}
	defer store.Close()

	manager := service.NewDataManager(store, cfg.DataDir)
	if err := manager.EnsureDefaults(ctx); err != nil {
		log.Fatal("Failed to seed default data", zap.Error(err))
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		log.Fatal("Failed to count seeded records", zap.Error(err))
	}
	log.Info("Seeding complete",
		zap.Int("users", counts.Users),
		zap.Int("questions", counts.Questions),
		zap.Int("settings", counts.Settings),
	)
}
