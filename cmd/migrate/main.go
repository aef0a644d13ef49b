package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"quizvault/internal/config"
	"quizvault/internal/database"
	"quizvault/internal/domain"
	"quizvault/internal/logger"
	"quizvault/internal/migration"

	"go.uber.org/zap"
)

func main() {
	noBackup := flag.Bool("no-backup", false, "skip backing up the JSON data files before migrating")
	force := flag.Bool("force", false, "migrate even if the database already contains data")
	flag.Parse()

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

	db, err := database.Connect(cfg.DatabasePath())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to apply database schema", zap.Error(err))
	}

	ctx := context.Background()
	engine := migration.New(cfg.DataDir, db, migration.Options{Force: *force})

	fmt.Println("JSON to SQLite migration")
	fmt.Println("========================")

	if len(engine.SourceFiles()) == 0 {
		fmt.Println("No JSON data files found. Nothing to migrate.")
		os.Exit(1)
	}

	if *noBackup {
		fmt.Println("Skipping backup (-no-backup).")
	} else {
		fmt.Println("Backing up JSON data files...")
		backupDir, err := engine.BackupSources()
		if err != nil {
			log.Fatal("Backup failed", zap.Error(err))
		}
		fmt.Printf("Backup written to %s\n", backupDir)
	}

	fmt.Println("Starting migration...")
	stats, err := engine.Migrate(ctx)
	if err != nil {
		if domain.HasCode(err, domain.ErrDestinationNotEmpty) {
			fmt.Println("Database already contains data. Use -force to migrate anyway.")
			os.Exit(1)
		}
		log.Fatal("Migration failed", zap.Error(err))
	}
	fmt.Printf("Migrated %d users, %d questions, %d scores, and %d settings.\n",
		stats.Users, stats.Questions, stats.Scores, stats.Settings)

	fmt.Println("Verifying migration...")
	result, err := engine.Verify(ctx)
	if err != nil {
		log.Fatal("Verification failed", zap.Error(err))
	}
	fmt.Printf("  Users:     JSON=%d, DB=%d\n", result.Users.Source, result.Users.Destination)
	fmt.Printf("  Questions: JSON=%d, DB=%d\n", result.Questions.Source, result.Questions.Destination)
	fmt.Printf("  Scores:    JSON=%d, DB=%d\n", result.Scores.Source, result.Scores.Destination)
	fmt.Printf("  Settings:  JSON=%d, DB=%d\n", result.Settings.Source, result.Settings.Destination)

	if !result.Success() {
		fmt.Println("Migration finished with mismatched counts. The JSON files are untouched.")
		os.Exit(1)
	}
	fmt.Println("Migration completed successfully.")
}
