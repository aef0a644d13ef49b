package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"quizvault/internal/config"
	"quizvault/internal/filestore"
	"quizvault/internal/logger"
	"quizvault/internal/service"

	"go.uber.org/zap"
)

// Imports a batch of questions from a JSON file into the active storage
// backend. IDs in the file are ignored; the store assigns the next free
// ID to each question so imports never collide with existing records.
func main() {
	file := flag.String("file", "configs/sample_questions.json", "JSON file containing an array of questions to import")
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

	log.Info("Starting question import", zap.String("file", *file))

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("Failed to read question file", zap.Error(err))
	}
	var docs []filestore.QuestionDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatal("Question file is not a valid JSON array", zap.Error(err))
	}
	if len(docs) == 0 {
		log.Warn("Question file is empty, nothing to import")
		return
	}

	store, err := service.NewStoreFromConfig(cfg)
	if err != nil {
		log.Fatal("Failed to open storage backend", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	imported := 0
	for i, doc := range docs {
		question := doc.ToDomain()
		question.ID = 0
		if err := question.Validate(); err != nil {
			log.Warn("Skipping invalid question",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		id, err := store.InsertQuestion(ctx, &question)
		if err != nil {
			log.Fatal("Failed to insert question", zap.Int("index", i), zap.Error(err))
		}
		log.Info("Imported question",
			zap.Int("id", id),
			zap.String("category", question.Category),
		)
		imported++
	}

	log.Info("Question import complete",
		zap.Int("imported", imported),
		zap.Int("skipped", len(docs)-imported),
	)
}
