package service

import (
	"fmt"

	"quizvault/internal/config"
	"quizvault/internal/database"
	"quizvault/internal/domain"
	"quizvault/internal/filestore"
	"quizvault/internal/logger"
	"quizvault/internal/repository"

	"go.uber.org/zap"
)

// NewStoreFromConfig resolves the storage backend exactly once, at
// startup. The choice is immutable for the process lifetime; nothing
// downstream re-reads the configuration.
func NewStoreFromConfig(cfg *config.Config) (domain.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return newSQLiteStore(cfg)

	case config.BackendJSON:
		logger.Get().Info("using json file storage backend",
			zap.String("data_dir", cfg.DataDir))
		return filestore.New(cfg.DataDir), nil

	case config.BackendAuto:
		store, err := newSQLiteStore(cfg)
		if err != nil {
			logger.Get().Warn("database unavailable, falling back to json files",
				zap.String("data_dir", cfg.DataDir),
				zap.Error(err))
			return filestore.New(cfg.DataDir), nil
		}
		return store, nil

	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown storage backend %q", cfg.Storage.Backend))
	}
}

func newSQLiteStore(cfg *config.Config) (domain.Store, error) {
	db, err := database.Connect(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Get().Info("using sqlite storage backend",
		zap.String("path", cfg.DatabasePath()))
	return repository.NewStore(db), nil
}
