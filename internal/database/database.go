package database

import (
	"fmt"
	"os"
	"path/filepath"

	"quizvault/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver, registers as "sqlite"
)

// Connect opens (and creates if necessary) the embedded SQLite database
// at path. The connection pool is capped at a single connection; the
// application is single-process and this sidesteps writer lock
// contention entirely.
func Connect(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// sqlx does not know the modernc driver name out of the box.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	logger.Get().Info("connected to sqlite database", zap.String("path", path))
	return db, nil
}
