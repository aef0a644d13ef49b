package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quizvault/internal/domain"
	"quizvault/internal/filestore"
	"quizvault/internal/logger"
	"quizvault/internal/repository/models"
	"quizvault/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// backupDirFormat timestamps the pre-migration backup directory.
const backupDirFormat = "20060102150405"

// Options control a migration run.
type Options struct {
	// Force proceeds even when the destination already holds data.
	// Primary key collisions then roll the whole run back.
	Force bool
}

// Engine moves the JSON file records into the relational store. One
// Engine instance performs one run; every log line carries its run ID.
type Engine struct {
	paths filestore.Paths
	db    *sqlx.DB
	opts  Options
	runID string
	log   *zap.Logger
}

// New creates an Engine reading from the JSON layout under dataDir and
// writing to db. The schema must already be applied.
func New(dataDir string, db *sqlx.DB, opts Options) *Engine {
	runID := util.NewULID()
	return &Engine{
		paths: filestore.NewPaths(dataDir),
		db:    db,
		opts:  opts,
		runID: runID,
		log:   logger.Get().With(zap.String("run_id", runID)),
	}
}

// SourceFiles returns the JSON source files that actually exist, in
// entity order.
func (e *Engine) SourceFiles() []string {
	var present []string
	for _, path := range []string{e.paths.Users(), e.paths.Questions(), e.paths.Scores(), e.paths.Settings()} {
		if _, err := os.Stat(path); err == nil {
			present = append(present, path)
		}
	}
	return present
}

// BackupSources copies every present source file into a timestamped
// directory under backups/ and returns its path. With no sources
// present it returns "" and does nothing.
func (e *Engine) BackupSources() (string, error) {
	sources := e.SourceFiles()
	if len(sources) == 0 {
		return "", nil
	}

	dir := filepath.Join(e.paths.BackupDir(),
		fmt.Sprintf("migration_backup_%s", time.Now().Format(backupDirFormat)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("failed to read %s for backup: %w", src, err)
		}
		dst := filepath.Join(dir, filepath.Base(src))
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup %s: %w", dst, err)
		}
		e.log.Info("backed up source file",
			zap.String("source", src),
			zap.String("backup", dst))
	}
	return dir, nil
}

// Migrate runs the whole transfer inside a single transaction, in
// entity order users, questions, scores, settings. Any failure rolls
// back everything; the source files are never modified. Unless Force is
// set, a destination that already contains data refuses the run.
func (e *Engine) Migrate(ctx context.Context) (domain.EntityCounts, error) {
	var stats domain.EntityCounts

	if len(e.SourceFiles()) == 0 {
		return stats, domain.NewError(domain.ErrNotFound, "no JSON data files found, nothing to migrate", nil)
	}

	occupied, err := e.destinationCount(ctx)
	if err != nil {
		return stats, err
	}
	if occupied > 0 && !e.opts.Force {
		return stats, domain.NewError(domain.ErrDestinationNotEmpty,
			fmt.Sprintf("destination database already holds %d records; rerun with force to migrate anyway", occupied), nil)
	}

	users, err := e.loadUsers()
	if err != nil {
		return stats, err
	}
	questions, err := e.loadQuestions()
	if err != nil {
		return stats, err
	}
	scores, err := e.loadScores()
	if err != nil {
		return stats, err
	}
	settings, err := e.loadSettings()
	if err != nil {
		return stats, err
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, domain.NewMigrationError("failed to begin migration transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	stats, err = e.insertAll(ctx, tx, users, questions, scores, settings)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			e.log.Error("rollback failed", zap.Error(rollbackErr))
		}
		return domain.EntityCounts{}, domain.NewMigrationError("migration failed, all changes rolled back", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.EntityCounts{}, domain.NewMigrationError("failed to commit migration", err)
	}

	e.log.Info("migration complete",
		zap.Int("users", stats.Users),
		zap.Int("questions", stats.Questions),
		zap.Int("scores", stats.Scores),
		zap.Int("settings", stats.Settings),
	)
	return stats, nil
}

func (e *Engine) insertAll(ctx context.Context, tx *sqlx.Tx, users map[string]filestore.UserDocument, questions []filestore.QuestionDocument, scores []filestore.ScoreDocument, settings domain.Settings) (domain.EntityCounts, error) {
	var stats domain.EntityCounts

	userQuery := `INSERT INTO users (username, password, name, role, created_at, last_login)
	              VALUES (:username, :password, :name, :role, :created_at, :last_login)`
	for username, doc := range users {
		if _, err := tx.NamedExecContext(ctx, userQuery, userRow(username, doc)); err != nil {
			return stats, fmt.Errorf("user %s: %w", username, err)
		}
		stats.Users++
	}

	for _, doc := range questions {
		// A missing ID surfaces as 0; binding NULL lets the database
		// assign the next one.
		var id any
		if doc.ID != 0 {
			id = doc.ID
		}
		q := doc.ToDomain()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, question, options, answer, explanation, category, difficulty)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, q.Question, models.StringSlice(q.Options), q.Answer, q.Explanation, q.Category, q.Difficulty)
		if err != nil {
			return stats, fmt.Errorf("question %d: %w", doc.ID, err)
		}
		stats.Questions++
	}

	scoreQuery := `INSERT INTO scores (id, username, score, max_score, percentage, passed, timestamp, time_taken, categories)
	               VALUES (:id, :username, :score, :max_score, :percentage, :passed, :timestamp, :time_taken, :categories)`
	for _, doc := range scores {
		if _, err := tx.NamedExecContext(ctx, scoreQuery, scoreRow(doc)); err != nil {
			return stats, fmt.Errorf("score %s: %w", doc.ID, err)
		}
		stats.Scores++
	}

	now := domain.FormatTimestamp(time.Now())
	settingQuery := `INSERT INTO settings (key, value, updated_at) VALUES (:key, :value, :updated_at)`
	for key, value := range settings {
		row := models.Setting{
			Key:       key,
			Value:     models.JSONValue{V: value},
			UpdatedAt: util.StringToNullString(now),
		}
		if _, err := tx.NamedExecContext(ctx, settingQuery, row); err != nil {
			return stats, fmt.Errorf("setting %s: %w", key, err)
		}
		stats.Settings++
	}

	return stats, nil
}

// userRow converts a source document to a row, normalizing legacy
// values: an unreadable created_at becomes the current time, an
// unreadable last_login becomes NULL.
func userRow(username string, doc filestore.UserDocument) *models.User {
	u := doc.ToDomain(username)
	row := &models.User{
		Username:  u.Username,
		Password:  u.Password,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: domain.FormatTimestamp(u.CreatedAt),
	}
	if u.LastLogin != nil {
		row.LastLogin = util.StringToNullString(domain.FormatTimestamp(*u.LastLogin))
	}
	return row
}

// scoreRow converts a source document to a row. Records written before
// IDs existed get one backfilled from the username and the raw
// timestamp string, reproducing what the application would have
// generated.
func scoreRow(doc filestore.ScoreDocument) *models.Score {
	id := doc.ID
	if id == "" {
		id = util.ScoreIDFromRaw(doc.Username, doc.Timestamp)
	}
	s := doc.ToDomain()
	return &models.Score{
		ID:         id,
		Username:   s.Username,
		Score:      s.Score,
		MaxScore:   s.MaxScore,
		Percentage: s.Percentage,
		Passed:     s.Passed,
		Timestamp:  domain.FormatTimestamp(s.Timestamp),
		TimeTaken:  util.IntPtrToNullInt64(s.TimeTaken),
		Categories: models.CategoryMap(s.Categories),
	}
}

func (e *Engine) destinationCount(ctx context.Context) (int, error) {
	var total int
	query := `SELECT (SELECT COUNT(*) FROM users)
	               + (SELECT COUNT(*) FROM questions)
	               + (SELECT COUNT(*) FROM scores)
	               + (SELECT COUNT(*) FROM settings)`
	if err := e.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to inspect destination: %w", err)
	}
	return total, nil
}

// Source loaders mirror the file store's read behavior: a missing file
// contributes nothing, a corrupt file is quarantined and contributes
// nothing.

func (e *Engine) loadUsers() (map[string]filestore.UserDocument, error) {
	docs := map[string]filestore.UserDocument{}
	if err := filestore.ReadJSON(e.paths.Users(), e.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return map[string]filestore.UserDocument{}, nil
		}
		return nil, err
	}
	return docs, nil
}

func (e *Engine) loadQuestions() ([]filestore.QuestionDocument, error) {
	var docs []filestore.QuestionDocument
	if err := filestore.ReadJSON(e.paths.Questions(), e.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return nil, nil
		}
		return nil, err
	}
	return docs, nil
}

func (e *Engine) loadScores() ([]filestore.ScoreDocument, error) {
	var docs []filestore.ScoreDocument
	if err := filestore.ReadJSON(e.paths.Scores(), e.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return nil, nil
		}
		return nil, err
	}
	return docs, nil
}

func (e *Engine) loadSettings() (domain.Settings, error) {
	docs := domain.Settings{}
	if err := filestore.ReadJSON(e.paths.Settings(), e.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return domain.Settings{}, nil
		}
		return nil, err
	}
	return docs, nil
}
