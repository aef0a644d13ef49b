package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizvault/internal/domain"
	"quizvault/internal/repository/models"
	"quizvault/internal/util"

	"github.com/jmoiron/sqlx"
)

// Store implements domain.Store on the embedded SQLite database. Every
// operation acquires its own connection from the pool; multi-statement
// operations run inside a single transaction.
type Store struct {
	db *sqlx.DB
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a new Store instance.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// --- Converters between row models and domain objects ---

func toDomainUser(row *models.User) *domain.User {
	if row == nil {
		return nil
	}
	u := &domain.User{
		Username:  row.Username,
		Password:  row.Password,
		Name:      row.Name,
		Role:      row.Role,
		CreatedAt: domain.ParseTimestampLenient(row.CreatedAt),
	}
	if row.LastLogin.Valid && row.LastLogin.String != "" {
		if t, err := domain.ParseTimestamp(row.LastLogin.String); err == nil {
			u.LastLogin = &t
		}
	}
	return u
}

func fromDomainUser(u *domain.User) *models.User {
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

func toDomainQuestion(row *models.Question) domain.Question {
	q := domain.Question{
		ID:          row.ID,
		Question:    row.Question,
		Options:     row.Options,
		Answer:      row.Answer,
		Explanation: row.Explanation,
		Category:    row.Category,
		Difficulty:  row.Difficulty,
	}
	q.ApplyDefaults()
	return q
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:          q.ID,
		Question:    q.Question,
		Options:     models.StringSlice(q.Options),
		Answer:      q.Answer,
		Explanation: q.Explanation,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
	}
}

func toDomainScore(row *models.Score) domain.Score {
	return domain.Score{
		ID:         row.ID,
		Username:   row.Username,
		Score:      row.Score,
		MaxScore:   row.MaxScore,
		Percentage: row.Percentage,
		Passed:     row.Passed,
		Timestamp:  domain.ParseTimestampLenient(row.Timestamp),
		TimeTaken:  util.NullInt64ToIntPtr(row.TimeTaken),
		Categories: row.Categories,
	}
}

func fromDomainScore(sc *domain.Score) *models.Score {
	return &models.Score{
		ID:         sc.ID,
		Username:   sc.Username,
		Score:      sc.Score,
		MaxScore:   sc.MaxScore,
		Percentage: sc.Percentage,
		Passed:     sc.Passed,
		Timestamp:  domain.FormatTimestamp(sc.Timestamp),
		TimeTaken:  util.IntPtrToNullInt64(sc.TimeTaken),
		Categories: models.CategoryMap(sc.Categories),
	}
}

// --- Users ---

func (s *Store) GetAllUsers(ctx context.Context) (map[string]*domain.User, error) {
	var rows []models.User
	query := `SELECT username, password, name, role, created_at, last_login FROM users`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	users := make(map[string]*domain.User, len(rows))
	for i := range rows {
		users[rows[i].Username] = toDomainUser(&rows[i])
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var row models.User
	query := `SELECT username, password, name, role, created_at, last_login FROM users WHERE username = ?`
	if err := s.db.GetContext(ctx, &row, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return toDomainUser(&row), nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO users (username, password, name, role, created_at, last_login)
	          VALUES (:username, :password, :name, :role, :created_at, :last_login)
	          ON CONFLICT(username) DO UPDATE SET
	              password = excluded.password,
	              name = excluded.name,
	              role = excluded.role,
	              created_at = excluded.created_at,
	              last_login = excluded.last_login`
	if _, err := s.db.NamedExecContext(ctx, query, fromDomainUser(user)); err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}
	return nil
}

// DeleteUser removes the user and that user's scores in one
// transaction; the cascade is explicit rather than left to foreign key
// enforcement.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM users WHERE username = ?`, username)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewUserNotFoundError(username)
		}
		if err != nil {
			return fmt.Errorf("failed to check user %s: %w", username, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE username = ?`, username); err != nil {
			return fmt.Errorf("failed to delete scores for user %s: %w", username, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username); err != nil {
			return fmt.Errorf("failed to delete user %s: %w", username, err)
		}
		return nil
	})
}

func (s *Store) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE username = ?`,
		domain.FormatTimestamp(at), username)
	if err != nil {
		return fmt.Errorf("failed to update last login for %s: %w", username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.NewUserNotFoundError(username)
	}
	return nil
}

// --- Questions ---

func (s *Store) GetAllQuestions(ctx context.Context) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT id, question, options, answer, explanation, category, difficulty
	          FROM questions ORDER BY id`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	var row models.Question
	query := `SELECT id, question, options, answer, explanation, category, difficulty
	          FROM questions WHERE id = ?`
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}
	q := toDomainQuestion(&row)
	return &q, nil
}

// ReplaceQuestions swaps the whole question set in one transaction,
// used by bulk imports.
func (s *Store) ReplaceQuestions(ctx context.Context, questions []domain.Question) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}
		query := `INSERT INTO questions (id, question, options, answer, explanation, category, difficulty)
		          VALUES (:id, :question, :options, :answer, :explanation, :category, :difficulty)`
		for i := range questions {
			q := questions[i]
			q.ApplyDefaults()
			if _, err := tx.NamedExecContext(ctx, query, fromDomainQuestion(&q)); err != nil {
				return fmt.Errorf("failed to insert question %d: %w", q.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) InsertQuestion(ctx context.Context, question *domain.Question) (int, error) {
	question.ApplyDefaults()
	if err := question.Validate(); err != nil {
		return 0, err
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var nextID int
		if err := tx.GetContext(ctx, &nextID, `SELECT COALESCE(MAX(id), 0) + 1 FROM questions`); err != nil {
			return fmt.Errorf("failed to compute next question id: %w", err)
		}
		question.ID = nextID

		query := `INSERT INTO questions (id, question, options, answer, explanation, category, difficulty)
		          VALUES (:id, :question, :options, :answer, :explanation, :category, :difficulty)`
		if _, err := tx.NamedExecContext(ctx, query, fromDomainQuestion(question)); err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return question.ID, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	question.ApplyDefaults()
	if err := question.Validate(); err != nil {
		return err
	}

	query := `UPDATE questions SET question = :question, options = :options, answer = :answer,
	              explanation = :explanation, category = :category, difficulty = :difficulty
	          WHERE id = :id`
	res, err := s.db.NamedExecContext(ctx, query, fromDomainQuestion(question))
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", question.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.NewQuestionNotFoundError(question.ID)
	}
	return nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.NewQuestionNotFoundError(id)
	}
	return nil
}

// --- Scores ---

const selectScoreColumns = `id, username, score, max_score, percentage, passed, timestamp, time_taken, categories`

func (s *Store) GetAllScores(ctx context.Context) ([]domain.Score, error) {
	var rows []models.Score
	query := `SELECT ` + selectScoreColumns + ` FROM scores ORDER BY timestamp DESC, rowid ASC`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}
	scores := make([]domain.Score, 0, len(rows))
	for i := range rows {
		scores = append(scores, toDomainScore(&rows[i]))
	}
	return scores, nil
}

func (s *Store) GetUserScores(ctx context.Context, username string, limit int) ([]domain.Score, error) {
	query := `SELECT ` + selectScoreColumns + ` FROM scores WHERE username = ?
	          ORDER BY timestamp DESC, rowid ASC`
	args := []any{username}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []models.Score
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get scores for user %s: %w", username, err)
	}
	scores := make([]domain.Score, 0, len(rows))
	for i := range rows {
		scores = append(scores, toDomainScore(&rows[i]))
	}
	return scores, nil
}

func (s *Store) InsertScore(ctx context.Context, score *domain.Score) error {
	if err := score.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO scores (id, username, score, max_score, percentage, passed, timestamp, time_taken, categories)
	          VALUES (:id, :username, :score, :max_score, :percentage, :passed, :timestamp, :time_taken, :categories)`
	if _, err := s.db.NamedExecContext(ctx, query, fromDomainScore(score)); err != nil {
		return fmt.Errorf("failed to insert score %s: %w", score.ID, err)
	}
	return nil
}

func (s *Store) ClearAllScores(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores`); err != nil {
		return fmt.Errorf("failed to clear scores: %w", err)
	}
	return nil
}

func (s *Store) ClearUserScores(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to clear scores for user %s: %w", username, err)
	}
	return nil
}

// --- Settings ---

func (s *Store) GetAllSettings(ctx context.Context) (domain.Settings, error) {
	var rows []models.Setting
	if err := s.db.SelectContext(ctx, &rows, `SELECT key, value, updated_at FROM settings`); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	settings := make(domain.Settings, len(rows))
	for i := range rows {
		settings[rows[i].Key] = rows[i].Value.V
	}
	return settings, nil
}

// ReplaceSettings swaps the whole settings table in one transaction.
func (s *Store) ReplaceSettings(ctx context.Context, settings domain.Settings) error {
	now := domain.FormatTimestamp(time.Now())
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM settings`); err != nil {
			return fmt.Errorf("failed to clear settings: %w", err)
		}
		query := `INSERT INTO settings (key, value, updated_at) VALUES (:key, :value, :updated_at)`
		for key, value := range settings {
			row := models.Setting{
				Key:       key,
				Value:     models.JSONValue{V: value},
				UpdatedAt: util.StringToNullString(now),
			}
			if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
				return fmt.Errorf("failed to insert setting %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *Store) GetSetting(ctx context.Context, key string) (any, error) {
	var value models.JSONValue
	err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value.V, nil
}

func (s *Store) SetSetting(ctx context.Context, key string, value any) error {
	row := models.Setting{
		Key:       key,
		Value:     models.JSONValue{V: value},
		UpdatedAt: util.StringToNullString(domain.FormatTimestamp(time.Now())),
	}
	query := `INSERT INTO settings (key, value, updated_at) VALUES (:key, :value, :updated_at)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// --- Counts ---

func (s *Store) Counts(ctx context.Context) (domain.EntityCounts, error) {
	var row struct {
		Users     int `db:"users"`
		Questions int `db:"questions"`
		Scores    int `db:"scores"`
		Settings  int `db:"settings"`
	}
	query := `SELECT
	    (SELECT COUNT(*) FROM users) AS users,
	    (SELECT COUNT(*) FROM questions) AS questions,
	    (SELECT COUNT(*) FROM scores) AS scores,
	    (SELECT COUNT(*) FROM settings) AS settings`
	if err := s.db.GetContext(ctx, &row, query); err != nil {
		return domain.EntityCounts{}, fmt.Errorf("failed to count records: %w", err)
	}
	return domain.EntityCounts{
		Users:     row.Users,
		Questions: row.Questions,
		Scores:    row.Scores,
		Settings:  row.Settings,
	}, nil
}
