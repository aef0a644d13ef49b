package domain

import (
	"context"
	"time"
)

// Store is the persistence contract shared by the JSON file backend and
// the SQLite backend. Both implementations must be observationally
// equivalent: a caller switching backends sees the same results for the
// same call sequence.
//
// Lookups for absent records return (nil, nil); errors are reserved for
// storage faults. Writes that target a missing record return a
// DomainError with a not-found code.
type Store interface {
	// Users
	GetAllUsers(ctx context.Context) (map[string]*User, error)
	GetUser(ctx context.Context, username string) (*User, error)
	SaveUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, username string) error
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error

	// Questions
	GetAllQuestions(ctx context.Context) ([]Question, error)
	GetQuestion(ctx context.Context, id int) (*Question, error)
	ReplaceQuestions(ctx context.Context, questions []Question) error
	InsertQuestion(ctx context.Context, question *Question) (int, error)
	UpdateQuestion(ctx context.Context, question *Question) error
	DeleteQuestion(ctx context.Context, id int) error

	// Scores, newest first wherever ordering is observable
	GetAllScores(ctx context.Context) ([]Score, error)
	GetUserScores(ctx context.Context, username string, limit int) ([]Score, error)
	InsertScore(ctx context.Context, score *Score) error
	ClearAllScores(ctx context.Context) error
	ClearUserScores(ctx context.Context, username string) error

	// Settings
	GetAllSettings(ctx context.Context) (Settings, error)
	ReplaceSettings(ctx context.Context, settings Settings) error
	GetSetting(ctx context.Context, key string) (any, error)
	SetSetting(ctx context.Context, key string, value any) error

	// Counts supports migration verification and the non-empty
	// destination guard.
	Counts(ctx context.Context) (EntityCounts, error)

	Close() error
}
