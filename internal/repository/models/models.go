package models

import (
	"database/sql"
)

// Row structs mirror the SQLite schema. Timestamps are stored as
// canonical "2006-01-02 15:04:05" strings so they compare and sort the
// same way in SQL and in Go.

// User represents a row of the users table.
type User struct {
	Username  string         `db:"username"`
	Password  string         `db:"password"`
	Name      string         `db:"name"`
	Role      string         `db:"role"`
	CreatedAt string         `db:"created_at"`
	LastLogin sql.NullString `db:"last_login"`
}

// Question represents a row of the questions table.
type Question struct {
	ID          int         `db:"id"`
	Question    string      `db:"question"`
	Options     StringSlice `db:"options"`
	Answer      int         `db:"answer"`
	Explanation string      `db:"explanation"`
	Category    string      `db:"category"`
	Difficulty  string      `db:"difficulty"`
}

// Score represents a row of the scores table.
type Score struct {
	ID         string        `db:"id"`
	Username   string        `db:"username"`
	Score      int           `db:"score"`
	MaxScore   int           `db:"max_score"`
	Percentage float64       `db:"percentage"`
	Passed     bool          `db:"passed"`
	Timestamp  string        `db:"timestamp"`
	TimeTaken  sql.NullInt64 `db:"time_taken"`
	Categories CategoryMap   `db:"categories"`
}

// Setting represents a row of the settings table.
type Setting struct {
	Key       string         `db:"key"`
	Value     JSONValue      `db:"value"`
	UpdatedAt sql.NullString `db:"updated_at"`
}
