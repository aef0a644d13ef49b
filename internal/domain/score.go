package domain

import (
	"time"
)

// CategoryResult is the per-category slice of a quiz attempt. The json
// tags fix the wire shape shared by the file documents and the
// serialized database column.
type CategoryResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Score represents one completed quiz attempt. Percentage and Passed
// are computed once at save time and stored as-is; later changes to the
// passing threshold never rewrite them.
type Score struct {
	ID         string
	Username   string
	Score      int
	MaxScore   int
	Percentage float64
	Passed     bool
	Timestamp  time.Time
	TimeTaken  *int
	Categories map[string]CategoryResult
}

// Percentage converts a raw score into a percentage. A non-positive
// maximum yields 0 rather than a division error.
func Percentage(score, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	return float64(score) / float64(maxScore) * 100
}

// Validate validates the score
func (s *Score) Validate() error {
	if s.ID == "" {
		return NewInvalidInputError("score id is required")
	}
	if s.Username == "" {
		return NewInvalidInputError("username is required")
	}
	if s.MaxScore < 0 || s.Score < 0 {
		return NewInvalidInputError("score values must not be negative")
	}
	return nil
}
