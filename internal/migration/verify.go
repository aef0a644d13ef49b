package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EntityComparison pairs the record count in a JSON source with the
// count in the destination table.
type EntityComparison struct {
	Source      int
	Destination int
}

// Match reports whether both sides hold the same number of records.
func (c EntityComparison) Match() bool { return c.Source == c.Destination }

// VerificationResult holds the per-entity comparison of a finished run.
type VerificationResult struct {
	Users     EntityComparison
	Questions EntityComparison
	Scores    EntityComparison
	Settings  EntityComparison
}

// Success reports whether every entity count matches.
func (r *VerificationResult) Success() bool {
	return r.Users.Match() && r.Questions.Match() && r.Scores.Match() && r.Settings.Match()
}

// Verify recounts both sides and compares them entity by entity. It
// reads the same sources Migrate read, so a source that was quarantined
// as corrupt counts as zero on both sides.
func (e *Engine) Verify(ctx context.Context) (*VerificationResult, error) {
	users, err := e.loadUsers()
	if err != nil {
		return nil, err
	}
	questions, err := e.loadQuestions()
	if err != nil {
		return nil, err
	}
	scores, err := e.loadScores()
	if err != nil {
		return nil, err
	}
	settings, err := e.loadSettings()
	if err != nil {
		return nil, err
	}

	var dest struct {
		Users     int `db:"users"`
		Questions int `db:"questions"`
		Scores    int `db:"scores"`
		Settings  int `db:"settings"`
	}
	query := `SELECT (SELECT COUNT(*) FROM users)     AS users,
	                 (SELECT COUNT(*) FROM questions) AS questions,
	                 (SELECT COUNT(*) FROM scores)    AS scores,
	                 (SELECT COUNT(*) FROM settings)  AS settings`
	if err := e.db.GetContext(ctx, &dest, query); err != nil {
		return nil, fmt.Errorf("failed to count destination records: %w", err)
	}

	result := &VerificationResult{
		Users:     EntityComparison{Source: len(users), Destination: dest.Users},
		Questions: EntityComparison{Source: len(questions), Destination: dest.Questions},
		Scores:    EntityComparison{Source: len(scores), Destination: dest.Scores},
		Settings:  EntityComparison{Source: len(settings), Destination: dest.Settings},
	}

	if result.Success() {
		e.log.Info("verification passed",
			zap.Int("users", dest.Users),
			zap.Int("questions", dest.Questions),
			zap.Int("scores", dest.Scores),
			zap.Int("settings", dest.Settings),
		)
	} else {
		e.log.Warn("verification found mismatched counts",
			zap.Int("source_users", result.Users.Source), zap.Int("dest_users", dest.Users),
			zap.Int("source_questions", result.Questions.Source), zap.Int("dest_questions", dest.Questions),
			zap.Int("source_scores", result.Scores.Source), zap.Int("dest_scores", dest.Scores),
			zap.Int("source_settings", result.Settings.Source), zap.Int("dest_settings", dest.Settings),
		)
	}
	return result, nil
}
