package service

import (
	"context"
	"fmt"
	"time"

	"quizvault/internal/domain"
	"quizvault/internal/filestore"
	"quizvault/internal/logger"
	"quizvault/internal/util"

	"go.uber.org/zap"
)

// CertificateResult reports a certificate lookup.
type CertificateResult struct {
	Valid    bool
	Username string
	Score    float64
	Date     string
	Passed   bool
}

// DataManager is the application-facing data access surface. It embeds
// the raw store operations and layers the computed ones on top, so
// score records and statistics come out identical no matter which
// backend is active.
type DataManager interface {
	domain.Store

	// SaveQuizScore derives percentage, pass/fail and the record ID
	// from the raw result and persists it.
	SaveQuizScore(ctx context.Context, username string, score, maxScore int, categories map[string]domain.CategoryResult, timeTaken *int) (*domain.Score, error)

	// GetScoreStatistics aggregates attempts for one user, or for all
	// users when username is empty.
	GetScoreStatistics(ctx context.Context, username string) (*domain.ScoreStatistics, error)

	// GetCategoryStatistics aggregates per-category answers across all
	// scores that carry a breakdown.
	GetCategoryStatistics(ctx context.Context) (map[string]*domain.CategoryStatistics, error)

	// SaveSettings replaces the application settings, stamping the
	// last_updated key.
	SaveSettings(ctx context.Context, settings domain.Settings) error

	// LoadUserSettings and SaveUserSettings manage the per-user
	// preference blobs, which stay file-backed on every backend.
	LoadUserSettings(ctx context.Context, username string) (domain.Settings, error)
	SaveUserSettings(ctx context.Context, username string, settings domain.Settings) error

	// RegisterUser creates a user with a hashed password, rejecting
	// duplicate usernames.
	RegisterUser(ctx context.Context, username, password, name, role string) (*domain.User, error)

	// Authenticate checks credentials and touches last_login. A failed
	// login returns (nil, nil).
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// VerifyCertificate resolves a certificate or attempt ID to the
	// underlying score. An unknown ID returns (nil, nil).
	VerifyCertificate(ctx context.Context, certificateID string) (*CertificateResult, error)

	// EnsureDefaults seeds the admin account, sample questions and
	// default settings into an empty store.
	EnsureDefaults(ctx context.Context) error
}

type dataManager struct {
	domain.Store
	paths filestore.Paths
}

// NewDataManager creates a new DataManager instance on top of the
// resolved store. dataDir locates the per-user preference blobs.
func NewDataManager(store domain.Store, dataDir string) DataManager {
	return &dataManager{
		Store: store,
		paths: filestore.NewPaths(dataDir),
	}
}

func (m *dataManager) SaveQuizScore(ctx context.Context, username string, score, maxScore int, categories map[string]domain.CategoryResult, timeTaken *int) (*domain.Score, error) {
	if username == "" {
		return nil, domain.NewInvalidInputError("username is required")
	}

	settings, err := m.GetAllSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	now := time.Now()
	percentage := domain.Percentage(score, maxScore)
	record := &domain.Score{
		ID:         util.NewScoreID(username, now),
		Username:   username,
		Score:      score,
		MaxScore:   maxScore,
		Percentage: percentage,
		Passed:     percentage >= settings.PassingScore(),
		Timestamp:  now,
		TimeTaken:  timeTaken,
		Categories: categories,
	}

	if err := m.InsertScore(ctx, record); err != nil {
		return nil, err
	}

	logger.Get().Info("saved quiz score",
		zap.String("username", username),
		zap.String("id", record.ID),
		zap.Float64("percentage", percentage),
		zap.Bool("passed", record.Passed),
	)
	return record, nil
}

func (m *dataManager) GetScoreStatistics(ctx context.Context, username string) (*domain.ScoreStatistics, error) {
	var (
		scores []domain.Score
		err    error
	)
	if username != "" {
		scores, err = m.GetUserScores(ctx, username, 0)
	} else {
		scores, err = m.GetAllScores(ctx)
	}
	if err != nil {
		return nil, err
	}

	if len(scores) == 0 {
		return &domain.ScoreStatistics{RecentTrend: domain.TrendNoData}, nil
	}

	stats := &domain.ScoreStatistics{
		TotalAttempts: len(scores),
		HighestScore:  scores[0].Percentage,
		LowestScore:   scores[0].Percentage,
	}

	settings, err := m.GetAllSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	// Pass rate uses the current threshold; the frozen passed flags on
	// the records are deliberately ignored here.
	passingScore := settings.PassingScore()

	var sum float64
	passed := 0
	for _, s := range scores {
		sum += s.Percentage
		if s.Percentage >= passingScore {
			passed++
		}
		if s.Percentage > stats.HighestScore {
			stats.HighestScore = s.Percentage
		}
		if s.Percentage < stats.LowestScore {
			stats.LowestScore = s.Percentage
		}
	}
	stats.AvgScore = sum / float64(len(scores))
	stats.PassRate = float64(passed) / float64(len(scores)) * 100

	// Scores arrive newest first, so the trend window is a prefix.
	window := scores
	if len(window) > 5 {
		window = window[:5]
	}
	switch {
	case len(window) < 2:
		stats.RecentTrend = domain.TrendNotEnoughData
	case window[0].Percentage > window[len(window)-1].Percentage:
		stats.RecentTrend = domain.TrendImproving
	case window[0].Percentage < window[len(window)-1].Percentage:
		stats.RecentTrend = domain.TrendDeclining
	default:
		stats.RecentTrend = domain.TrendStable
	}

	return stats, nil
}

func (m *dataManager) GetCategoryStatistics(ctx context.Context) (map[string]*domain.CategoryStatistics, error) {
	scores, err := m.GetAllScores(ctx)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]*domain.CategoryStatistics)
	for _, s := range scores {
		for name, result := range s.Categories {
			stats, ok := categories[name]
			if !ok {
				stats = &domain.CategoryStatistics{}
				categories[name] = stats
			}
			stats.TotalQuestions += result.Total
			stats.CorrectAnswers += result.Correct
		}
	}
	for _, stats := range categories {
		if stats.TotalQuestions > 0 {
			stats.Percentage = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
		}
	}
	return categories, nil
}

// SaveSettings replaces the stored settings with a stamped copy; the
// caller's map is not modified.
func (m *dataManager) SaveSettings(ctx context.Context, settings domain.Settings) error {
	stamped := make(domain.Settings, len(settings)+1)
	for k, v := range settings {
		stamped[k] = v
	}
	stamped[domain.SettingLastUpdated] = domain.FormatTimestamp(time.Now())
	return m.ReplaceSettings(ctx, stamped)
}

func (m *dataManager) LoadUserSettings(ctx context.Context, username string) (domain.Settings, error) {
	settings := domain.Settings{}
	if err := filestore.ReadJSON(m.paths.UserSettings(username), m.paths.BackupDir(), &settings); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return domain.Settings{}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (m *dataManager) SaveUserSettings(ctx context.Context, username string, settings domain.Settings) error {
	if username == "" {
		return domain.NewInvalidInputError("username is required")
	}
	return filestore.WriteJSON(m.paths.UserSettings(username), m.paths.BackupDir(), settings)
}

func (m *dataManager) RegisterUser(ctx context.Context, username, password, name, role string) (*domain.User, error) {
	if username == "" {
		return nil, domain.NewInvalidInputError("username is required")
	}
	if password == "" {
		return nil, domain.NewInvalidInputError("password is required")
	}

	existing, err := m.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username %s: %w", username, err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateUserError(username)
	}

	user := domain.NewUser(username, util.HashPassword(password), name, role)
	if err := m.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Get().Info("registered user",
		zap.String("username", username),
		zap.String("role", user.Role),
	)
	return user, nil
}

func (m *dataManager) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := m.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != util.HashPassword(password) {
		return nil, nil
	}

	now := time.Now()
	if err := m.UpdateLastLogin(ctx, username, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return user, nil
}

func (m *dataManager) VerifyCertificate(ctx context.Context, certificateID string) (*CertificateResult, error) {
	scores, err := m.GetAllScores(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range scores {
		// Certificates carry either the attempt ID or the printed
		// certificate ID, which is derived rather than stored.
		derived := util.NewCertificateID(s.Username, s.Percentage, domain.FormatTimestamp(s.Timestamp))
		if s.ID == certificateID || derived == certificateID {
			return &CertificateResult{
				Valid:    true,
				Username: s.Username,
				Score:    s.Percentage,
				Date:     domain.FormatTimestamp(s.Timestamp),
				Passed:   s.Passed,
			}, nil
		}
	}
	return nil, nil
}
