package service

import (
	"context"
	"time"

	"quizvault/internal/domain"
	"quizvault/internal/logger"
	"quizvault/internal/util"

	"go.uber.org/zap"
)

// Default administrator credentials created in an empty store. The
// password must be changed on first login; require_reset_password in
// the default settings enforces that.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "Admin User"
)

// defaultQuestions returns the starter question set for a fresh
// installation.
func defaultQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       1,
			Question: "What should you do before operating powered equipment?",
			Options: []string{
				"Check fuel only",
				"Complete the pre-shift inspection",
				"Test the horn",
				"Start working immediately",
			},
			Answer:      1,
			Explanation: "A full pre-shift inspection is required before any equipment is put into service.",
			Category:    "Safety",
			Difficulty:  "Basic",
		},
		{
			ID:       2,
			Question: "How should you approach a blind intersection on the shop floor?",
			Options: []string{
				"Speed up to get through quickly",
				"Sound the horn and proceed without slowing",
				"Slow down, sound the horn, and look both ways",
				"Always come to a complete stop",
			},
			Answer:      2,
			Explanation: "Slowing down, sounding the horn, and looking both ways warns pedestrians and keeps the intersection visible.",
			Category:    "Operation",
			Difficulty:  "Intermediate",
		},
		{
			ID:       3,
			Question: "When parking equipment at the end of a shift, you should:",
			Options: []string{
				"Leave the forks raised for the next shift",
				"Park anywhere convenient",
				"Lower the forks, set the brake, and shut off the engine",
				"Leave the key in the ignition for the next operator",
			},
			Answer:      2,
			Explanation: "Lowering the forks, setting the brake, and shutting off the engine are the required parking steps.",
			Category:    "Safety",
			Difficulty:  "Basic",
		},
	}
}

// EnsureDefaults seeds an empty store. Each entity is checked
// independently, so a store that already holds users but no questions
// only receives questions. Safe to run repeatedly.
func (m *dataManager) EnsureDefaults(ctx context.Context) error {
	log := logger.Get()

	users, err := m.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		admin := domain.NewUser(defaultAdminUsername, util.HashPassword(defaultAdminPassword), defaultAdminName, domain.RoleAdmin)
		if err := m.SaveUser(ctx, admin); err != nil {
			return err
		}
		log.Info("seeded default admin user", zap.String("username", defaultAdminUsername))
	}

	questions, err := m.GetAllQuestions(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		if err := m.ReplaceQuestions(ctx, defaultQuestions()); err != nil {
			return err
		}
		log.Info("seeded default questions", zap.Int("count", len(defaultQuestions())))
	}

	settings, err := m.GetAllSettings(ctx)
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		if err := m.ReplaceSettings(ctx, domain.DefaultSettings(time.Now())); err != nil {
			return err
		}
		log.Info("seeded default settings")
	}

	return nil
}
