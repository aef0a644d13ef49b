package domain

import (
	"encoding/json"
	"time"
)

// Well-known settings keys.
const (
	SettingCompanyName            = "company_name"
	SettingPassingScore           = "passing_score"
	SettingCertificateValidity    = "certificate_validity_days"
	SettingEnableSelfRegistration = "enable_self_registration"
	SettingQuizTimeLimit          = "default_quiz_time_limit"
	SettingQuizQuestions          = "default_quiz_questions"
	SettingTrackCategories        = "track_categories"
	SettingRequireResetPassword   = "require_reset_password"
	SettingPasswordExpiryDays     = "password_expiry_days"
	SettingLastUpdated            = "last_updated"
)

// DefaultPassingScore applies whenever the stored settings omit the
// passing_score key or hold a non-numeric value.
const DefaultPassingScore = 80.0

// Settings is the application-wide configuration map. Values are the
// decoded JSON types: numbers arrive as float64, flags as bool.
type Settings map[string]any

// DefaultSettings returns the settings written into a fresh data
// directory.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		SettingCompanyName:            "Your Company",
		SettingPassingScore:           float64(80),
		SettingCertificateValidity:    float64(365),
		SettingEnableSelfRegistration: true,
		SettingQuizTimeLimit:          float64(0),
		SettingQuizQuestions:          float64(10),
		SettingTrackCategories:        true,
		SettingRequireResetPassword:   true,
		SettingPasswordExpiryDays:     float64(90),
		SettingLastUpdated:            FormatTimestamp(now),
	}
}

// PassingScore extracts the passing threshold, tolerating the numeric
// representations the two backends produce.
func (s Settings) PassingScore() float64 {
	return s.Number(SettingPassingScore, DefaultPassingScore)
}

// Number reads key as a float64, falling back to def when the key is
// missing or holds a non-numeric value.
func (s Settings) Number(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// Bool reads key as a bool, falling back to def when it is missing or
// not a bool.
func (s Settings) Bool(key string, def bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return def
}

// String reads key as a string, falling back to def.
func (s Settings) String(key, def string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return def
}
