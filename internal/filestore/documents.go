package filestore

import (
	"quizvault/internal/domain"
)

// Document types mirror the JSON layout on disk. They tolerate the
// field variations older deployments produced: missing classification
// fields, ISO timestamps, fractional time_taken values and absent score
// IDs. Converters normalize on the way in; writes always produce the
// canonical shape.

// UserDocument is one value of the username-keyed map in users.json.
type UserDocument struct {
	Password  string  `json:"password"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login"`
}

// ToDomain converts the document, supplying the map key as username.
// An unreadable created_at falls back to the current time; an
// unreadable last_login is dropped.
func (d UserDocument) ToDomain(username string) *domain.User {
	u := &domain.User{
		Username:  username,
		Password:  d.Password,
		Name:      d.Name,
		Role:      d.Role,
		CreatedAt: domain.ParseTimestampLenient(d.CreatedAt),
	}
	if u.Role == "" {
		u.Role = domain.RoleOperator
	}
	if d.LastLogin != nil && *d.LastLogin != "" {
		if t, err := domain.ParseTimestamp(*d.LastLogin); err == nil {
			u.LastLogin = &t
		}
	}
	return u
}

func UserDocumentFromDomain(u *domain.User) UserDocument {
	d := UserDocument{
		Password:  u.Password,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: domain.FormatTimestamp(u.CreatedAt),
	}
	if u.LastLogin != nil {
		s := domain.FormatTimestamp(*u.LastLogin)
		d.LastLogin = &s
	}
	return d
}

// QuestionDocument is one element of the questions.json array.
type QuestionDocument struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
	Category    string   `json:"category,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

func (d QuestionDocument) ToDomain() domain.Question {
	q := domain.Question{
		ID:          d.ID,
		Question:    d.Question,
		Options:     d.Options,
		Answer:      d.Answer,
		Explanation: d.Explanation,
		Category:    d.Category,
		Difficulty:  d.Difficulty,
	}
	q.ApplyDefaults()
	return q
}

func QuestionDocumentFromDomain(q domain.Question) QuestionDocument {
	return QuestionDocument{
		ID:          q.ID,
		Question:    q.Question,
		Options:     q.Options,
		Answer:      q.Answer,
		Explanation: q.Explanation,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
	}
}

// ScoreDocument is one element of the scores.json array. Timestamp
// stays a raw string here so migration can hash the original value
// when backfilling a missing ID.
type ScoreDocument struct {
	ID         string                           `json:"id,omitempty"`
	Username   string                           `json:"username"`
	Score      int                              `json:"score"`
	MaxScore   int                              `json:"max_score"`
	Percentage float64                          `json:"percentage"`
	Passed     bool                             `json:"passed"`
	Timestamp  string                           `json:"timestamp"`
	TimeTaken  *float64                         `json:"time_taken"`
	Categories map[string]domain.CategoryResult `json:"categories,omitempty"`
}

func (d ScoreDocument) ToDomain() domain.Score {
	s := domain.Score{
		ID:         d.ID,
		Username:   d.Username,
		Score:      d.Score,
		MaxScore:   d.MaxScore,
		Percentage: d.Percentage,
		Passed:     d.Passed,
		Timestamp:  domain.ParseTimestampLenient(d.Timestamp),
		Categories: d.Categories,
	}
	if d.TimeTaken != nil {
		// Older clients recorded fractional seconds; whole seconds
		// are kept, truncating toward zero.
		v := int(*d.TimeTaken)
		s.TimeTaken = &v
	}
	return s
}

func ScoreDocumentFromDomain(s domain.Score) ScoreDocument {
	d := ScoreDocument{
		ID:         s.ID,
		Username:   s.Username,
		Score:      s.Score,
		MaxScore:   s.MaxScore,
		Percentage: s.Percentage,
		Passed:     s.Passed,
		Timestamp:  domain.FormatTimestamp(s.Timestamp),
		Categories: s.Categories,
	}
	if s.TimeTaken != nil {
		v := float64(*s.TimeTaken)
		d.TimeTaken = &v
	}
	return d
}

