package domain

// Defaults applied to questions that omit classification fields.
const (
	DefaultCategory   = "General"
	DefaultDifficulty = "Intermediate"
)

// Question represents a multiple-choice question. Answer is the
// zero-based index into Options.
type Question struct {
	ID          int
	Question    string
	Options     []string
	Answer      int
	Explanation string
	Category    string
	Difficulty  string
}

// ApplyDefaults fills Category and Difficulty when they are empty.
func (q *Question) ApplyDefaults() {
	if q.Category == "" {
		q.Category = DefaultCategory
	}
	if q.Difficulty == "" {
		q.Difficulty = DefaultDifficulty
	}
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.Question == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) == 0 {
		return NewInvalidInputError("question requires at least one option")
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return NewInvalidInputError("answer index is out of range")
	}
	return nil
}
