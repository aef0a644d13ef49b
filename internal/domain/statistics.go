package domain

// Trend labels reported by score statistics.
const (
	TrendImproving     = "Improving"
	TrendDeclining     = "Declining"
	TrendStable        = "Stable"
	TrendNotEnoughData = "Not enough data"
	TrendNoData        = "No data"
)

// ScoreStatistics aggregates quiz attempts, either per user or across
// all users. PassRate is evaluated against the current passing
// threshold, not the passed flag frozen into each record.
type ScoreStatistics struct {
	TotalAttempts int
	AvgScore      float64
	PassRate      float64
	HighestScore  float64
	LowestScore   float64
	RecentTrend   string
}

// CategoryStatistics aggregates per-category answers across all scores
// that carry a category breakdown.
type CategoryStatistics struct {
	TotalQuestions int
	CorrectAnswers int
	Percentage     float64
}

// EntityCounts holds per-entity record counts, used to compare source
// and destination after a migration run.
type EntityCounts struct {
	Users     int
	Questions int
	Scores    int
	Settings  int
}

// Total sums all entity counts.
func (c EntityCounts) Total() int {
	return c.Users + c.Questions + c.Scores + c.Settings
}
