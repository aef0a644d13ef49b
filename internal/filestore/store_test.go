package filestore

import (
	"context"
	"os"
	"testing"
	"time"

	"quizvault/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func testScore(id, username string, ts time.Time) *domain.Score {
	return &domain.Score{
		ID:         id,
		Username:   username,
		Score:      8,
		MaxScore:   10,
		Percentage: 80,
		Passed:     true,
		Timestamp:  ts,
	}
}

func TestStoreUserLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Absent user reads as nil with no error.
	u, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, u)

	user := domain.NewUser("alice", "digest", "Alice", domain.RoleAdmin)
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Nil(t, got.LastLogin)

	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.UpdateLastLogin(ctx, "alice", at))
	got, err = store.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, at, *got.LastLogin)

	all, err := store.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.DeleteUser(ctx, "alice"))
	u, err = store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, u)

	err = store.DeleteUser(ctx, "alice")
	assert.True(t, domain.HasCode(err, domain.ErrUserNotFound))
}

func TestStoreDeleteUserCascadesToScores(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveUser(ctx, domain.NewUser("alice", "d", "", "")))
	require.NoError(t, store.SaveUser(ctx, domain.NewUser("bob", "d", "", "")))
	require.NoError(t, store.InsertScore(ctx, testScore("s1", "alice", now)))
	require.NoError(t, store.InsertScore(ctx, testScore("s2", "bob", now)))
	require.NoError(t, store.InsertScore(ctx, testScore("s3", "alice", now)))

	require.NoError(t, store.DeleteUser(ctx, "alice"))

	scores, err := store.GetAllScores(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "bob", scores[0].Username)
}

func TestStoreInsertQuestionAssignsNextID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	q := func(text string) *domain.Question {
		return &domain.Question{Question: text, Options: []string{"a", "b"}, Answer: 1}
	}

	id, err := store.InsertQuestion(ctx, q("first"))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = store.InsertQuestion(ctx, q("second"))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	require.NoError(t, store.DeleteQuestion(ctx, 2))

	// IDs derive from the current maximum, so a freed high ID is reused.
	id, err = store.InsertQuestion(ctx, q("third"))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	got, err := store.GetQuestion(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "third", got.Question)
	assert.Equal(t, domain.DefaultCategory, got.Category)
	assert.Equal(t, domain.DefaultDifficulty, got.Difficulty)
}

func TestStoreReplaceQuestions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.InsertQuestion(ctx, &domain.Question{Question: "old", Options: []string{"x"}, Answer: 0})
	require.NoError(t, err)

	replacement := []domain.Question{
		{ID: 10, Question: "new", Options: []string{"a", "b"}, Answer: 0, Category: "Safety", Difficulty: "Basic"},
	}
	require.NoError(t, store.ReplaceQuestions(ctx, replacement))

	questions, err := store.GetAllQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 10, questions[0].ID)
	assert.Equal(t, "new", questions[0].Question)
}

func TestStoreUpdateQuestionMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateQuestion(context.Background(), &domain.Question{ID: 99, Question: "x", Options: []string{"a"}, Answer: 0})
	assert.True(t, domain.HasCode(err, domain.ErrQuestionNotFound))
}

func TestStoreUserScoresNewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of chronological order on purpose.
	require.NoError(t, store.InsertScore(ctx, testScore("mid", "alice", base.Add(1*time.Hour))))
	require.NoError(t, store.InsertScore(ctx, testScore("new", "alice", base.Add(2*time.Hour))))
	require.NoError(t, store.InsertScore(ctx, testScore("old", "alice", base)))
	require.NoError(t, store.InsertScore(ctx, testScore("other", "bob", base.Add(3*time.Hour))))

	scores, err := store.GetUserScores(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{scores[0].ID, scores[1].ID, scores[2].ID})

	limited, err := store.GetUserScores(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "new", limited[0].ID)
	assert.Equal(t, "mid", limited[1].ID)
}

func TestStoreClearScores(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.InsertScore(ctx, testScore("s1", "alice", now)))
	require.NoError(t, store.InsertScore(ctx, testScore("s2", "bob", now)))

	require.NoError(t, store.ClearUserScores(ctx, "alice"))
	scores, err := store.GetAllScores(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "bob", scores[0].Username)

	require.NoError(t, store.ClearAllScores(ctx))
	scores, err = store.GetAllScores(ctx)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestStoreSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	v, err := store.GetSetting(ctx, "passing_score")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, store.ReplaceSettings(ctx, domain.Settings{
		"passing_score": 80.0,
		"company_name":  "Acme",
	}))
	require.NoError(t, store.SetSetting(ctx, "passing_score", 90.0))

	settings, err := store.GetAllSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90.0, settings["passing_score"])
	assert.Equal(t, "Acme", settings["company_name"])
	assert.Equal(t, 90.0, settings.PassingScore())
}

func TestStoreCorruptScoresFileReadsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(store.Paths().Root, 0o755))
	require.NoError(t, os.WriteFile(store.Paths().Scores(), []byte("[{broken"), 0o644))

	scores, err := store.GetAllScores(ctx)
	require.NoError(t, err)
	assert.Empty(t, scores)

	entries, err := os.ReadDir(store.Paths().BackupDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.EntityCounts{}, counts)

	require.NoError(t, store.SaveUser(ctx, domain.NewUser("alice", "d", "", "")))
	_, err = store.InsertQuestion(ctx, &domain.Question{Question: "q", Options: []string{"a"}, Answer: 0})
	require.NoError(t, err)
	require.NoError(t, store.InsertScore(ctx, testScore("s1", "alice", time.Now())))
	require.NoError(t, store.ReplaceSettings(ctx, domain.Settings{"passing_score": 80.0, "company_name": "Acme"}))

	counts, err = store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.EntityCounts{Users: 1, Questions: 1, Scores: 1, Settings: 2}, counts)
	assert.Equal(t, 5, counts.Total())
}
