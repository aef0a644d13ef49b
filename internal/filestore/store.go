package filestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"quizvault/internal/domain"
)

// Store implements domain.Store on top of the JSON file layout. A
// single mutex serializes the read-modify-write cycles; concurrent
// processes sharing one data directory are not supported.
type Store struct {
	paths Paths
	mu    sync.Mutex
}

var _ domain.Store = (*Store)(nil)

// New returns a Store rooted at dataDir. No files are created until
// the first write.
func New(dataDir string) *Store {
	return &Store{paths: NewPaths(dataDir)}
}

// Paths exposes the resolved file layout, used by the migration engine
// and the seeding command.
func (s *Store) Paths() Paths {
	return s.paths
}

// Close implements domain.Store; the file backend holds no resources.
func (s *Store) Close() error {
	return nil
}

// load helpers return the caller's default when the underlying file is
// missing or quarantined as corrupt.

func (s *Store) loadUsers() (map[string]UserDocument, error) {
	docs := map[string]UserDocument{}
	if err := ReadJSON(s.paths.Users(), s.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return map[string]UserDocument{}, nil
		}
		return nil, err
	}
	return docs, nil
}

func (s *Store) loadQuestions() ([]QuestionDocument, error) {
	var docs []QuestionDocument
	if err := ReadJSON(s.paths.Questions(), s.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return nil, nil
		}
		return nil, err
	}
	return docs, nil
}

func (s *Store) loadScores() ([]ScoreDocument, error) {
	var docs []ScoreDocument
	if err := ReadJSON(s.paths.Scores(), s.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return nil, nil
		}
		return nil, err
	}
	return docs, nil
}

func (s *Store) loadSettings() (domain.Settings, error) {
	docs := domain.Settings{}
	if err := ReadJSON(s.paths.Settings(), s.paths.BackupDir(), &docs); err != nil {
		if domain.HasCode(err, domain.ErrCorruptedFile) {
			return domain.Settings{}, nil
		}
		return nil, err
	}
	return docs, nil
}

// Users

func (s *Store) GetAllUsers(ctx context.Context) (map[string]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	users := make(map[string]*domain.User, len(docs))
	for username, doc := range docs {
		users[username] = doc.ToDomain(username)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	doc, ok := docs[username]
	if !ok {
		return nil, nil
	}
	return doc.ToDomain(username), nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadUsers()
	if err != nil {
		return err
	}
	docs[user.Username] = UserDocumentFromDomain(user)
	return WriteJSON(s.paths.Users(), s.paths.BackupDir(), docs)
}

// DeleteUser removes the user and that user's scores. The two files are
// replaced in sequence, scores first, so an interrupted delete never
// leaves scores without an owner.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadUsers()
	if err != nil {
		return err
	}
	if _, ok := docs[username]; !ok {
		return domain.NewUserNotFoundError(username)
	}

	scores, err := s.loadScores()
	if err != nil {
		return err
	}
	kept := scores[:0]
	for _, sc := range scores {
		if sc.Username != username {
			kept = append(kept, sc)
		}
	}
	if len(kept) != len(scores) {
		if err := WriteJSON(s.paths.Scores(), s.paths.BackupDir(), kept); err != nil {
			return err
		}
	}

	delete(docs, username)
	return WriteJSON(s.paths.Users(), s.paths.BackupDir(), docs)
}

func (s *Store) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadUsers()
	if err != nil {
		return err
	}
	doc, ok := docs[username]
	if !ok {
		return domain.NewUserNotFoundError(username)
	}
	formatted := domain.FormatTimestamp(at)
	doc.LastLogin = &formatted
	docs[username] = doc
	return WriteJSON(s.paths.Users(), s.paths.BackupDir(), docs)
}

// Questions

func (s *Store) GetAllQuestions(ctx context.Context) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadQuestions()
	if err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(docs))
	for _, doc := range docs {
		questions = append(questions, doc.ToDomain())
	}
	return questions, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadQuestions()
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.ID == id {
			q := doc.ToDomain()
			return &q, nil
		}
	}
	return nil, nil
}

func (s *Store) ReplaceQuestions(ctx context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]QuestionDocument, 0, len(questions))
	for _, q := range questions {
		docs = append(docs, QuestionDocumentFromDomain(q))
	}
	return WriteJSON(s.paths.Questions(), s.paths.BackupDir(), docs)
}

func (s *Store) InsertQuestion(ctx context.Context, question *domain.Question) (int, error) {
	question.ApplyDefaults()
	if err := question.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadQuestions()
	if err != nil {
		return 0, err
	}
	maxID := 0
	for _, doc := range docs {
		if doc.ID > maxID {
			maxID = doc.ID
		}
	}
	question.ID = maxID + 1
	docs = append(docs, QuestionDocumentFromDomain(*question))
	if err := WriteJSON(s.paths.Questions(), s.paths.BackupDir(), docs); err != nil {
		return 0, err
	}
	return question.ID, nil
}

func (s *Store) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	question.ApplyDefaults()
	if err := question.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadQuestions()
	if err != nil {
		return err
	}
	for i, doc := range docs {
		if doc.ID == question.ID {
			docs[i] = QuestionDocumentFromDomain(*question)
			return WriteJSON(s.paths.Questions(), s.paths.BackupDir(), docs)
		}
	}
	return domain.NewQuestionNotFoundError(question.ID)
}

func (s *Store) DeleteQuestion(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadQuestions()
	if err != nil {
		return err
	}
	kept := docs[:0]
	found := false
	for _, doc := range docs {
		if doc.ID == id {
			found = true
			continue
		}
		kept = append(kept, doc)
	}
	if !found {
		return domain.NewQuestionNotFoundError(id)
	}
	return WriteJSON(s.paths.Questions(), s.paths.BackupDir(), kept)
}

// Scores

func (s *Store) GetAllScores(ctx context.Context) ([]domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadScores()
	if err != nil {
		return nil, err
	}
	scores := make([]domain.Score, 0, len(docs))
	for _, doc := range docs {
		scores = append(scores, doc.ToDomain())
	}
	sortScoresNewestFirst(scores)
	return scores, nil
}

func (s *Store) GetUserScores(ctx context.Context, username string, limit int) ([]domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadScores()
	if err != nil {
		return nil, err
	}
	var scores []domain.Score
	for _, doc := range docs {
		if doc.Username == username {
			scores = append(scores, doc.ToDomain())
		}
	}
	sortScoresNewestFirst(scores)
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func (s *Store) InsertScore(ctx context.Context, score *domain.Score) error {
	if err := score.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadScores()
	if err != nil {
		return err
	}
	docs = append(docs, ScoreDocumentFromDomain(*score))
	return WriteJSON(s.paths.Scores(), s.paths.BackupDir(), docs)
}

func (s *Store) ClearAllScores(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return WriteJSON(s.paths.Scores(), s.paths.BackupDir(), []ScoreDocument{})
}

func (s *Store) ClearUserScores(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.loadScores()
	if err != nil {
		return err
	}
	kept := make([]ScoreDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.Username != username {
			kept = append(kept, doc)
		}
	}
	return WriteJSON(s.paths.Scores(), s.paths.BackupDir(), kept)
}

// Settings

func (s *Store) GetAllSettings(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadSettings()
}

func (s *Store) ReplaceSettings(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return WriteJSON(s.paths.Settings(), s.paths.BackupDir(), settings)
}

func (s *Store) GetSetting(ctx context.Context, key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}
	return settings[key], nil
}

func (s *Store) SetSetting(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.loadSettings()
	if err != nil {
		return err
	}
	settings[key] = value
	return WriteJSON(s.paths.Settings(), s.paths.BackupDir(), settings)
}

// Counts

func (s *Store) Counts(ctx context.Context) (domain.EntityCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts domain.EntityCounts
	users, err := s.loadUsers()
	if err != nil {
		return counts, err
	}
	questions, err := s.loadQuestions()
	if err != nil {
		return counts, err
	}
	scores, err := s.loadScores()
	if err != nil {
		return counts, err
	}
	settings, err := s.loadSettings()
	if err != nil {
		return counts, err
	}
	counts.Users = len(users)
	counts.Questions = len(questions)
	counts.Scores = len(scores)
	counts.Settings = len(settings)
	return counts, nil
}

// sortScoresNewestFirst orders scores by timestamp descending to match
// the relational backend's default ordering.
func sortScoresNewestFirst(scores []domain.Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Timestamp.After(scores[j].Timestamp)
	})
}
