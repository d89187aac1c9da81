package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kidplay/internal/models"
	"kidplay/internal/progression"
	"kidplay/internal/repository"
)

// memStore is an in-memory implementation of every store the services use.
// Emotion methods live on memEmotions because their names overlap with the
// result reader.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	children map[int64]*models.Child
	results  []models.GameResult
	unlocks  []models.AchievementUnlock
	emotions []models.EmotionRecord
	failures map[string]error

	// hideUnlocks makes Exists always report false so callers race on InsertUnique
	hideUnlocks bool
}

func newMemStore() *memStore {
	return &memStore{
		children: make(map[int64]*models.Child),
		failures: make(map[string]error),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

func (m *memStore) fail(op string) error {
	return m.failures[op]
}

func (m *memStore) addChild(totalPoints int) *models.Child {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.Child{
		ID:          m.id(),
		ParentID:    1,
		Name:        "Alikhan",
		Age:         6,
		Language:    models.LanguageKazakh,
		Avatar:      models.DefaultAvatar,
		TotalPoints: totalPoints,
		Level:       progression.LevelForPoints(totalPoints),
	}
	m.children[c.ID] = c
	return c
}

// seedResults appends n results directly, bypassing progression
func (m *memStore) seedResults(childID int64, n int, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		m.results = append(m.results, models.GameResult{
			ID:             m.id(),
			Ref:            fmt.Sprintf("seed-%d-%d", childID, i),
			ChildID:        childID,
			GameKey:        models.GameMemoryMatch,
			Score:          5,
			MaxScore:       10,
			Difficulty:     models.DifficultyEasy,
			CorrectAnswers: 5,
			TotalQuestions: 10,
			CompletedAt:    at,
		})
	}
}

func (m *memStore) child(id int64) models.Child {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.children[id]
}

func (m *memStore) unlockCount(childID int64, key models.AchievementKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.unlocks {
		if u.ChildID == childID && u.Key == key {
			n++
		}
	}
	return n
}

func (m *memStore) resultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func (m *memStore) GetChild(ctx context.Context, id int64) (*models.Child, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetChild"); err != nil {
		return nil, err
	}
	c, ok := m.children[id]
	if !ok {
		return nil, fmt.Errorf("child %d: %w", id, repository.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) AddPoints(ctx context.Context, id int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AddPoints"); err != nil {
		return err
	}
	c, ok := m.children[id]
	if !ok {
		return fmt.Errorf("child %d: %w", id, repository.ErrNotFound)
	}
	c.TotalPoints += delta
	c.Level = progression.LevelForPoints(c.TotalPoints)
	return nil
}

func (m *memStore) Append(ctx context.Context, r *models.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Append"); err != nil {
		return err
	}
	for _, existing := range m.results {
		if existing.Ref == r.Ref {
			return fmt.Errorf("result %s: %w", r.Ref, repository.ErrDuplicateRef)
		}
	}
	r.ID = m.id()
	m.results = append(m.results, *r)
	return nil
}

func (m *memStore) CountCompleted(ctx context.Context, childID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CountCompleted"); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range m.results {
		if r.ChildID == childID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Exists(ctx context.Context, childID int64, key models.AchievementKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Exists"); err != nil {
		return false, err
	}
	if m.hideUnlocks {
		return false, nil
	}
	for _, u := range m.unlocks {
		if u.ChildID == childID && u.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertUnique(ctx context.Context, unlock *models.AchievementUnlock) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertUnique"); err != nil {
		return false, err
	}
	for _, u := range m.unlocks {
		if u.ChildID == unlock.ChildID && u.Key == unlock.Key {
			return false, nil
		}
	}
	unlock.ID = m.id()
	m.unlocks = append(m.unlocks, *unlock)
	return true, nil
}

func (m *memStore) List(ctx context.Context, childID int64, gameKey models.GameKey, limit, offset int) (*models.ResultPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.GameResult
	for _, r := range m.results {
		if r.ChildID == childID && (gameKey == "" || r.GameKey == gameKey) {
			matched = append(matched, r)
		}
	}
	// completed_at DESC, id DESC
	sort.Slice(matched, func(i, j int) bool { return resultBefore(matched[j], matched[i]) })

	page := &models.ResultPage{Total: len(matched), Limit: limit, Offset: offset}
	if offset < len(matched) {
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Results = matched[offset:end]
	}
	return page, nil
}

func (m *memStore) ListSince(ctx context.Context, childID int64, since time.Time) ([]models.GameResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListResults"); err != nil {
		return nil, err
	}
	var out []models.GameResult
	for _, r := range m.results {
		if r.ChildID == childID && !r.CompletedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return resultBefore(out[i], out[j]) })
	return out, nil
}

func resultBefore(a, b models.GameResult) bool {
	if !a.CompletedAt.Equal(b.CompletedAt) {
		return a.CompletedAt.Before(b.CompletedAt)
	}
	return a.ID < b.ID
}

func (m *memStore) FindByRef(ctx context.Context, ref string) (*models.GameResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.Ref == ref {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("result %s: %w", ref, repository.ErrNotFound)
}

func (m *memStore) ListByChild(ctx context.Context, childID int64) ([]models.AchievementUnlock, error) {
	return m.Recent(ctx, childID, -1)
}

func (m *memStore) Recent(ctx context.Context, childID int64, limit int) ([]models.AchievementUnlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AchievementUnlock
	for _, u := range m.unlocks {
		if u.ChildID == childID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UnlockedAt.Equal(out[j].UnlockedAt) {
			return out[i].UnlockedAt.After(out[j].UnlockedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memEmotions struct{ *memStore }

func (m memEmotions) Create(ctx context.Context, rec *models.EmotionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateEmotion"); err != nil {
		return err
	}
	rec.ID = m.id()
	m.emotions = append(m.emotions, *rec)
	return nil
}

func (m memEmotions) ListSince(ctx context.Context, childID int64, since time.Time) ([]models.EmotionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EmotionRecord
	for _, e := range m.emotions {
		if e.ChildID == childID && !e.RecordedAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return emotionBefore(out[i], out[j]) })
	return out, nil
}

func emotionBefore(a, b models.EmotionRecord) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.Before(b.RecordedAt)
	}
	return a.ID < b.ID
}

func (m memEmotions) List(ctx context.Context, childID int64, since time.Time, limit, offset int) ([]models.EmotionRecord, error) {
	all, _ := m.ListSince(ctx, childID, since)
	var out []models.EmotionRecord
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
