package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidplay/internal/logger"
	"kidplay/internal/models"
	"kidplay/internal/progression"
)

var analyticsNow = time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

func newAnalytics(store *memStore) *AnalyticsService {
	s := NewAnalyticsService(store, store, store, memEmotions{store}, progression.NewCatalog(), logger.Nop(), 30)
	s.now = func() time.Time { return analyticsNow }
	return s
}

func addResult(store *memStore, childID int64, key models.GameKey, score, max, correct, questions, duration int, at time.Time) {
	r := &models.GameResult{
		Ref:             at.String() + string(key),
		ChildID:         childID,
		GameKey:         key,
		Score:           score,
		MaxScore:        max,
		Difficulty:      models.DifficultyEasy,
		CorrectAnswers:  correct,
		TotalQuestions:  questions,
		DurationSeconds: duration,
		CompletedAt:     at,
	}
	_ = store.Append(context.Background(), r)
}

func addEmotion(store *memStore, childID int64, e models.Emotion, intensity int, at time.Time) {
	_ = memEmotions{store}.Create(context.Background(), &models.EmotionRecord{
		ChildID:    childID,
		Emotion:    e,
		Intensity:  intensity,
		RecordedAt: at,
	})
}

func TestAnalyticsSummary(t *testing.T) {
	store := newMemStore()
	child := store.addChild(250)

	day1 := analyticsNow.AddDate(0, 0, -2)
	day2 := analyticsNow.AddDate(0, 0, -1)
	addResult(store, child.ID, models.GameMemoryMatch, 8, 10, 8, 10, 60, day1)
	addResult(store, child.ID, models.GameMemoryMatch, 5, 10, 4, 10, 90, day1.Add(time.Hour))
	addResult(store, child.ID, models.GameMathAdventure, 3, 4, 3, 4, 30, day2)
	// Outside the window
	addResult(store, child.ID, models.GameMathAdventure, 1, 4, 1, 4, 30, analyticsNow.AddDate(0, 0, -40))

	addEmotion(store, child.ID, models.EmotionHappy, 80, day1)
	addEmotion(store, child.ID, models.EmotionHappy, 61, day2)
	addEmotion(store, child.ID, models.EmotionSad, 40, day2)

	for i, key := range models.AchievementKeys[:6] {
		_, err := store.InsertUnique(context.Background(), &models.AchievementUnlock{
			ChildID:       child.ID,
			Key:           key,
			PointsAwarded: 10,
			UnlockedAt:    day1.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	summary, err := newAnalytics(store).Summary(context.Background(), child.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, 30, summary.PeriodDays)
	assert.Equal(t, analyticsNow.AddDate(0, 0, -30), summary.Since)

	o := summary.Overview
	assert.Equal(t, 3, o.TotalGamesPlayed)
	assert.Equal(t, 180, o.TotalTimePlayed)
	// mean of 0.8, 0.4, 0.75
	assert.Equal(t, 65, o.OverallAccuracy)
	assert.Equal(t, 2, o.CurrentLevel)
	assert.Equal(t, 250, o.TotalPoints)
	assert.Equal(t, 50, o.PointsToNextLevel)
	assert.False(t, o.MaxLevel)

	require.Len(t, summary.GameStats, 2)
	math := summary.GameStats[0]
	assert.Equal(t, models.GameMathAdventure, math.GameKey)
	assert.Equal(t, 75, math.AverageScore)
	memory := summary.GameStats[1]
	assert.Equal(t, models.GameMemoryMatch, memory.GameKey)
	assert.Equal(t, 2, memory.TotalGames)
	assert.Equal(t, 65, memory.AverageScore)
	assert.Equal(t, 60, memory.AverageAccuracy)
	assert.Equal(t, 150, memory.TotalTime)
	assert.Equal(t, 8, memory.BestScore)

	require.Len(t, summary.EmotionStats, 2)
	assert.Equal(t, models.EmotionStat{Emotion: models.EmotionHappy, Count: 2, AverageIntensity: 71}, summary.EmotionStats[0])

	assert.Equal(t, []models.DailyActivity{
		{Date: day1.Format("2006-01-02"), GamesPlayed: 2, TotalTime: 150},
		{Date: day2.Format("2006-01-02"), GamesPlayed: 1, TotalTime: 30},
	}, summary.DailyActivity)

	require.Len(t, summary.RecentAchievements, 5)
	assert.Equal(t, models.AchievementQuickLearner, summary.RecentAchievements[0].Key)
	assert.Equal(t, "Quick Learner", summary.RecentAchievements[0].Name)
}

func TestAnalyticsSummaryUnknownChild(t *testing.T) {
	_, err := newAnalytics(newMemStore()).Summary(context.Background(), 7, 30)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyticsSummaryLoadFailure(t *testing.T) {
	store := newMemStore()
	child := store.addChild(0)
	store.failOn("ListResults", errors.New("timeout"))

	_, err := newAnalytics(store).Summary(context.Background(), child.ID, 30)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestRecommendations(t *testing.T) {
	recent := analyticsNow.AddDate(0, 0, -3)

	tests := []struct {
		name  string
		level int
		setup func(store *memStore, childID int64)
		want  []string
	}{
		{
			name:  "no games",
			level: 1,
			setup: func(store *memStore, childID int64) {},
			want:  []string{"start-playing"},
		},
		{
			name:  "struggling with one game",
			level: 1,
			setup: func(store *memStore, childID int64) {
				for i := 0; i < 3; i++ {
					addResult(store, childID, models.GamePatternSequence, 2, 10, 2, 10, 30, recent.Add(time.Duration(i)*time.Minute))
				}
			},
			want: []string{"practice-game", "try-new-games"},
		},
		{
			name:  "two plays is not enough to flag",
			level: 1,
			setup: func(store *memStore, childID int64) {
				for i := 0; i < 2; i++ {
					addResult(store, childID, models.GamePatternSequence, 2, 10, 2, 10, 30, recent.Add(time.Duration(i)*time.Minute))
				}
			},
			want: []string{"try-new-games"},
		},
		{
			name:  "negative and happy moods",
			level: 3,
			setup: func(store *memStore, childID int64) {
				for _, key := range models.GameKeys {
					addResult(store, childID, key, 9, 10, 9, 10, 30, recent)
				}
				addEmotion(store, childID, models.EmotionSad, 50, recent)
				addEmotion(store, childID, models.EmotionFearful, 50, recent)
				addEmotion(store, childID, models.EmotionHappy, 50, recent)
				addEmotion(store, childID, models.EmotionHappy, 50, recent)
				addEmotion(store, childID, models.EmotionHappy, 50, recent)
			},
			want: []string{"emotional-support", "great-mood", "raise-difficulty"},
		},
		{
			name:  "level five has no difficulty hint",
			level: 5,
			setup: func(store *memStore, childID int64) {
				for _, key := range models.GameKeys {
					addResult(store, childID, key, 9, 10, 9, 10, 30, recent)
				}
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			child := store.addChild(progression.LevelThresholds()[tt.level-1])
			tt.setup(store, child.ID)

			recs, err := newAnalytics(store).Recommendations(context.Background(), child.ID)
			require.NoError(t, err)

			codes := make([]string, 0, len(recs))
			for _, r := range recs {
				codes = append(codes, r.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestRecommendationsCapped(t *testing.T) {
	child := &models.Child{Level: 3}
	var results []models.GameResult
	for _, key := range models.GameKeys[:4] {
		for i := 0; i < 3; i++ {
			results = append(results, models.GameResult{GameKey: key, CorrectAnswers: 1, TotalQuestions: 10})
		}
	}

	recs := recommend(child, results, nil)
	require.Len(t, recs, maxRecommendations)
	assert.Equal(t, "practice-game", recs[0].Code)
	assert.Equal(t, models.GameMemoryMatch, recs[0].GameKey)
	assert.Equal(t, 10, recs[0].Value)
	assert.Equal(t, "try-new-games", recs[4].Code)
	assert.Equal(t, 2, recs[4].Value)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(5, 0))
	assert.Equal(t, 50, percent(1, 2))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 1, percent(1, 200))
}
