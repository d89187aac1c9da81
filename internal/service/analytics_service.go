package service

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"kidplay/internal/logger"
	"kidplay/internal/models"
	"kidplay/internal/progression"
)

const (
	recentAchievementLimit = 5
	maxRecommendations     = 5
	recommendationDays     = 30
	dayLayout              = "2006-01-02"
)

// AnalyticsService builds read-only rollups of a child's activity
type AnalyticsService struct {
	children    ChildStore
	results     ResultReader
	unlocks     UnlockReader
	emotions    EmotionStore
	catalog     *progression.Catalog
	log         *logger.Logger
	defaultDays int
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(children ChildStore, results ResultReader, unlocks UnlockReader, emotions EmotionStore, catalog *progression.Catalog, log *logger.Logger, defaultDays int) *AnalyticsService {
	if log == nil {
		log = logger.Nop()
	}
	if defaultDays <= 0 {
		defaultDays = recommendationDays
	}
	return &AnalyticsService{
		children:    children,
		results:     results,
		unlocks:     unlocks,
		emotions:    emotions,
		catalog:     catalog,
		log:         log.Named("analytics"),
		defaultDays: defaultDays,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// activity is everything a rollup reads for one child and window
type activity struct {
	child    *models.Child
	since    time.Time
	results  []models.GameResult
	emotions []models.EmotionRecord
	recent   []models.AchievementUnlock
}

func (s *AnalyticsService) load(ctx context.Context, childID int64, days int, withUnlocks bool) (*activity, error) {
	child, err := s.children.GetChild(ctx, childID)
	if err != nil {
		return nil, storageErr("load child", err)
	}

	a := &activity{child: child, since: s.now().AddDate(0, 0, -days)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := s.results.ListSince(gctx, childID, a.since)
		if err != nil {
			return storageErr("list results", err)
		}
		a.results = results
		return nil
	})
	g.Go(func() error {
		emotions, err := s.emotions.ListSince(gctx, childID, a.since)
		if err != nil {
			return storageErr("list emotions", err)
		}
		a.emotions = emotions
		return nil
	})
	if withUnlocks {
		g.Go(func() error {
			recent, err := s.unlocks.Recent(gctx, childID, recentAchievementLimit)
			if err != nil {
				return storageErr("list achievements", err)
			}
			a.recent = recent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.ForChild(childID).Warn("failed to load analytics", "error", err)
		return nil, err
	}
	return a, nil
}

// Summary rolls up the last days of activity. A non-positive days uses the
// configured default.
func (s *AnalyticsService) Summary(ctx context.Context, childID int64, days int) (*models.AnalyticsSummary, error) {
	if days <= 0 {
		days = s.defaultDays
	}
	a, err := s.load(ctx, childID, days, true)
	if err != nil {
		return nil, err
	}

	summary := &models.AnalyticsSummary{
		Child:              *a.child,
		PeriodDays:         days,
		Since:              a.since,
		Overview:           overview(a.child, a.results),
		GameStats:          gameStats(a.results),
		EmotionStats:       emotionBreakdown(a.emotions),
		DailyActivity:      dailyActivity(a.results),
		RecentAchievements: withDefinitions(s.catalog, a.recent),
	}
	return summary, nil
}

func overview(child *models.Child, results []models.GameResult) models.Overview {
	o := models.Overview{
		TotalGamesPlayed: len(results),
		CurrentLevel:     child.Level,
		TotalPoints:      child.TotalPoints,
	}

	var accuracySum float64
	for _, r := range results {
		o.TotalTimePlayed += r.DurationSeconds
		accuracySum += sessionAccuracy(r)
	}
	if len(results) > 0 {
		o.OverallAccuracy = roundHalfUp(accuracySum / float64(len(results)) * 100)
	}

	if next, ok := progression.PointsToNextLevel(child.TotalPoints); ok {
		o.PointsToNextLevel = next
	} else {
		o.MaxLevel = true
	}
	return o
}

func gameStats(results []models.GameResult) []models.GameStats {
	type totals struct {
		games, score, maxScore, correct, questions, time, best int
	}
	byGame := make(map[models.GameKey]*totals)
	for _, r := range results {
		t, ok := byGame[r.GameKey]
		if !ok {
			t = &totals{}
			byGame[r.GameKey] = t
		}
		t.games++
		t.score += r.Score
		t.maxScore += r.MaxScore
		t.correct += r.CorrectAnswers
		t.questions += r.TotalQuestions
		t.time += r.DurationSeconds
		if r.Score > t.best {
			t.best = r.Score
		}
	}

	stats := make([]models.GameStats, 0, len(byGame))
	for key, t := range byGame {
		stats = append(stats, models.GameStats{
			GameKey:         key,
			TotalGames:      t.games,
			AverageScore:    percent(t.score, t.maxScore),
			AverageAccuracy: percent(t.correct, t.questions),
			TotalTime:       t.time,
			BestScore:       t.best,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].GameKey < stats[j].GameKey })
	return stats
}

// emotionBreakdown counts emotions, most frequent first
func emotionBreakdown(records []models.EmotionRecord) []models.EmotionStat {
	type totals struct{ count, intensity int }
	byEmotion := make(map[models.Emotion]*totals)
	for _, r := range records {
		t, ok := byEmotion[r.Emotion]
		if !ok {
			t = &totals{}
			byEmotion[r.Emotion] = t
		}
		t.count++
		t.intensity += r.Intensity
	}

	stats := make([]models.EmotionStat, 0, len(byEmotion))
	for e, t := range byEmotion {
		stats = append(stats, models.EmotionStat{
			Emotion:          e,
			Count:            t.count,
			AverageIntensity: roundHalfUp(float64(t.intensity) / float64(t.count)),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Emotion < stats[j].Emotion
	})
	return stats
}

// dailyActivity groups results by UTC day, oldest first
func dailyActivity(results []models.GameResult) []models.DailyActivity {
	byDay := make(map[string]*models.DailyActivity)
	for _, r := range results {
		day := r.CompletedAt.UTC().Format(dayLayout)
		d, ok := byDay[day]
		if !ok {
			d = &models.DailyActivity{Date: day}
			byDay[day] = d
		}
		d.GamesPlayed++
		d.TotalTime += r.DurationSeconds
	}

	days := make([]models.DailyActivity, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// Recommendations suggests next steps from the last 30 days of activity.
// At most five are returned, in rule order.
func (s *AnalyticsService) Recommendations(ctx context.Context, childID int64) ([]models.Recommendation, error) {
	a, err := s.load(ctx, childID, recommendationDays, false)
	if err != nil {
		return nil, err
	}
	return recommend(a.child, a.results, a.emotions), nil
}

func recommend(child *models.Child, results []models.GameResult, emotions []models.EmotionRecord) []models.Recommendation {
	var recs []models.Recommendation

	if len(results) == 0 {
		recs = append(recs, models.Recommendation{
			Type:     models.RecommendationEngagement,
			Priority: models.PriorityHigh,
			Code:     "start-playing",
		})
	} else {
		// Running mean of per-session accuracy, in first-played order
		type perf struct {
			accuracy float64
			count    int
		}
		var order []models.GameKey
		byGame := make(map[models.GameKey]*perf)
		for _, r := range results {
			p, ok := byGame[r.GameKey]
			if !ok {
				p = &perf{}
				byGame[r.GameKey] = p
				order = append(order, r.GameKey)
			}
			p.accuracy = (p.accuracy*float64(p.count) + sessionAccuracy(r)) / float64(p.count+1)
			p.count++
		}

		for _, key := range order {
			p := byGame[key]
			if p.accuracy < 0.5 && p.count >= 3 {
				recs = append(recs, models.Recommendation{
					Type:     models.RecommendationSkill,
					Priority: models.PriorityHigh,
					Code:     "practice-game",
					GameKey:  key,
					Value:    roundHalfUp(p.accuracy * 100),
				})
			}
		}

		unplayed := 0
		for _, key := range models.GameKeys {
			if _, ok := byGame[key]; !ok {
				unplayed++
			}
		}
		if unplayed > 0 {
			recs = append(recs, models.Recommendation{
				Type:     models.RecommendationEngagement,
				Priority: models.PriorityMedium,
				Code:     "try-new-games",
				Value:    unplayed,
			})
		}
	}

	if len(emotions) > 0 {
		negative, happy := 0, 0
		for _, e := range emotions {
			if e.Emotion.Negative() {
				negative++
			}
			if e.Emotion == models.EmotionHappy {
				happy++
			}
		}
		total := float64(len(emotions))
		if float64(negative)/total > 0.3 {
			recs = append(recs, models.Recommendation{
				Type:     models.RecommendationEmotional,
				Priority: models.PriorityHigh,
				Code:     "emotional-support",
			})
		}
		if float64(happy)/total > 0.5 {
			recs = append(recs, models.Recommendation{
				Type:     models.RecommendationEmotional,
				Priority: models.PriorityLow,
				Code:     "great-mood",
			})
		}
	}

	if child.Level >= 3 && child.Level < 5 {
		recs = append(recs, models.Recommendation{
			Type:     models.RecommendationGeneral,
			Priority: models.PriorityMedium,
			Code:     "raise-difficulty",
		})
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	return recs
}

func sessionAccuracy(r models.GameResult) float64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalQuestions)
}

// percent returns round(part/whole*100), or 0 when whole is 0
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
