package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kidplay/internal/logger"
	"kidplay/internal/metrics"
	"kidplay/internal/models"
	"kidplay/internal/progression"
	"kidplay/internal/repository"
	"kidplay/internal/validation"
)

// Game-count milestones. Each fires on the exact count only.
var milestones = map[int]models.AchievementKey{
	1:  models.AchievementFirstGame,
	10: models.AchievementQuickLearner,
	50: models.AchievementSuperPlayer,
}

// ProgressionService turns finished games into points, levels and achievements
type ProgressionService struct {
	children ChildStore
	history  GameHistoryStore
	ledger   *AchievementLedger
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewProgressionService creates a new progression service
func NewProgressionService(children ChildStore, history GameHistoryStore, ledger *AchievementLedger, log *logger.Logger, m *metrics.Metrics) *ProgressionService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProgressionService{
		children: children,
		history:  history,
		ledger:   ledger,
		log:      log.Named("progression"),
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordResult appends a finished game to the child's history, credits its
// points and grants any achievements it triggers.
//
// Nothing is rolled back on failure. If an error is returned after the
// result was appended, the caller can look the result up by its Ref.
func (s *ProgressionService) RecordResult(ctx context.Context, childID int64, result models.GameResult) (outcome *models.ProgressionOutcome, err error) {
	start := time.Now()
	log := s.log.ForChild(childID)
	defer func() {
		s.metrics.ObserveRecord(time.Since(start))
		if err != nil {
			s.metrics.RecordError(errorKind(err))
		}
	}()

	if err := validation.ValidateGameResult(&result); err != nil {
		return nil, err
	}
	if result.Difficulty == "" {
		result.Difficulty = models.DifficultyEasy
	}

	child, err := s.children.GetChild(ctx, childID)
	if err != nil {
		return nil, storageErr("load child", err)
	}

	result.ChildID = childID
	if result.Ref == "" {
		result.Ref = uuid.NewString()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = s.now()
	}
	if err := s.history.Append(ctx, &result); err != nil {
		if errors.Is(err, repository.ErrDuplicateRef) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateResult, result.Ref)
		}
		log.Warn("failed to append game result", "ref", result.Ref, "error", err)
		return nil, storageErr("append result", err)
	}
	s.metrics.ResultRecorded(string(result.GameKey), string(result.Difficulty))

	outcome = &models.ProgressionOutcome{
		PointsEarned:    progression.PointsForResult(result.Score, result.MaxScore, result.Difficulty),
		NewAchievements: []models.AchievementKey{},
		Result:          result,
	}

	award := func(key models.AchievementKey) error {
		a, err := s.ledger.TryAward(ctx, childID, key)
		if err != nil {
			log.Warn("failed to award achievement", "key", key, "error", err)
			return err
		}
		if a.Awarded {
			outcome.NewAchievements = append(outcome.NewAchievements, key)
			outcome.BonusPoints += a.Unlock.PointsAwarded
		}
		return nil
	}

	if progression.IsPerfectScore(result.Score, result.MaxScore) {
		if err := award(models.AchievementPerfectScore); err != nil {
			return nil, err
		}
	}

	previousLevel := child.Level
	outcome.NewTotalPoints = child.TotalPoints + outcome.PointsEarned

	if err := s.children.AddPoints(ctx, childID, outcome.PointsEarned); err != nil {
		log.Warn("failed to credit game points", "points", outcome.PointsEarned, "error", err)
		return nil, storageErr("credit game points", err)
	}
	s.metrics.PointsCredited(metrics.SourceGame, outcome.PointsEarned)

	outcome.NewLevel = progression.LevelForPoints(outcome.NewTotalPoints)
	if outcome.NewLevel > previousLevel {
		outcome.LeveledUp = true
		log.Info("child leveled up", "from", previousLevel, "to", outcome.NewLevel)
		if err := award(models.AchievementLevelUp); err != nil {
			return nil, err
		}
	}

	count, err := s.history.CountCompleted(ctx, childID)
	if err != nil {
		return nil, storageErr("count results", err)
	}
	if key, ok := milestones[count]; ok {
		if err := award(key); err != nil {
			return nil, err
		}
	}

	outcome.FinalTotalPoints = outcome.NewTotalPoints + outcome.BonusPoints
	outcome.FinalLevel = progression.LevelForPoints(outcome.FinalTotalPoints)

	log.Debug("game result recorded",
		"ref", result.Ref,
		"game", result.GameKey,
		"points", outcome.PointsEarned,
		"bonus", outcome.BonusPoints,
		"achievements", outcome.NewAchievements,
	)
	return outcome, nil
}
