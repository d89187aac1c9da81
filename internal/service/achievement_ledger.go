package service

import (
	"context"
	"fmt"
	"time"

	"kidplay/internal/logger"
	"kidplay/internal/metrics"
	"kidplay/internal/models"
	"kidplay/internal/progression"
)

// Award is the result of TryAward. Unlock is set only when Awarded is true.
type Award struct {
	Awarded bool
	Unlock  *models.AchievementUnlock
}

// AchievementLedger grants each achievement at most once per child and
// credits its bonus points when it does
type AchievementLedger struct {
	store    AchievementStore
	children ChildStore
	catalog  *progression.Catalog
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewAchievementLedger creates a new ledger
func NewAchievementLedger(store AchievementStore, children ChildStore, catalog *progression.Catalog, log *logger.Logger, m *metrics.Metrics) *AchievementLedger {
	if log == nil {
		log = logger.Nop()
	}
	return &AchievementLedger{
		store:    store,
		children: children,
		catalog:  catalog,
		log:      log.Named("ledger"),
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TryAward unlocks key for the child if it is not unlocked yet.
// An achievement that is already held is reported as {Awarded: false}, not an error.
func (l *AchievementLedger) TryAward(ctx context.Context, childID int64, key models.AchievementKey) (Award, error) {
	def, ok := l.catalog.Definition(key)
	if !ok {
		return Award{}, fmt.Errorf("%w: %s", ErrUnknownAchievement, key)
	}

	held, err := l.store.Exists(ctx, childID, key)
	if err != nil {
		return Award{}, storageErr("check achievement", err)
	}
	if held {
		return Award{}, nil
	}

	unlock := &models.AchievementUnlock{
		ChildID:       childID,
		Key:           key,
		PointsAwarded: def.PointsAwarded,
		UnlockedAt:    l.now(),
	}
	inserted, err := l.store.InsertUnique(ctx, unlock)
	if err != nil {
		return Award{}, storageErr("insert achievement", err)
	}
	if !inserted {
		// Lost a race with a concurrent award
		l.metrics.AwardConflict(string(key))
		l.log.ForChild(childID).Debug("achievement already unlocked", "key", key)
		return Award{}, nil
	}

	if err := l.children.AddPoints(ctx, childID, def.PointsAwarded); err != nil {
		return Award{}, storageErr("credit achievement points", err)
	}

	l.metrics.AchievementUnlocked(string(key))
	l.metrics.PointsCredited(metrics.SourceAchievement, def.PointsAwarded)
	l.log.ForChild(childID).Debug("achievement unlocked", "key", key, "points", def.PointsAwarded)

	return Award{Awarded: true, Unlock: unlock}, nil
}
