package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidplay/internal/logger"
	"kidplay/internal/models"
	"kidplay/internal/progression"
)

func TestTryAwardOnce(t *testing.T) {
	store := newMemStore()
	child := store.addChild(0)
	ledger := NewAchievementLedger(store, store, progression.NewCatalog(), logger.Nop(), nil)
	ctx := context.Background()

	first, err := ledger.TryAward(ctx, child.ID, models.AchievementWeekStreak)
	require.NoError(t, err)
	assert.True(t, first.Awarded)
	require.NotNil(t, first.Unlock)
	assert.Equal(t, 50, first.Unlock.PointsAwarded)

	second, err := ledger.TryAward(ctx, child.ID, models.AchievementWeekStreak)
	require.NoError(t, err)
	assert.False(t, second.Awarded)
	assert.Nil(t, second.Unlock)

	assert.Equal(t, 50, store.child(child.ID).TotalPoints)
	assert.Equal(t, 1, store.unlockCount(child.ID, models.AchievementWeekStreak))
}

func TestTryAwardUnknownKey(t *testing.T) {
	store := newMemStore()
	child := store.addChild(0)
	ledger := NewAchievementLedger(store, store, progression.NewCatalog(), logger.Nop(), nil)

	_, err := ledger.TryAward(context.Background(), child.ID, "speed-demon")
	assert.ErrorIs(t, err, ErrUnknownAchievement)
	assert.Zero(t, store.child(child.ID).TotalPoints)
}

func TestTryAwardConcurrentInsertRace(t *testing.T) {
	store := newMemStore()
	store.hideUnlocks = true
	child := store.addChild(0)
	ledger := NewAchievementLedger(store, store, progression.NewCatalog(), logger.Nop(), nil)

	const n = 16
	var awarded int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := ledger.TryAward(context.Background(), child.ID, models.AchievementSuperPlayer)
			assert.NoError(t, err)
			if a.Awarded {
				atomic.AddInt32(&awarded, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), awarded)
	assert.Equal(t, 100, store.child(child.ID).TotalPoints)
}
