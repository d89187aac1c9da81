package service

import (
	"context"
	"time"

	"kidplay/internal/models"
)

// ChildStore loads child profiles and credits points
type ChildStore interface {
	GetChild(ctx context.Context, id int64) (*models.Child, error)
	// AddPoints must be a single atomic increment that also re-derives the level
	AddPoints(ctx context.Context, id int64, delta int) error
}

// GameHistoryStore appends finished games
type GameHistoryStore interface {
	Append(ctx context.Context, result *models.GameResult) error
	CountCompleted(ctx context.Context, childID int64) (int, error)
}

// AchievementStore persists unlocks at most once per child and key
type AchievementStore interface {
	Exists(ctx context.Context, childID int64, key models.AchievementKey) (bool, error)
	InsertUnique(ctx context.Context, unlock *models.AchievementUnlock) (bool, error)
}

// ResultReader reads game history
type ResultReader interface {
	List(ctx context.Context, childID int64, gameKey models.GameKey, limit, offset int) (*models.ResultPage, error)
	ListSince(ctx context.Context, childID int64, since time.Time) ([]models.GameResult, error)
	FindByRef(ctx context.Context, ref string) (*models.GameResult, error)
}

// UnlockReader reads achievement unlocks, newest first
type UnlockReader interface {
	ListByChild(ctx context.Context, childID int64) ([]models.AchievementUnlock, error)
	Recent(ctx context.Context, childID int64, limit int) ([]models.AchievementUnlock, error)
}

// EmotionStore appends and reads emotion records
type EmotionStore interface {
	Create(ctx context.Context, rec *models.EmotionRecord) error
	ListSince(ctx context.Context, childID int64, since time.Time) ([]models.EmotionRecord, error)
	List(ctx context.Context, childID int64, since time.Time, limit, offset int) ([]models.EmotionRecord, error)
}
