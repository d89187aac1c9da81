package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kidplay/internal/database"
	"kidplay/internal/models"
)

// AchievementRepository stores achievement unlocks. The unique key on
// (child_id, achievement_key) is what keeps awards at most once.
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

var (
	unlockColumns   = []string{"child_id", "achievement_key", "points_awarded", "unlocked_at"}
	unlockUniqueKey = []string{"child_id", "achievement_key"}
)

// Exists reports whether the child already holds the achievement
func (r *AchievementRepository) Exists(ctx context.Context, childID int64, key models.AchievementKey) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM achievement_unlocks WHERE child_id = ? AND achievement_key = ?"
	if err := r.db.QueryRowContext(ctx, query, childID, string(key)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check achievement: %w", err)
	}
	return count > 0, nil
}

// InsertUnique stores the unlock unless one already exists for the same
// child and key. inserted is false when the row was already there. The id is
// read from the insert itself so a stored unlock is never reported as failed.
func (r *AchievementRepository) InsertUnique(ctx context.Context, unlock *models.AchievementUnlock) (bool, error) {
	dialect := r.db.GetDialect()
	query := dialect.InsertIgnoreQuery("achievement_unlocks", unlockColumns, unlockUniqueKey)
	args := []interface{}{
		unlock.ChildID,
		string(unlock.Key),
		unlock.PointsAwarded,
		unlock.UnlockedAt.UTC(),
	}

	if !dialect.SupportsLastInsertId() {
		// A skipped row returns no RETURNING row
		err := r.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&unlock.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return false, nil
		case err != nil && dialect.IsUniqueViolation(err):
			return false, nil
		case err != nil:
			return false, fmt.Errorf("failed to insert achievement: %w", err)
		}
		return true, nil
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dialect.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert achievement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	// Both sqlite3 and mysql report the id from the statement's own result
	if id, err := result.LastInsertId(); err == nil {
		unlock.ID = id
	}
	return true, nil
}

// ListByChild returns the child's unlocks, newest first
func (r *AchievementRepository) ListByChild(ctx context.Context, childID int64) ([]models.AchievementUnlock, error) {
	return r.list(ctx, childID, -1)
}

// Recent returns at most limit unlocks, newest first
func (r *AchievementRepository) Recent(ctx context.Context, childID int64, limit int) ([]models.AchievementUnlock, error) {
	return r.list(ctx, childID, limit)
}

func (r *AchievementRepository) list(ctx context.Context, childID int64, limit int) ([]models.AchievementUnlock, error) {
	query := `
		SELECT id, child_id, achievement_key, points_awarded, unlocked_at
		FROM achievement_unlocks
		WHERE child_id = ?
		ORDER BY unlocked_at DESC, id DESC
	`
	args := []interface{}{childID}
	if limit >= 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var unlocks []models.AchievementUnlock
	for rows.Next() {
		var u models.AchievementUnlock
		var key string
		if err := rows.Scan(&u.ID, &u.ChildID, &key, &u.PointsAwarded, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		u.Key = models.AchievementKey(key)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}
