package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kidplay/internal/database"
	"kidplay/internal/models"
)

// EmotionRepository handles the emotion log
type EmotionRepository struct {
	db database.DBTX
}

// NewEmotionRepository creates a new emotion repository
func NewEmotionRepository(db database.DBTX) *EmotionRepository {
	return &EmotionRepository{db: db}
}

// Create appends an emotion record and sets its ID
func (r *EmotionRepository) Create(ctx context.Context, rec *models.EmotionRecord) error {
	query := `
		INSERT INTO emotion_records (child_id, emotion, intensity, context, game_result_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	var gameResultID sql.NullInt64
	if rec.GameResultID != nil {
		gameResultID = sql.NullInt64{Int64: *rec.GameResultID, Valid: true}
	}

	id, err := r.db.ExecReturningID(ctx, query,
		rec.ChildID,
		string(rec.Emotion),
		rec.Intensity,
		rec.Context,
		gameResultID,
		rec.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create emotion record: %w", err)
	}
	rec.ID = id
	return nil
}

// ListSince returns records at or after since, oldest first
func (r *EmotionRepository) ListSince(ctx context.Context, childID int64, since time.Time) ([]models.EmotionRecord, error) {
	query := `
		SELECT id, child_id, emotion, intensity, context, game_result_id, recorded_at
		FROM emotion_records
		WHERE child_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC, id ASC
	`
	return r.query(ctx, query, childID, since.UTC())
}

// List returns a page of records at or after since, newest first
func (r *EmotionRepository) List(ctx context.Context, childID int64, since time.Time, limit, offset int) ([]models.EmotionRecord, error) {
	query := `
		SELECT id, child_id, emotion, intensity, context, game_result_id, recorded_at
		FROM emotion_records
		WHERE child_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	return r.query(ctx, query, childID, since.UTC(), limit, offset)
}

func (r *EmotionRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.EmotionRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion records: %w", err)
	}
	defer rows.Close()

	var records []models.EmotionRecord
	for rows.Next() {
		var rec models.EmotionRecord
		var emotion string
		var gameResultID sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.ChildID, &emotion, &rec.Intensity, &rec.Context, &gameResultID, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan emotion record: %w", err)
		}
		rec.Emotion = models.Emotion(emotion)
		if gameResultID.Valid {
			id := gameResultID.Int64
			rec.GameResultID = &id
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
