package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kidplay/internal/database"
	"kidplay/internal/models"
)

// GameRepository handles the append-only game history
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

const gameResultColumns = `id, ref, child_id, game_key, score, max_score, difficulty,
	correct_answers, total_questions, duration_seconds, emotion_during_game, completed_at`

// Append stores a finished game and sets its ID. A reused Ref fails with ErrDuplicateRef.
func (r *GameRepository) Append(ctx context.Context, result *models.GameResult) error {
	query := `
		INSERT INTO game_results (ref, child_id, game_key, score, max_score, difficulty,
			correct_answers, total_questions, duration_seconds, emotion_during_game, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		result.Ref,
		result.ChildID,
		string(result.GameKey),
		result.Score,
		result.MaxScore,
		string(result.Difficulty),
		result.CorrectAnswers,
		result.TotalQuestions,
		result.DurationSeconds,
		string(result.EmotionDuringGame),
		result.CompletedAt.UTC(),
	)
	if err != nil {
		if r.db.GetDialect().IsUniqueViolation(err) {
			return fmt.Errorf("result %s: %w", result.Ref, ErrDuplicateRef)
		}
		return fmt.Errorf("failed to append game result: %w", err)
	}

	result.ID = id
	return nil
}

// CountCompleted returns how many games the child has finished
func (r *GameRepository) CountCompleted(ctx context.Context, childID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM game_results WHERE child_id = ?", childID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count game results: %w", err)
	}
	return count, nil
}

// FindByRef retrieves a result by its caller-facing reference
func (r *GameRepository) FindByRef(ctx context.Context, ref string) (*models.GameResult, error) {
	query := "SELECT " + gameResultColumns + " FROM game_results WHERE ref = ?"
	result, err := scanGameResult(r.db.QueryRowContext(ctx, query, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}
	return result, nil
}

// List returns a page of a child's results, newest first, plus the total
// number of matching results. An empty gameKey matches every game.
func (r *GameRepository) List(ctx context.Context, childID int64, gameKey models.GameKey, limit, offset int) (*models.ResultPage, error) {
	where := " WHERE child_id = ?"
	args := []interface{}{childID}
	if gameKey != "" {
		where += " AND game_key = ?"
		args = append(args, string(gameKey))
	}

	page := &models.ResultPage{Limit: limit, Offset: offset}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM game_results"+where, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count game results: %w", err)
	}

	query := "SELECT " + gameResultColumns + " FROM game_results" + where +
		" ORDER BY completed_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		result, err := scanGameResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		page.Results = append(page.Results, *result)
	}
	return page, rows.Err()
}

// ListSince returns every result completed at or after since, oldest first
func (r *GameRepository) ListSince(ctx context.Context, childID int64, since time.Time) ([]models.GameResult, error) {
	query := "SELECT " + gameResultColumns + ` FROM game_results
		WHERE child_id = ? AND completed_at >= ?
		ORDER BY completed_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, childID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []models.GameResult
	for rows.Next() {
		result, err := scanGameResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, *result)
	}
	return results, rows.Err()
}

func scanGameResult(row rowScanner) (*models.GameResult, error) {
	result := &models.GameResult{}
	var gameKey, difficulty, emotion string
	err := row.Scan(
		&result.ID,
		&result.Ref,
		&result.ChildID,
		&gameKey,
		&result.Score,
		&result.MaxScore,
		&difficulty,
		&result.CorrectAnswers,
		&result.TotalQuestions,
		&result.DurationSeconds,
		&emotion,
		&result.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	result.GameKey = models.GameKey(gameKey)
	result.Difficulty = models.Difficulty(difficulty)
	result.EmotionDuringGame = models.Emotion(emotion)
	return result, nil
}
