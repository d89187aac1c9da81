package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kidplay/internal/database"
	"kidplay/internal/models"
	"kidplay/internal/progression"
)

// ChildRepository handles database operations for child profiles
type ChildRepository struct {
	db database.DBTX

	addPointsQuery string
	thresholdArgs  int
}

// NewChildRepository creates a new child repository
func NewChildRepository(db database.DBTX) *ChildRepository {
	query, n := addPointsQuery()
	return &ChildRepository{db: db, addPointsQuery: query, thresholdArgs: n}
}

// addPointsQuery builds the increment statement. The level is derived from
// the incremented total in the same statement so it never lags the points.
// level is assigned first because MySQL evaluates SET clauses left to right.
func addPointsQuery() (string, int) {
	thresholds := progression.LevelThresholds()

	var b strings.Builder
	b.WriteString("UPDATE children SET level = CASE")
	n := 0
	for i := len(thresholds) - 1; i >= 1; i-- {
		fmt.Fprintf(&b, " WHEN total_points + ? >= %d THEN %d", thresholds[i], i+1)
		n++
	}
	b.WriteString(" ELSE 1 END, total_points = total_points + ?, updated_at = ? WHERE id = ?")
	return b.String(), n
}

const childColumns = "id, parent_id, name, age, avatar, language, total_points, level, created_at, updated_at"

// CreateChild creates a new child profile at level 1 with no points
func (r *ChildRepository) CreateChild(ctx context.Context, child *models.Child) (*models.Child, error) {
	now := time.Now().UTC()
	avatar := child.Avatar
	if avatar == "" {
		avatar = models.DefaultAvatar
	}

	query := `
		INSERT INTO children (parent_id, name, age, avatar, language, total_points, level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 1, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, child.ParentID, child.Name, child.Age, avatar, string(child.Language), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	return &models.Child{
		ID:          id,
		ParentID:    child.ParentID,
		Name:        child.Name,
		Age:         child.Age,
		Avatar:      avatar,
		Language:    child.Language,
		TotalPoints: 0,
		Level:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetChild retrieves a child by ID
func (r *ChildRepository) GetChild(ctx context.Context, id int64) (*models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE id = ?"
	child, err := scanChild(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("child %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

// ListByParent retrieves a parent's children, oldest profile first
func (r *ChildRepository) ListByParent(ctx context.Context, parentID int64) ([]models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE parent_id = ? ORDER BY created_at ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, *child)
	}
	return children, rows.Err()
}

// AddPoints atomically adds delta to the child's total and re-derives the
// level from the new total. A zero delta is a no-op.
func (r *ChildRepository) AddPoints(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return nil
	}

	args := make([]interface{}, 0, r.thresholdArgs+3)
	for i := 0; i < r.thresholdArgs; i++ {
		args = append(args, delta)
	}
	args = append(args, delta, time.Now().UTC(), id)

	result, err := r.db.ExecContext(ctx, r.addPointsQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("child %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChild(row rowScanner) (*models.Child, error) {
	child := &models.Child{}
	var language string
	err := row.Scan(
		&child.ID,
		&child.ParentID,
		&child.Name,
		&child.Age,
		&child.Avatar,
		&language,
		&child.TotalPoints,
		&child.Level,
		&child.CreatedAt,
		&child.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	child.Language = models.Language(language)
	return child, nil
}
