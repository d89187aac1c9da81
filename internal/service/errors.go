package service

import (
	"context"
	"errors"
	"fmt"

	"kidplay/internal/repository"
	"kidplay/internal/validation"
)

var (
	// ErrNotFound is returned when the child or result does not exist
	ErrNotFound = repository.ErrNotFound

	// ErrStorage matches every *StorageError via errors.Is
	ErrStorage = errors.New("storage failure")

	// ErrDuplicateResult is returned when a result reference was already recorded
	ErrDuplicateResult = errors.New("result already recorded")

	// ErrUnknownAchievement is returned for keys missing from the catalog
	ErrUnknownAchievement = errors.New("unknown achievement")
)

// StorageError wraps a failure from a store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// storageErr passes not-found through untouched and wraps everything else
func storageErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// errorKind labels err for metrics
func errorKind(err error) string {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateResult):
		return "duplicate"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "storage"
	}
}
