package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRef is returned when a game result reference is already stored
	ErrDuplicateRef = errors.New("duplicate result reference")
)
