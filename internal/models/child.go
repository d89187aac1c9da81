package models

import "time"

// Language is the interface language of a child profile
type Language string

const (
	LanguageKazakh  Language = "kz"
	LanguageRussian Language = "ru"
)

const (
	MinChildAge   = 4
	MaxChildAge   = 10
	DefaultAvatar = "default-avatar"
)

// Child represents a child profile and its cumulative progression
type Child struct {
	ID          int64
	ParentID    int64
	Name        string
	Age         int
	Avatar      string
	Language    Language
	TotalPoints int
	Level       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
