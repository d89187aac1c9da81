// Package validation checks caller input before anything is persisted.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"kidplay/internal/models"
)

const maxNameLength = 100

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateName checks if a child's name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	return nil
}

// ValidateChild checks a new child profile. Avatar may be empty.
func ValidateChild(c *models.Child) error {
	if c == nil {
		return ValidationError{Field: "child", Message: "child is required"}
	}
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if c.Age < models.MinChildAge || c.Age > models.MaxChildAge {
		return ValidationError{Field: "age", Message: fmt.Sprintf("age must be between %d and %d", models.MinChildAge, models.MaxChildAge)}
	}
	if c.Language != models.LanguageKazakh && c.Language != models.LanguageRussian {
		return ValidationError{Field: "language", Message: "language must be kz or ru"}
	}
	return nil
}

// ValidateGameResult checks a finished game before it is recorded.
// A score above maxScore is accepted.
func ValidateGameResult(r *models.GameResult) error {
	if r == nil {
		return ValidationError{Field: "result", Message: "result is required"}
	}
	if !r.GameKey.Valid() {
		return ValidationError{Field: "gameKey", Message: fmt.Sprintf("unknown game %q", r.GameKey)}
	}
	if r.Difficulty != "" && !r.Difficulty.Valid() {
		return ValidationError{Field: "difficulty", Message: "difficulty must be easy, medium or hard"}
	}
	if r.Score < 0 {
		return ValidationError{Field: "score", Message: "score must not be negative"}
	}
	if r.MaxScore < 0 {
		return ValidationError{Field: "maxScore", Message: "maxScore must not be negative"}
	}
	if r.Score > models.MaxGameScore {
		return ValidationError{Field: "score", Message: fmt.Sprintf("score must be at most %d", models.MaxGameScore)}
	}
	if r.MaxScore > models.MaxGameScore {
		return ValidationError{Field: "maxScore", Message: fmt.Sprintf("maxScore must be at most %d", models.MaxGameScore)}
	}
	if r.CorrectAnswers < 0 || r.TotalQuestions < 0 {
		return ValidationError{Field: "correctAnswers", Message: "answer counts must not be negative"}
	}
	if r.CorrectAnswers > r.TotalQuestions {
		return ValidationError{Field: "correctAnswers", Message: "correctAnswers must not exceed totalQuestions"}
	}
	if r.DurationSeconds < 0 {
		return ValidationError{Field: "duration", Message: "duration must not be negative"}
	}
	if r.EmotionDuringGame != "" && !r.EmotionDuringGame.Valid() {
		return ValidationError{Field: "emotionDuringGame", Message: fmt.Sprintf("unknown emotion %q", r.EmotionDuringGame)}
	}
	return nil
}

// ValidateEmotion checks an emotion record
func ValidateEmotion(e *models.EmotionRecord) error {
	if e == nil {
		return ValidationError{Field: "emotion", Message: "emotion record is required"}
	}
	if !e.Emotion.Valid() {
		return ValidationError{Field: "emotion", Message: fmt.Sprintf("unknown emotion %q", e.Emotion)}
	}
	if e.Intensity < 0 || e.Intensity > models.MaxEmotionIntensity {
		return ValidationError{Field: "intensity", Message: fmt.Sprintf("intensity must be between 0 and %d", models.MaxEmotionIntensity)}
	}
	return nil
}
