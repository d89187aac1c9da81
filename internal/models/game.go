package models

import "time"

// GameKey identifies a mini-game
type GameKey string

const (
	GameMemoryMatch     GameKey = "memory-match"
	GamePatternSequence GameKey = "pattern-sequence"
	GameMathAdventure   GameKey = "math-adventure"
	GameWordBuilder     GameKey = "word-builder"
	GameEmotionCards    GameKey = "emotion-cards"
	GamePuzzleSolve     GameKey = "puzzle-solve"
)

// GameKeys lists every mini-game in catalog order
var GameKeys = []GameKey{
	GameMemoryMatch,
	GamePatternSequence,
	GameMathAdventure,
	GameWordBuilder,
	GameEmotionCards,
	GamePuzzleSolve,
}

// Valid reports whether k is a known game
func (k GameKey) Valid() bool {
	for _, g := range GameKeys {
		if g == k {
			return true
		}
	}
	return false
}

// Difficulty scales the points a result earns
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MaxGameScore bounds score and maxScore so point arithmetic cannot overflow
const MaxGameScore = 1_000_000

// GameResult is one completed mini-game session. Results are append-only.
type GameResult struct {
	ID                int64
	Ref               string
	ChildID           int64
	GameKey           GameKey
	Score             int
	MaxScore          int
	Difficulty        Difficulty
	CorrectAnswers    int
	TotalQuestions    int
	DurationSeconds   int
	EmotionDuringGame Emotion
	CompletedAt       time.Time
}

// ResultPage is a window over a child's game history
type ResultPage struct {
	Results []GameResult
	Total   int
	Limit   int
	Offset  int
}
