// Package progression holds the pure scoring rules and the achievement catalog.
package progression

import "kidplay/internal/models"

// MaxLevel is the highest reachable level
const MaxLevel = 10

// Index i holds the minimum total points for level i+1
var levelThresholds = [MaxLevel]int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// Multipliers are stored in halves so points can be computed in integers
var difficultyHalves = map[models.Difficulty]int{
	models.DifficultyEasy:   2,
	models.DifficultyMedium: 3,
	models.DifficultyHard:   4,
}

const basePoints = 10

// LevelThresholds returns a copy of the level curve. Element i is the
// minimum total for level i+1.
func LevelThresholds() []int {
	out := make([]int, len(levelThresholds))
	copy(out, levelThresholds[:])
	return out
}

// LevelForPoints maps a cumulative point total to a level in [1, MaxLevel].
// Negative totals are treated as zero.
func LevelForPoints(total int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if total >= threshold {
			level = i + 1
		}
	}
	return level
}

// PointsToNextLevel returns how many points are missing for the next level.
// ok is false at MaxLevel.
func PointsToNextLevel(total int) (int, bool) {
	if total < 0 {
		total = 0
	}
	level := LevelForPoints(total)
	if level >= MaxLevel {
		return 0, false
	}
	return levelThresholds[level] - total, true
}

// Multiplier returns the difficulty multiplier. Unknown difficulties count as easy.
func Multiplier(d models.Difficulty) float64 {
	return float64(halvesFor(d)) / 2
}

func halvesFor(d models.Difficulty) int {
	if h, ok := difficultyHalves[d]; ok {
		return h
	}
	return difficultyHalves[models.DifficultyEasy]
}

// PointsForResult computes round((score/maxScore) * 10 * multiplier) with
// halves rounded up. A zero maxScore yields zero, as does a negative score.
func PointsForResult(score, maxScore int, d models.Difficulty) int {
	if maxScore <= 0 || score <= 0 {
		return 0
	}
	// points = score*10*halves / (maxScore*2), rounded half up
	num := score * basePoints * halvesFor(d)
	den := maxScore * 2
	return (2*num + den) / (2 * den)
}

// IsPerfectScore reports whether the result hit the maximum score
func IsPerfectScore(score, maxScore int) bool {
	return maxScore > 0 && score == maxScore
}
