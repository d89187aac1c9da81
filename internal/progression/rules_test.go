package progression

import (
	"testing"

	"kidplay/internal/models"
)

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{-50, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
		{1499, 5},
		{1500, 6},
		{2100, 7},
		{2800, 8},
		{3600, 9},
		{4499, 9},
		{4500, 10},
		{1000000, 10},
	}

	for _, tt := range tests {
		if got := LevelForPoints(tt.total); got != tt.want {
			t.Errorf("LevelForPoints(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestLevelForPointsMonotonic(t *testing.T) {
	prev := LevelForPoints(0)
	for p := 1; p <= 6000; p++ {
		level := LevelForPoints(p)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at %d points", prev, level, p)
		}
		if level < 1 || level > MaxLevel {
			t.Fatalf("level %d out of range at %d points", level, p)
		}
		prev = level
	}
}

func TestPointsForResult(t *testing.T) {
	tests := []struct {
		name       string
		score, max int
		difficulty models.Difficulty
		want       int
	}{
		{name: "zero max score", score: 5, max: 0, difficulty: models.DifficultyEasy, want: 0},
		{name: "perfect easy", score: 10, max: 10, difficulty: models.DifficultyEasy, want: 10},
		{name: "perfect medium", score: 10, max: 10, difficulty: models.DifficultyMedium, want: 15},
		{name: "perfect hard", score: 10, max: 10, difficulty: models.DifficultyHard, want: 20},
		{name: "half medium rounds up", score: 5, max: 10, difficulty: models.DifficultyMedium, want: 8},
		{name: "one third easy", score: 1, max: 3, difficulty: models.DifficultyEasy, want: 3},
		{name: "two thirds easy", score: 2, max: 3, difficulty: models.DifficultyEasy, want: 7},
		{name: "0.45 easy rounds up", score: 9, max: 20, difficulty: models.DifficultyEasy, want: 5},
		{name: "unknown difficulty acts easy", score: 10, max: 10, difficulty: "legendary", want: 10},
		{name: "zero score", score: 0, max: 10, difficulty: models.DifficultyHard, want: 0},
		{name: "score above max", score: 15, max: 10, difficulty: models.DifficultyEasy, want: 15},
		{name: "largest accepted score", score: models.MaxGameScore, max: 1, difficulty: models.DifficultyHard, want: 20 * models.MaxGameScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsForResult(tt.score, tt.max, tt.difficulty); got != tt.want {
				t.Errorf("PointsForResult(%d, %d, %s) = %d, want %d", tt.score, tt.max, tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestIsPerfectScore(t *testing.T) {
	tests := []struct {
		score, max int
		want       bool
	}{
		{10, 10, true},
		{9, 10, false},
		{0, 0, false},
		{11, 10, false},
	}

	for _, tt := range tests {
		if got := IsPerfectScore(tt.score, tt.max); got != tt.want {
			t.Errorf("IsPerfectScore(%d, %d) = %v, want %v", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestPointsToNextLevel(t *testing.T) {
	if got, ok := PointsToNextLevel(95); !ok || got != 5 {
		t.Errorf("PointsToNextLevel(95) = %d, %v, want 5, true", got, ok)
	}
	if got, ok := PointsToNextLevel(100); !ok || got != 200 {
		t.Errorf("PointsToNextLevel(100) = %d, %v, want 200, true", got, ok)
	}
	if _, ok := PointsToNextLevel(4500); ok {
		t.Error("PointsToNextLevel(4500) should report max level")
	}
}

func TestLevelThresholdsIsCopy(t *testing.T) {
	th := LevelThresholds()
	th[1] = 1
	if LevelForPoints(50) != 1 {
		t.Error("mutating LevelThresholds() result changed the curve")
	}
	if len(th) != MaxLevel {
		t.Errorf("len(LevelThresholds()) = %d, want %d", len(th), MaxLevel)
	}
}

func TestMultiplier(t *testing.T) {
	if Multiplier(models.DifficultyMedium) != 1.5 {
		t.Errorf("Multiplier(medium) = %v", Multiplier(models.DifficultyMedium))
	}
	if Multiplier("") != 1 {
		t.Errorf("Multiplier(\"\") = %v", Multiplier(""))
	}
}
