package models

import "time"

// AchievementKey identifies an achievement in the catalog
type AchievementKey string

const (
	AchievementFirstGame     AchievementKey = "first-game"
	AchievementWeekStreak    AchievementKey = "week-streak"
	AchievementMemoryMaster  AchievementKey = "memory-master"
	AchievementMathWizard    AchievementKey = "math-wizard"
	AchievementEmotionExpert AchievementKey = "emotion-expert"
	AchievementQuickLearner  AchievementKey = "quick-learner"
	AchievementSuperPlayer   AchievementKey = "super-player"
	AchievementPerfectScore  AchievementKey = "perfect-score"
	AchievementLevelUp       AchievementKey = "level-up"
)

// AchievementKeys lists every achievement in declaration order
var AchievementKeys = []AchievementKey{
	AchievementFirstGame,
	AchievementWeekStreak,
	AchievementMemoryMaster,
	AchievementMathWizard,
	AchievementEmotionExpert,
	AchievementQuickLearner,
	AchievementSuperPlayer,
	AchievementPerfectScore,
	AchievementLevelUp,
}

// AchievementDefinition is the static description of an achievement
type AchievementDefinition struct {
	Key           AchievementKey
	Name          string
	Description   string
	Icon          string
	PointsAwarded int
}

// AchievementUnlock records that a child earned an achievement.
// There is at most one unlock per (ChildID, Key).
type AchievementUnlock struct {
	ID            int64
	ChildID       int64
	Key           AchievementKey
	PointsAwarded int
	UnlockedAt    time.Time
}

// UnlockedAchievement joins an unlock with its catalog display fields
type UnlockedAchievement struct {
	AchievementUnlock
	Name        string
	Description string
	Icon        string
}
