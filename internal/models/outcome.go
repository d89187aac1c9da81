package models

// ProgressionOutcome describes what recording one game result did.
//
// NewTotalPoints is the profile total read before the call plus the game's
// points. Achievement bonuses credited during the call are reported in
// BonusPoints and folded into FinalTotalPoints.
type ProgressionOutcome struct {
	PointsEarned     int
	NewTotalPoints   int
	NewLevel         int
	LeveledUp        bool
	NewAchievements  []AchievementKey
	BonusPoints      int
	FinalTotalPoints int
	FinalLevel       int
	Result           GameResult
}
