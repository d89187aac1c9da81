package models

import "time"

// Overview summarises a child's activity over a period
type Overview struct {
	TotalGamesPlayed  int
	TotalTimePlayed   int
	OverallAccuracy   int
	CurrentLevel      int
	TotalPoints       int
	PointsToNextLevel int
	MaxLevel          bool
}

// GameStats aggregates results of one game
type GameStats struct {
	GameKey         GameKey
	TotalGames      int
	AverageScore    int
	AverageAccuracy int
	TotalTime       int
	BestScore       int
}

// EmotionStat counts one emotion and its average intensity
type EmotionStat struct {
	Emotion          Emotion
	Count            int
	AverageIntensity int
}

// DailyActivity is one UTC day of play
type DailyActivity struct {
	Date        string
	GamesPlayed int
	TotalTime   int
}

// AnalyticsSummary is the dashboard read model for one child
type AnalyticsSummary struct {
	Child              Child
	PeriodDays         int
	Since              time.Time
	Overview           Overview
	GameStats          []GameStats
	EmotionStats       []EmotionStat
	DailyActivity      []DailyActivity
	RecentAchievements []UnlockedAchievement
}

// Recommendation categories and priorities
const (
	RecommendationEngagement = "engagement"
	RecommendationSkill      = "skill"
	RecommendationEmotional  = "emotional"
	RecommendationGeneral    = "general"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is a machine-readable suggestion for parents. Wording is
// left to the presentation layer.
type Recommendation struct {
	Type     string
	Priority string
	Code     string
	GameKey  GameKey `json:",omitempty"`
	Value    int     `json:",omitempty"`
}

// DailyEmotions counts emotions recorded on one UTC day
type DailyEmotions struct {
	Date   string
	Counts map[Emotion]int
}

// EmotionSummary is the emotion read model for one child
type EmotionSummary struct {
	PeriodDays      int
	Since           time.Time
	TotalRecords    int
	Breakdown       []EmotionStat
	Daily           []DailyEmotions
	DominantEmotion Emotion
}
