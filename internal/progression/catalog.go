package progression

import (
	"fmt"

	"kidplay/internal/models"
)

// Catalog is the immutable set of achievement definitions. Build it once with
// NewCatalog and pass it to whatever needs it.
type Catalog struct {
	keys []models.AchievementKey
	defs map[models.AchievementKey]models.AchievementDefinition
}

var definitions = []models.AchievementDefinition{
	{Key: models.AchievementFirstGame, Name: "First Steps", Description: "Completed your first game!", Icon: "🎮", PointsAwarded: 10},
	{Key: models.AchievementWeekStreak, Name: "Week Warrior", Description: "Played for 7 days in a row!", Icon: "🔥", PointsAwarded: 50},
	{Key: models.AchievementMemoryMaster, Name: "Memory Master", Description: "Achieved a high score in the memory game!", Icon: "🧠", PointsAwarded: 30},
	{Key: models.AchievementMathWizard, Name: "Math Wizard", Description: "Achieved a high score in the math game!", Icon: "🔢", PointsAwarded: 30},
	{Key: models.AchievementEmotionExpert, Name: "Emotion Expert", Description: "Recognized all emotions correctly!", Icon: "😊", PointsAwarded: 25},
	{Key: models.AchievementQuickLearner, Name: "Quick Learner", Description: "Completed 10 games!", Icon: "📚", PointsAwarded: 20},
	{Key: models.AchievementSuperPlayer, Name: "Super Player", Description: "Completed 50 games!", Icon: "⭐", PointsAwarded: 100},
	{Key: models.AchievementPerfectScore, Name: "Perfectionist", Description: "Got 100% in a game!", Icon: "💯", PointsAwarded: 40},
	{Key: models.AchievementLevelUp, Name: "Level Up!", Description: "Reached a new level!", Icon: "🚀", PointsAwarded: 15},
}

// NewCatalog builds the standard achievement catalog
func NewCatalog() *Catalog {
	return newCatalog(definitions)
}

func newCatalog(defs []models.AchievementDefinition) *Catalog {
	c := &Catalog{
		keys: make([]models.AchievementKey, 0, len(defs)),
		defs: make(map[models.AchievementKey]models.AchievementDefinition, len(defs)),
	}
	for _, d := range defs {
		if _, dup := c.defs[d.Key]; dup {
			continue
		}
		c.keys = append(c.keys, d.Key)
		c.defs[d.Key] = d
	}
	return c
}

// Definition looks up an achievement by key
func (c *Catalog) Definition(key models.AchievementKey) (models.AchievementDefinition, bool) {
	d, ok := c.defs[key]
	return d, ok
}

// Keys returns the achievement keys in declaration order
func (c *Catalog) Keys() []models.AchievementKey {
	out := make([]models.AchievementKey, len(c.keys))
	copy(out, c.keys)
	return out
}

// All returns every definition in declaration order
func (c *Catalog) All() []models.AchievementDefinition {
	out := make([]models.AchievementDefinition, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.defs[k])
	}
	return out
}

// Validate checks that every known key has a definition worth points
func (c *Catalog) Validate() error {
	for _, k := range models.AchievementKeys {
		d, ok := c.defs[k]
		if !ok {
			return fmt.Errorf("achievement %q has no definition", k)
		}
		if d.PointsAwarded <= 0 {
			return fmt.Errorf("achievement %q awards %d points", k, d.PointsAwarded)
		}
	}
	return nil
}
