package service

import (
	"context"

	"kidplay/internal/models"
	"kidplay/internal/progression"
)

const maxHistoryLimit = 100

// HistoryService serves a child's recorded games and unlocked achievements
type HistoryService struct {
	children     ChildStore
	results      ResultReader
	unlocks      UnlockReader
	catalog      *progression.Catalog
	defaultLimit int
}

// NewHistoryService creates a new history service
func NewHistoryService(children ChildStore, results ResultReader, unlocks UnlockReader, catalog *progression.Catalog, defaultLimit int) *HistoryService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &HistoryService{
		children:     children,
		results:      results,
		unlocks:      unlocks,
		catalog:      catalog,
		defaultLimit: defaultLimit,
	}
}

// History returns a page of results, newest first. An empty gameKey lists every game.
func (s *HistoryService) History(ctx context.Context, childID int64, gameKey models.GameKey, limit, offset int) (*models.ResultPage, error) {
	if _, err := s.children.GetChild(ctx, childID); err != nil {
		return nil, storageErr("load child", err)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.results.List(ctx, childID, gameKey, limit, offset)
	if err != nil {
		return nil, storageErr("list results", err)
	}
	return page, nil
}

// FindResult looks a result up by the reference it was recorded with
func (s *HistoryService) FindResult(ctx context.Context, ref string) (*models.GameResult, error) {
	result, err := s.results.FindByRef(ctx, ref)
	if err != nil {
		return nil, storageErr("find result", err)
	}
	return result, nil
}

// Achievements returns the child's unlocks, newest first
func (s *HistoryService) Achievements(ctx context.Context, childID int64) ([]models.UnlockedAchievement, error) {
	if _, err := s.children.GetChild(ctx, childID); err != nil {
		return nil, storageErr("load child", err)
	}
	unlocks, err := s.unlocks.ListByChild(ctx, childID)
	if err != nil {
		return nil, storageErr("list achievements", err)
	}
	return withDefinitions(s.catalog, unlocks), nil
}

// Catalog returns every achievement definition in declaration order
func (s *HistoryService) Catalog() []models.AchievementDefinition {
	return s.catalog.All()
}

func withDefinitions(catalog *progression.Catalog, unlocks []models.AchievementUnlock) []models.UnlockedAchievement {
	out := make([]models.UnlockedAchievement, 0, len(unlocks))
	for _, u := range unlocks {
		item := models.UnlockedAchievement{AchievementUnlock: u}
		if def, ok := catalog.Definition(u.Key); ok {
			item.Name = def.Name
			item.Description = def.Description
			item.Icon = def.Icon
		}
		out = append(out, item)
	}
	return out
}
