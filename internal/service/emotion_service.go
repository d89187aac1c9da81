package service

import (
	"context"
	"sort"
	"time"

	"kidplay/internal/logger"
	"kidplay/internal/models"
	"kidplay/internal/validation"
)

const maxEmotionPage = 100

// EmotionService logs how a child feels and summarises it
type EmotionService struct {
	children    ChildStore
	emotions    EmotionStore
	log         *logger.Logger
	defaultDays int
	now         func() time.Time
}

// NewEmotionService creates a new emotion service
func NewEmotionService(children ChildStore, emotions EmotionStore, log *logger.Logger, defaultDays int) *EmotionService {
	if log == nil {
		log = logger.Nop()
	}
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &EmotionService{
		children:    children,
		emotions:    emotions,
		log:         log.Named("emotions"),
		defaultDays: defaultDays,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Record validates and appends an emotion record for an existing child
func (s *EmotionService) Record(ctx context.Context, rec models.EmotionRecord) (*models.EmotionRecord, error) {
	if err := validation.ValidateEmotion(&rec); err != nil {
		return nil, err
	}
	if _, err := s.children.GetChild(ctx, rec.ChildID); err != nil {
		return nil, storageErr("load child", err)
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = s.now()
	}
	if err := s.emotions.Create(ctx, &rec); err != nil {
		s.log.ForChild(rec.ChildID).Warn("failed to record emotion", "error", err)
		return nil, storageErr("record emotion", err)
	}
	s.log.ForChild(rec.ChildID).Debug("emotion recorded", "emotion", rec.Emotion, "intensity", rec.Intensity)
	return &rec, nil
}

// Summary breaks down the last days of emotion records. A non-positive days
// uses the configured default.
func (s *EmotionService) Summary(ctx context.Context, childID int64, days int) (*models.EmotionSummary, error) {
	if days <= 0 {
		days = s.defaultDays
	}
	if _, err := s.children.GetChild(ctx, childID); err != nil {
		return nil, storageErr("load child", err)
	}

	since := s.now().AddDate(0, 0, -days)
	records, err := s.emotions.ListSince(ctx, childID, since)
	if err != nil {
		return nil, storageErr("list emotions", err)
	}

	summary := &models.EmotionSummary{
		PeriodDays:   days,
		Since:        since,
		TotalRecords: len(records),
		Breakdown:    emotionBreakdown(records),
		Daily:        dailyEmotions(records),
	}
	if len(summary.Breakdown) > 0 {
		summary.DominantEmotion = summary.Breakdown[0].Emotion
	}
	return summary, nil
}

// History returns a page of records from the last days, newest first
func (s *EmotionService) History(ctx context.Context, childID int64, days, limit, offset int) ([]models.EmotionRecord, error) {
	if days <= 0 {
		days = s.defaultDays
	}
	if limit <= 0 || limit > maxEmotionPage {
		limit = maxEmotionPage
	}
	if offset < 0 {
		offset = 0
	}
	if _, err := s.children.GetChild(ctx, childID); err != nil {
		return nil, storageErr("load child", err)
	}

	records, err := s.emotions.List(ctx, childID, s.now().AddDate(0, 0, -days), limit, offset)
	if err != nil {
		return nil, storageErr("list emotions", err)
	}
	return records, nil
}

func dailyEmotions(records []models.EmotionRecord) []models.DailyEmotions {
	byDay := make(map[string]map[models.Emotion]int)
	for _, r := range records {
		day := r.RecordedAt.UTC().Format(dayLayout)
		counts, ok := byDay[day]
		if !ok {
			counts = make(map[models.Emotion]int)
			byDay[day] = counts
		}
		counts[r.Emotion]++
	}

	days := make([]models.DailyEmotions, 0, len(byDay))
	for day, counts := range byDay {
		days = append(days, models.DailyEmotions{Date: day, Counts: counts})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
