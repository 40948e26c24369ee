package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// SaveHealthDataRequest is imported from ports package
type SaveHealthDataRequest = ports.SaveHealthDataRequest

// HealthService implements business logic for health entry operations
// Normalization and rule evaluation live in the domain package; this layer
// owns latest-per-category selection and day bucketing over fetched rows
type HealthService struct {
	entryRepo ports.EntryRepository
}

// NewHealthService creates a new health service
func NewHealthService(entryRepo ports.EntryRepository) *HealthService {
	return &HealthService{entryRepo: entryRepo}
}

// SaveHealthData normalizes and stores a raw category payload
// The stored recommendation never carries the follow-up line; the returned
// display text always does
func (s *HealthService) SaveHealthData(
	ctx context.Context,
	userID uuid.UUID,
	req SaveHealthDataRequest,
) (*domain.HealthEntry, string, error) {
	if req.Category == "" {
		return nil, "", fmt.Errorf("category is required")
	}

	value := domain.NormalizeCategoryValue(req.Category, req.Value)
	stored := domain.GenerateSuggestion(req.Category, value, false)

	entry := &domain.HealthEntry{
		ID:             uuid.New(),
		UserID:         userID,
		Category:       req.Category,
		Value:          value,
		Recommendation: stored,
		CreatedAt:      time.Now(),
	}

	if err := s.entryRepo.CreateEntry(ctx, entry); err != nil {
		return nil, "", fmt.Errorf("failed to save health data: %w", err)
	}

	s.logEntry(entry, "entry_saved")

	display := domain.GenerateSuggestion(req.Category, value, true)
	return entry, display, nil
}

// GetTodayScore computes the daily score over today's latest entry per category
func (s *HealthService) GetTodayScore(ctx context.Context, userID uuid.UUID) (domain.DailyScore, error) {
	latest, err := s.latestPerCategoryToday(ctx, userID)
	if err != nil {
		return domain.DailyScore{}, err
	}
	return domain.CalculateDailyScore(latest), nil
}

// GetGoal computes the goal-page tip from today's score and coverage
func (s *HealthService) GetGoal(ctx context.Context, userID uuid.UUID) (ports.GoalResult, error) {
	latest, err := s.latestPerCategoryToday(ctx, userID)
	if err != nil {
		return ports.GoalResult{}, err
	}

	score := domain.CalculateDailyScore(latest)
	return ports.GoalResult{
		Score: score.Score,
		Tier:  score.Tier,
		Tip:   domain.GenerateGoalTip(score.Score, len(latest)),
	}, nil
}

// GetLatestRecommendation builds the consolidated advisory from the latest
// entry per category across the user's full history
func (s *HealthService) GetLatestRecommendation(ctx context.Context, userID uuid.UUID) (domain.Advisory, error) {
	entries, err := s.entryRepo.GetLatestPerCategory(ctx, userID)
	if err != nil {
		return domain.Advisory{}, fmt.Errorf("failed to get latest entries: %w", err)
	}

	latest := make(map[domain.Category]domain.CategoryValue, len(entries))
	for category, entry := range entries {
		latest[category] = entry.Value
	}

	advisory, ok := domain.BuildAdvisory(latest)
	if !ok {
		return domain.Advisory{Recommendation: domain.NoAdvisoryData}, nil
	}
	return advisory, nil
}

// GetSummary builds the weekly (7 day) and monthly (30 day) trend summaries
// Both windows share one fetch: monthly rows are a superset of weekly rows
func (s *HealthService) GetSummary(ctx context.Context, userID uuid.UUID) (ports.SummaryResult, error) {
	now := time.Now()
	monthlyCutoff := now.AddDate(0, 0, -30)
	weeklyCutoff := now.AddDate(0, 0, -7)

	entries, err := s.entryRepo.GetEntriesSince(ctx, userID, monthlyCutoff)
	if err != nil {
		return ports.SummaryResult{}, fmt.Errorf("failed to get entries: %w", err)
	}

	var weekly []*domain.HealthEntry
	for _, entry := range entries {
		if !entry.CreatedAt.Before(weeklyCutoff) {
			weekly = append(weekly, entry)
		}
	}

	return ports.SummaryResult{
		Weekly:  domain.CalculateSummary(bucketByDay(weekly)),
		Monthly: domain.CalculateSummary(bucketByDay(entries)),
	}, nil
}

// latestPerCategoryToday fetches today's entries and keeps the newest per
// category. Rows arrive newest first, so the first hit per category wins.
func (s *HealthService) latestPerCategoryToday(ctx context.Context, userID uuid.UUID) (map[domain.Category]domain.CategoryValue, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	entries, err := s.entryRepo.GetEntriesSince(ctx, userID, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's entries: %w", err)
	}

	latest := make(map[domain.Category]domain.CategoryValue)
	for _, entry := range entries {
		if !domain.IsKnownCategory(entry.Category) {
			continue
		}
		if _, seen := latest[entry.Category]; !seen {
			latest[entry.Category] = entry.Value
		}
	}
	return latest, nil
}

// bucketByDay groups entries into per-day numeric samples for the trend
// builder. Sleep contributes hours and fitness contributes minutes and
// steps; the categorical categories carry no numeric field and therefore
// contribute no samples, leaving their series at the 0 default.
func bucketByDay(entries []*domain.HealthEntry) []domain.DaySamples {
	buckets := make(map[time.Time]*domain.DaySamples)

	for _, entry := range entries {
		t := entry.CreatedAt
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

		bucket, ok := buckets[day]
		if !ok {
			bucket = &domain.DaySamples{Day: day}
			buckets[day] = bucket
		}

		switch entry.Category {
		case domain.CategorySleep:
			if entry.Value.Hours != nil {
				bucket.Sleep = append(bucket.Sleep, *entry.Value.Hours)
			}
		case domain.CategoryFitness:
			if entry.Value.Minutes != nil {
				bucket.FitnessMinutes = append(bucket.FitnessMinutes, *entry.Value.Minutes)
			}
			if entry.Value.Steps != nil {
				bucket.FitnessSteps = append(bucket.FitnessSteps, *entry.Value.Steps)
			}
		}
	}

	days := make([]domain.DaySamples, 0, len(buckets))
	for _, bucket := range buckets {
		days = append(days, *bucket)
	}
	return days
}

// logEntry logs structured JSON for entry events
func (s *HealthService) logEntry(e *domain.HealthEntry, event string) {
	logEntry := map[string]interface{}{
		"event":      event,
		"entry_id":   e.ID.String(),
		"category":   string(e.Category),
		"created_at": e.CreatedAt.Format(time.RFC3339),
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal entry log: %v", err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}
