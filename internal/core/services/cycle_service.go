package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// SavePeriodRequest is imported from ports package
type SavePeriodRequest = ports.SavePeriodRequest

// ErrCycleForbidden is returned when a non-female profile calls a cycle operation
var ErrCycleForbidden = errors.New("forbidden: cycle tracking requires a female profile")

// CycleService implements business logic for menstrual cycle tracking
// Enforces the female-profile gate and record ownership
type CycleService struct {
	periodRepo ports.PeriodRepository
}

// NewCycleService creates a new cycle service
func NewCycleService(periodRepo ports.PeriodRepository) *CycleService {
	return &CycleService{periodRepo: periodRepo}
}

// SavePeriod stores a new period record, applying defaults for omitted
// cycle length and duration
func (s *CycleService) SavePeriod(
	ctx context.Context,
	userID uuid.UUID,
	gender string,
	req SavePeriodRequest,
) (*domain.PeriodRecord, error) {
	if err := requireFemale(gender); err != nil {
		return nil, err
	}

	lastPeriodDate, err := parsePeriodDate(req.LastPeriodDate)
	if err != nil {
		return nil, err
	}

	record := &domain.PeriodRecord{
		ID:             uuid.New(),
		UserID:         userID,
		LastPeriodDate: lastPeriodDate,
		CycleLength:    cycleLengthOrDefault(req.CycleLength),
		PeriodDuration: periodDurationOrDefault(req.PeriodDuration),
		Symptoms:       strings.TrimSpace(req.Symptoms),
		CreatedAt:      time.Now(),
	}

	if err := s.periodRepo.CreatePeriod(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save period record: %w", err)
	}

	return record, nil
}

// ListPeriods retrieves the user's period history, newest first
func (s *CycleService) ListPeriods(ctx context.Context, userID uuid.UUID, gender string) ([]*domain.PeriodRecord, error) {
	if err := requireFemale(gender); err != nil {
		return nil, err
	}

	records, err := s.periodRepo.ListPeriods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list period records: %w", err)
	}
	return records, nil
}

// GetCurrentStatus resolves the current phase, predicted next period and
// the female health summary from the latest record
func (s *CycleService) GetCurrentStatus(ctx context.Context, userID uuid.UUID, gender string) (ports.CycleStatus, error) {
	if err := requireFemale(gender); err != nil {
		return ports.CycleStatus{}, err
	}

	record, err := s.periodRepo.GetLatestPeriod(ctx, userID)
	if err != nil {
		return ports.CycleStatus{}, fmt.Errorf("failed to get latest period record: %w", err)
	}
	if record == nil {
		// No history yet renders as an empty status, not an error
		return ports.CycleStatus{Phase: domain.PhaseUnknown}, nil
	}

	today := time.Now()
	summary, advice := domain.FemaleHealthSummary(*record, today)
	return ports.CycleStatus{
		Phase:         domain.ResolveCyclePhase(record.LastPeriodDate, record.CycleLength, today),
		NextPeriod:    domain.PredictedNextPeriod(*record),
		HealthSummary: summary + "\n\n" + advice,
		Record:        record,
	}, nil
}

// GetChart builds the cycle history chart series
func (s *CycleService) GetChart(ctx context.Context, userID uuid.UUID, gender string) (domain.CycleChart, error) {
	if err := requireFemale(gender); err != nil {
		return domain.CycleChart{}, err
	}

	records, err := s.periodRepo.ListPeriods(ctx, userID)
	if err != nil {
		return domain.CycleChart{}, fmt.Errorf("failed to list period records: %w", err)
	}

	history := make([]domain.PeriodRecord, 0, len(records))
	for _, record := range records {
		history = append(history, *record)
	}
	return domain.BuildCycleChart(history, time.Now()), nil
}

// UpdatePeriod updates an owned period record
func (s *CycleService) UpdatePeriod(
	ctx context.Context,
	userID uuid.UUID,
	gender string,
	periodID uuid.UUID,
	req SavePeriodRequest,
) (*domain.PeriodRecord, error) {
	if err := requireFemale(gender); err != nil {
		return nil, err
	}

	record, err := s.ownedPeriod(ctx, userID, periodID)
	if err != nil {
		return nil, err
	}

	if req.LastPeriodDate != "" {
		lastPeriodDate, err := parsePeriodDate(req.LastPeriodDate)
		if err != nil {
			return nil, err
		}
		record.LastPeriodDate = lastPeriodDate
	}
	if req.CycleLength != nil {
		record.CycleLength = cycleLengthOrDefault(req.CycleLength)
	}
	if req.PeriodDuration != nil {
		record.PeriodDuration = periodDurationOrDefault(req.PeriodDuration)
	}
	record.Symptoms = strings.TrimSpace(req.Symptoms)

	if err := s.periodRepo.UpdatePeriod(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update period record: %w", err)
	}

	return record, nil
}

// DeletePeriod deletes an owned period record
func (s *CycleService) DeletePeriod(ctx context.Context, userID uuid.UUID, gender string, periodID uuid.UUID) error {
	if err := requireFemale(gender); err != nil {
		return err
	}

	if _, err := s.ownedPeriod(ctx, userID, periodID); err != nil {
		return err
	}

	if err := s.periodRepo.DeletePeriod(ctx, periodID); err != nil {
		return fmt.Errorf("failed to delete period record: %w", err)
	}
	return nil
}

// ownedPeriod fetches a record and verifies ownership
// Returns a generic not found for both missing and foreign records
func (s *CycleService) ownedPeriod(ctx context.Context, userID uuid.UUID, periodID uuid.UUID) (*domain.PeriodRecord, error) {
	record, err := s.periodRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") ||
			strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, fmt.Errorf("period record not found")
		}
		return nil, fmt.Errorf("failed to get period record: %w", err)
	}
	if record == nil || record.UserID != userID {
		return nil, fmt.Errorf("period record not found")
	}
	return record, nil
}

func requireFemale(gender string) error {
	if strings.ToLower(strings.TrimSpace(gender)) != "female" {
		return ErrCycleForbidden
	}
	return nil
}

func parsePeriodDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid last_period_date: use YYYY-MM-DD")
	}
	return date, nil
}

func cycleLengthOrDefault(p *int) int {
	if p == nil || *p <= 0 {
		return domain.DefaultCycleLength
	}
	return *p
}

func periodDurationOrDefault(p *int) int {
	if p == nil || *p <= 0 {
		return domain.DefaultPeriodDuration
	}
	return *p
}
