package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// CreateReminderRequest is imported from ports package
type CreateReminderRequest = ports.CreateReminderRequest

var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ReminderService implements business logic for reminder scheduling
// Delivery is owned downstream; this layer stores the reminder and emits a
// dispatch event to the queue
type ReminderService struct {
	reminderRepo ports.ReminderRepository
	dispatcher   ports.ReminderDispatcher
}

// NewReminderService creates a new reminder service
func NewReminderService(reminderRepo ports.ReminderRepository, dispatcher ports.ReminderDispatcher) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		dispatcher:   dispatcher,
	}
}

// CreateReminder stores a reminder and publishes a dispatch event
// Publish failures are logged, never surfaced to the caller
func (s *ReminderService) CreateReminder(
	ctx context.Context,
	userID uuid.UUID,
	req CreateReminderRequest,
) (*domain.Reminder, error) {
	if strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("reminder_type is required")
	}
	if !reminderTimePattern.MatchString(req.Time) {
		return nil, fmt.Errorf("reminder_time must be HH:MM in 24-hour format")
	}

	reminder := &domain.Reminder{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      strings.TrimSpace(req.Type),
		Time:      req.Time,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now(),
	}

	if err := s.reminderRepo.CreateReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	// Dispatch asynchronously so queue trouble never delays the response
	go func() {
		bgCtx := context.Background()
		if err := s.dispatcher.PublishReminder(bgCtx, reminder); err != nil {
			log.Printf("Failed to publish reminder dispatch event: %v", err)
		}
	}()

	return reminder, nil
}

// ListReminders retrieves the user's reminders
func (s *ReminderService) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	reminders, err := s.reminderRepo.ListReminders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// DeleteReminder deletes an owned reminder
// Returns a generic not found for both missing and foreign reminders
func (s *ReminderService) DeleteReminder(ctx context.Context, userID uuid.UUID, reminderID uuid.UUID) error {
	reminder, err := s.reminderRepo.GetReminderByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") ||
			strings.Contains(strings.ToLower(err.Error()), "not found") {
			return fmt.Errorf("reminder not found")
		}
		return fmt.Errorf("failed to get reminder: %w", err)
	}
	if reminder == nil || reminder.UserID != userID {
		return fmt.Errorf("reminder not found")
	}

	if err := s.reminderRepo.DeleteReminder(ctx, reminderID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}
