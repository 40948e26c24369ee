package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
)

// EntryRepository defines the interface for health entry persistence
type EntryRepository interface {
	// CreateEntry stores a normalized health entry with its stored recommendation
	CreateEntry(ctx context.Context, entry *domain.HealthEntry) error

	// GetEntriesSince retrieves a user's entries created at or after the cutoff,
	// newest first (created_at, then id, descending)
	GetEntriesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.HealthEntry, error)

	// GetLatestPerCategory retrieves the newest entry for each category the
	// user has ever logged. Categories never logged are absent from the map.
	GetLatestPerCategory(ctx context.Context, userID uuid.UUID) (map[domain.Category]*domain.HealthEntry, error)

	// CountEntries returns the total number of entries across all users
	CountEntries(ctx context.Context) (int, error)
}

// PeriodRepository defines the interface for period record persistence
type PeriodRepository interface {
	// CreatePeriod stores a new period record
	CreatePeriod(ctx context.Context, record *domain.PeriodRecord) error

	// GetPeriodByID retrieves a period record by ID
	GetPeriodByID(ctx context.Context, periodID uuid.UUID) (*domain.PeriodRecord, error)

	// ListPeriods retrieves all period records for a user, newest first
	ListPeriods(ctx context.Context, userID uuid.UUID) ([]*domain.PeriodRecord, error)

	// GetLatestPeriod retrieves the user's most recent period record
	// Returns nil without error when the user has no records
	GetLatestPeriod(ctx context.Context, userID uuid.UUID) (*domain.PeriodRecord, error)

	// UpdatePeriod overwrites the mutable fields of an existing record
	UpdatePeriod(ctx context.Context, record *domain.PeriodRecord) error

	// DeletePeriod deletes a period record by ID
	DeletePeriod(ctx context.Context, periodID uuid.UUID) error
}

// ReminderRepository defines the interface for reminder persistence
type ReminderRepository interface {
	// CreateReminder stores a new reminder
	CreateReminder(ctx context.Context, reminder *domain.Reminder) error

	// ListReminders retrieves all reminders for a user, soonest first
	ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error)

	// GetReminderByID retrieves a reminder by ID
	GetReminderByID(ctx context.Context, reminderID uuid.UUID) (*domain.Reminder, error)

	// DeleteReminder deletes a reminder by ID
	DeleteReminder(ctx context.Context, reminderID uuid.UUID) error
}

// FeedbackRepository defines the interface for feedback persistence
type FeedbackRepository interface {
	// CreateFeedback stores a new feedback message
	CreateFeedback(ctx context.Context, feedback *domain.Feedback) error

	// ListFeedback retrieves all feedback across users, newest first (ADMIN only)
	ListFeedback(ctx context.Context) ([]*domain.Feedback, error)

	// GetFeedbackStats returns the total count, average rating and the
	// number of submissions since the cutoff
	GetFeedbackStats(ctx context.Context, recentCutoff time.Time) (domain.FeedbackStats, error)
}

// UserRepository defines the interface for the mirrored user profiles
type UserRepository interface {
	// UpsertUser inserts or refreshes a mirrored user profile
	// Called by the identity event consumer, never by request handlers
	UpsertUser(ctx context.Context, user *domain.User) error

	// GetUserByID retrieves a user profile by ID
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers retrieves user profiles (ADMIN only)
	// A nil active filter returns everyone
	ListUsers(ctx context.Context, active *bool) ([]*domain.User, error)

	// CountUsers returns the total number of registered users
	CountUsers(ctx context.Context) (int, error)

	// GetUserGrowth returns per-day registration counts since the cutoff
	// Days without registrations are absent from the series
	GetUserGrowth(ctx context.Context, since time.Time) ([]domain.UserGrowthPoint, error)

	// SetUserActive flips the mirrored profile's active flag
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error

	// DeleteUser removes a user and all of their data
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// ReminderDispatcher defines the interface for publishing reminder
// dispatch events to the notification pipeline
type ReminderDispatcher interface {
	// PublishReminder publishes a dispatch event for a newly created reminder
	PublishReminder(ctx context.Context, reminder *domain.Reminder) error
}
