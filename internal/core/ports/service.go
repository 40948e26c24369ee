package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
)

// HealthService defines the business logic interface for health entry operations
type HealthService interface {
	// SaveHealthData normalizes and stores a raw category payload
	// Returns the saved entry plus the display recommendation, which always
	// carries the follow-up line the stored text omits
	SaveHealthData(ctx context.Context, userID uuid.UUID, req SaveHealthDataRequest) (*domain.HealthEntry, string, error)

	// GetTodayScore computes the daily score over today's latest entry per category
	GetTodayScore(ctx context.Context, userID uuid.UUID) (domain.DailyScore, error)

	// GetGoal computes the goal-page tip from today's score and coverage
	GetGoal(ctx context.Context, userID uuid.UUID) (GoalResult, error)

	// GetLatestRecommendation builds the consolidated advisory from the
	// latest entry per category across the user's full history
	GetLatestRecommendation(ctx context.Context, userID uuid.UUID) (domain.Advisory, error)

	// GetSummary builds the weekly (7 day) and monthly (30 day) trend summaries
	GetSummary(ctx context.Context, userID uuid.UUID) (SummaryResult, error)
}

// SaveHealthDataRequest represents the input for saving one health entry
type SaveHealthDataRequest struct {
	Category domain.Category `json:"category"`
	Value    json.RawMessage `json:"value"`
}

// GoalResult carries the goal page content
type GoalResult struct {
	Score int    `json:"score"`
	Tier  string `json:"tier"`
	Tip   string `json:"tip"`
}

// SummaryResult carries both trend windows
type SummaryResult struct {
	Weekly  domain.AggregateSummary `json:"weekly"`
	Monthly domain.AggregateSummary `json:"monthly"`
}

// CycleService defines the business logic interface for menstrual cycle tracking
// All operations require the caller's profile gender to be female
type CycleService interface {
	// SavePeriod stores a new period record, applying defaults for
	// omitted cycle length and duration
	SavePeriod(ctx context.Context, userID uuid.UUID, gender string, req SavePeriodRequest) (*domain.PeriodRecord, error)

	// ListPeriods retrieves the user's period history, newest first
	ListPeriods(ctx context.Context, userID uuid.UUID, gender string) ([]*domain.PeriodRecord, error)

	// GetCurrentStatus resolves the current phase, predicted next period and
	// the female health summary from the latest record
	GetCurrentStatus(ctx context.Context, userID uuid.UUID, gender string) (CycleStatus, error)

	// GetChart builds the cycle history chart series
	GetChart(ctx context.Context, userID uuid.UUID, gender string) (domain.CycleChart, error)

	// UpdatePeriod updates an owned period record
	UpdatePeriod(ctx context.Context, userID uuid.UUID, gender string, periodID uuid.UUID, req SavePeriodRequest) (*domain.PeriodRecord, error)

	// DeletePeriod deletes an owned period record
	DeletePeriod(ctx context.Context, userID uuid.UUID, gender string, periodID uuid.UUID) error
}

// SavePeriodRequest represents the input for creating or updating a period record
type SavePeriodRequest struct {
	LastPeriodDate string `json:"last_period_date"` // YYYY-MM-DD
	CycleLength    *int   `json:"cycle_length,omitempty"`
	PeriodDuration *int   `json:"period_duration,omitempty"`
	Symptoms       string `json:"symptoms"`
}

// CycleStatus is the current-cycle view assembled from the latest record
type CycleStatus struct {
	Phase         domain.CyclePhase    `json:"phase"`
	NextPeriod    time.Time            `json:"next_period"`
	HealthSummary string               `json:"health_summary"`
	Record        *domain.PeriodRecord `json:"record"`
}

// ReminderService defines the business logic interface for reminders
type ReminderService interface {
	// CreateReminder stores a reminder and publishes a dispatch event
	// Publish failures are logged, never surfaced to the caller
	CreateReminder(ctx context.Context, userID uuid.UUID, req CreateReminderRequest) (*domain.Reminder, error)

	// ListReminders retrieves the user's reminders
	ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error)

	// DeleteReminder deletes an owned reminder
	DeleteReminder(ctx context.Context, userID uuid.UUID, reminderID uuid.UUID) error
}

// CreateReminderRequest represents the input for scheduling a reminder
type CreateReminderRequest struct {
	Type  string `json:"reminder_type"`
	Time  string `json:"reminder_time"` // HH:MM, 24-hour
	Email string `json:"reminder_email"`
	Phone string `json:"reminder_phone"`
}

// FeedbackService defines the business logic interface for feedback submission
type FeedbackService interface {
	// SubmitFeedback stores a user review
	SubmitFeedback(ctx context.Context, userID uuid.UUID, req SubmitFeedbackRequest) (*domain.Feedback, error)
}

// SubmitFeedbackRequest represents the input for submitting feedback
type SubmitFeedbackRequest struct {
	Rating       int    `json:"rating"`
	Usefulness   string `json:"usefulness"`
	FeedbackType string `json:"feedback_type"`
	Improve      string `json:"improve"`
	Feature      string `json:"feature"`
}

// AdminService defines the administrative interface
type AdminService interface {
	// GetOverview returns platform-wide counters for the admin dashboard
	GetOverview(ctx context.Context) (AdminOverview, error)

	// ListUsers retrieves registered user profiles
	// status filters by "active" or "inactive"; empty returns everyone
	ListUsers(ctx context.Context, status string) ([]*domain.User, error)

	// ListFeedback retrieves all submitted feedback, newest first
	ListFeedback(ctx context.Context) ([]*domain.Feedback, error)

	// DeactivateUser flips a user's profile to inactive
	DeactivateUser(ctx context.Context, userID uuid.UUID) error

	// DeleteUser removes a user and all of their data
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// AdminOverview carries the admin dashboard counters
type AdminOverview struct {
	TotalUsers      int                      `json:"total_users"`
	TotalEntries    int                      `json:"total_entries"`
	TotalFeedback   int                      `json:"total_feedback"`
	AverageRating   float64                  `json:"average_rating"`
	FeedbackLast24h int                      `json:"feedback_last_24h"`
	UserGrowth      []domain.UserGrowthPoint `json:"user_growth"`
}
