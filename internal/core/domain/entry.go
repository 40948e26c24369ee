package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category identifies one of the six tracked wellness dimensions
type Category string

const (
	CategorySleep     Category = "sleep"
	CategoryHydration Category = "hydration"
	CategoryNutrition Category = "nutrition"
	CategoryFitness   Category = "fitness"
	CategoryStress    Category = "stress"
	CategoryMood      Category = "mood"
)

// Placeholder sentinels substituted by the normalizer for missing fields
const (
	ValueUnspecified   = "Unspecified"
	ReasonNotSpecified = "Not specified"
)

// ScoredCategories returns the six categories in scoring order
// The daily score and tip concatenation both follow this order
func ScoredCategories() []Category {
	return []Category{
		CategorySleep,
		CategoryHydration,
		CategoryNutrition,
		CategoryFitness,
		CategoryStress,
		CategoryMood,
	}
}

// IsKnownCategory checks whether a category participates in scoring
// Unknown categories are still saved but only receive the generic suggestion
func IsKnownCategory(category Category) bool {
	for _, c := range ScoredCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// CategoryValue is the canonical, default-filled representation of a
// category's raw input. Only the fields for the entry's category are set;
// the rest stay nil and are omitted from the stored JSON.
type CategoryValue struct {
	// Sleep
	Hours *float64 `json:"hours,omitempty"`

	// Sleep and nutrition
	Quality *string `json:"quality,omitempty"`

	// Hydration and stress
	Level *string `json:"level,omitempty"`

	// Mood
	Mood *string `json:"mood,omitempty"`

	// Fitness
	Minutes *int    `json:"minutes,omitempty"`
	Steps   *int    `json:"steps,omitempty"`
	Type    *string `json:"type,omitempty"`

	// All categories except fitness
	Reason *string `json:"reason,omitempty"`
}

// HealthEntry is one row of the append-only per-user health log
// Entries are never updated; deletion happens only via account cascade
type HealthEntry struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	Category       Category      `json:"category"`
	Value          CategoryValue `json:"value"`
	Recommendation string        `json:"recommendation"` // stored without the follow-up line
	CreatedAt      time.Time     `json:"created_at"`
}

// Period record defaults applied when the client omits the fields
const (
	DefaultCycleLength    = 28
	DefaultPeriodDuration = 5
)

// PeriodRecord is one user-entered menstrual cycle record
// The latest record (created_at, then id) drives current-phase display
type PeriodRecord struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	LastPeriodDate time.Time `json:"last_period_date"`
	CycleLength    int       `json:"cycle_length"`
	PeriodDuration int       `json:"period_duration"`
	Symptoms       string    `json:"symptoms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Reminder is a user-scheduled notification request
// Delivery is owned by the downstream dispatcher consuming the queue
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"reminder_type"`
	Time      string    `json:"reminder_time"` // HH:MM, 24-hour
	Email     string    `json:"reminder_email,omitempty"`
	Phone     string    `json:"reminder_phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayTime renders the stored 24-hour time as 12-hour clock text
// Malformed stored values come back unchanged
func (r *Reminder) DisplayTime() string {
	t, err := time.Parse("15:04", r.Time)
	if err != nil {
		return r.Time
	}
	return t.Format("03:04 PM")
}

// Feedback is a user-submitted review of the application
type Feedback struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Rating       int       `json:"rating"` // 1..5
	Usefulness   string    `json:"usefulness"`
	FeedbackType string    `json:"feedback_type"`
	Improve      string    `json:"improve"`
	Feature      string    `json:"feature"`
	CreatedAt    time.Time `json:"created_at"`
}

// User mirrors the identity-service account inside this service's database
// Profile fields arrive via JWT claims; passwords never touch this service
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackStats carries the aggregate feedback counters for the admin overview
type FeedbackStats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
	Last24Hours   int     `json:"last_24_hours"`
}

// UserGrowthPoint is one day of the registration trend series
type UserGrowthPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func strOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

func intOr(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
