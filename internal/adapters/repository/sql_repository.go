package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// SQLRepository implements all persistence ports using PostgreSQL
// Includes retry logic and circuit breakers for resilience
type SQLRepository struct {
	db         *sql.DB
	entryCB    *gobreaker.CircuitBreaker
	cycleCB    *gobreaker.CircuitBreaker
	accountCB  *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
}

// NewSQLRepository creates a new PostgreSQL repository with circuit breakers
func NewSQLRepository(db *sql.DB) *SQLRepository {
	settings := gobreaker.Settings{
		Name:        "database",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &SQLRepository{
		db:         db,
		entryCB:    gobreaker.NewCircuitBreaker(settings),
		cycleCB:    gobreaker.NewCircuitBreaker(settings),
		accountCB:  gobreaker.NewCircuitBreaker(settings),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
	}
}

// executeWithRetry executes a database operation with retry logic
func (r *SQLRepository) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < r.maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		// Don't retry on missing rows - not a transient error
		if errors.Is(err, sql.ErrNoRows) ||
			strings.Contains(strings.ToLower(err.Error()), "no rows") ||
			strings.Contains(strings.ToLower(err.Error()), "not found") {
			return err
		}
		if i < r.maxRetries-1 {
			time.Sleep(r.retryDelay)
		}
	}
	return fmt.Errorf("operation failed after %d retries: %w", r.maxRetries, lastErr)
}

// EntryRepository implementation

func (r *SQLRepository) CreateEntry(ctx context.Context, entry *domain.HealthEntry) error {
	valueJSON, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("failed to encode entry value: %w", err)
	}

	_, err = r.entryCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO health_entries (id, user_id, category, value, recommendation, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
			_, err := r.db.ExecContext(ctx, query, entry.ID, entry.UserID, string(entry.Category), valueJSON, entry.Recommendation, entry.CreatedAt)
			return err
		})
	})
	return err
}

func (r *SQLRepository) GetEntriesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.HealthEntry, error) {
	result, err := r.entryCB.Execute(func() (interface{}, error) {
		var entries []*domain.HealthEntry
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, category, value, recommendation, created_at
				FROM health_entries
				WHERE user_id = $1 AND created_at >= $2
				ORDER BY created_at DESC, id DESC`
			rows, queryErr := r.db.QueryContext(ctx, query, userID, since)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			entries = entries[:0]
			for rows.Next() {
				entry, err := scanEntry(rows)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return entries, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.HealthEntry), nil
}

func (r *SQLRepository) GetLatestPerCategory(ctx context.Context, userID uuid.UUID) (map[domain.Category]*domain.HealthEntry, error) {
	result, err := r.entryCB.Execute(func() (interface{}, error) {
		latest := make(map[domain.Category]*domain.HealthEntry)
		err := r.executeWithRetry(ctx, func() error {
			// DISTINCT ON keeps the newest row per category in one pass
			query := `SELECT DISTINCT ON (category) id, user_id, category, value, recommendation, created_at
				FROM health_entries
				WHERE user_id = $1
				ORDER BY category, created_at DESC, id DESC`
			rows, queryErr := r.db.QueryContext(ctx, query, userID)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			clear(latest)
			for rows.Next() {
				entry, err := scanEntry(rows)
				if err != nil {
					return err
				}
				latest[entry.Category] = entry
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return latest, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(map[domain.Category]*domain.HealthEntry), nil
}

func (r *SQLRepository) CountEntries(ctx context.Context) (int, error) {
	result, err := r.entryCB.Execute(func() (interface{}, error) {
		var count int
		err := r.executeWithRetry(ctx, func() error {
			return r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM health_entries`).Scan(&count)
		})
		if err != nil {
			return nil, err
		}
		return count, nil
	})

	if err != nil {
		return 0, err
	}

	return result.(int), nil
}

// scanEntry scans a health entry row, decoding the stored value JSON
// A corrupt value column degrades to the empty canonical record
func scanEntry(rows *sql.Rows) (*domain.HealthEntry, error) {
	var entry domain.HealthEntry
	var category string
	var valueJSON []byte

	if err := rows.Scan(&entry.ID, &entry.UserID, &category, &valueJSON, &entry.Recommendation, &entry.CreatedAt); err != nil {
		return nil, err
	}

	entry.Category = domain.Category(category)
	if err := json.Unmarshal(valueJSON, &entry.Value); err != nil {
		entry.Value = domain.CategoryValue{}
	}
	return &entry, nil
}

// PeriodRepository implementation

func (r *SQLRepository) CreatePeriod(ctx context.Context, record *domain.PeriodRecord) error {
	_, err := r.cycleCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO period_records (id, user_id, last_period_date, cycle_length, period_duration, symptoms, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
			_, err := r.db.ExecContext(ctx, query, record.ID, record.UserID, record.LastPeriodDate, record.CycleLength, record.PeriodDuration, record.Symptoms, record.CreatedAt)
			return err
		})
	})
	return err
}

func (r *SQLRepository) GetPeriodByID(ctx context.Context, periodID uuid.UUID) (*domain.PeriodRecord, error) {
	result, err := r.cycleCB.Execute(func() (interface{}, error) {
		var record domain.PeriodRecord
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, last_period_date, cycle_length, period_duration, symptoms, created_at
				FROM period_records WHERE id = $1`
			row := r.db.QueryRowContext(ctx, query, periodID)
			return row.Scan(&record.ID, &record.UserID, &record.LastPeriodDate, &record.CycleLength, &record.PeriodDuration, &record.Symptoms, &record.CreatedAt)
		})
		if err != nil {
			return nil, err
		}
		return &record, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return nil, fmt.Errorf("period record not found")
		}
		return nil, err
	}

	return result.(*domain.PeriodRecord), nil
}

func (r *SQLRepository) ListPeriods(ctx context.Context, userID uuid.UUID) ([]*domain.PeriodRecord, error) {
	result, err := r.cycleCB.Execute(func() (interface{}, error) {
		var records []*domain.PeriodRecord
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, last_period_date, cycle_length, period_duration, symptoms, created_at
				FROM period_records
				WHERE user_id = $1
				ORDER BY created_at DESC, id DESC`
			rows, queryErr := r.db.QueryContext(ctx, query, userID)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			records = records[:0]
			for rows.Next() {
				var record domain.PeriodRecord
				if err := rows.Scan(&record.ID, &record.UserID, &record.LastPeriodDate, &record.CycleLength, &record.PeriodDuration, &record.Symptoms, &record.CreatedAt); err != nil {
					return err
				}
				records = append(records, &record)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return records, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.PeriodRecord), nil
}

func (r *SQLRepository) GetLatestPeriod(ctx context.Context, userID uuid.UUID) (*domain.PeriodRecord, error) {
	result, err := r.cycleCB.Execute(func() (interface{}, error) {
		var record domain.PeriodRecord
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, last_period_date, cycle_length, period_duration, symptoms, created_at
				FROM period_records
				WHERE user_id = $1
				ORDER BY created_at DESC, id DESC
				LIMIT 1`
			row := r.db.QueryRowContext(ctx, query, userID)
			return row.Scan(&record.ID, &record.UserID, &record.LastPeriodDate, &record.CycleLength, &record.PeriodDuration, &record.Symptoms, &record.CreatedAt)
		})
		if err != nil {
			return nil, err
		}
		return &record, nil
	})

	if err != nil {
		// No history is a normal state, not an error
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return nil, nil
		}
		return nil, err
	}

	return result.(*domain.PeriodRecord), nil
}

func (r *SQLRepository) UpdatePeriod(ctx context.Context, record *domain.PeriodRecord) error {
	_, err := r.cycleCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `UPDATE period_records
				SET last_period_date = $1, cycle_length = $2, period_duration = $3, symptoms = $4
				WHERE id = $5`
			result, err := r.db.ExecContext(ctx, query, record.LastPeriodDate, record.CycleLength, record.PeriodDuration, record.Symptoms, record.ID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("period record not found")
			}
			return nil
		})
	})
	return err
}

func (r *SQLRepository) DeletePeriod(ctx context.Context, periodID uuid.UUID) error {
	_, err := r.cycleCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			result, err := r.db.ExecContext(ctx, `DELETE FROM period_records WHERE id = $1`, periodID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("period record not found")
			}
			return nil
		})
	})
	return err
}

// ReminderRepository implementation

func (r *SQLRepository) CreateReminder(ctx context.Context, reminder *domain.Reminder) error {
	_, err := r.accountCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO reminders (id, user_id, reminder_type, reminder_time, reminder_email, reminder_phone, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
			_, err := r.db.ExecContext(ctx, query, reminder.ID, reminder.UserID, reminder.Type, reminder.Time, reminder.Email, reminder.Phone, reminder.CreatedAt)
			return err
		})
	})
	return err
}

func (r *SQLRepository) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var reminders []*domain.Reminder
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, reminder_type, reminder_time, reminder_email, reminder_phone, created_at
				FROM reminders
				WHERE user_id = $1
				ORDER BY reminder_time ASC, created_at DESC`
			rows, queryErr := r.db.QueryContext(ctx, query, userID)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			reminders = reminders[:0]
			for rows.Next() {
				var reminder domain.Reminder
				if err := rows.Scan(&reminder.ID, &reminder.UserID, &reminder.Type, &reminder.Time, &reminder.Email, &reminder.Phone, &reminder.CreatedAt); err != nil {
					return err
				}
				reminders = append(reminders, &reminder)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return reminders, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Reminder), nil
}

func (r *SQLRepository) GetReminderByID(ctx context.Context, reminderID uuid.UUID) (*domain.Reminder, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var reminder domain.Reminder
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, reminder_type, reminder_time, reminder_email, reminder_phone, created_at
				FROM reminders WHERE id = $1`
			row := r.db.QueryRowContext(ctx, query, reminderID)
			return row.Scan(&reminder.ID, &reminder.UserID, &reminder.Type, &reminder.Time, &reminder.Email, &reminder.Phone, &reminder.CreatedAt)
		})
		if err != nil {
			return nil, err
		}
		return &reminder, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return nil, fmt.Errorf("reminder not found")
		}
		return nil, err
	}

	return result.(*domain.Reminder), nil
}

func (r *SQLRepository) DeleteReminder(ctx context.Context, reminderID uuid.UUID) error {
	_, err := r.accountCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, reminderID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("reminder not found")
			}
			return nil
		})
	})
	return err
}

// FeedbackRepository implementation

func (r *SQLRepository) CreateFeedback(ctx context.Context, feedback *domain.Feedback) error {
	_, err := r.accountCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO feedback (id, user_id, rating, usefulness, feedback_type, improve, feature, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
			_, err := r.db.ExecContext(ctx, query, feedback.ID, feedback.UserID, feedback.Rating, feedback.Usefulness, feedback.FeedbackType, feedback.Improve, feedback.Feature, feedback.CreatedAt)
			return err
		})
	})
	return err
}

func (r *SQLRepository) ListFeedback(ctx context.Context) ([]*domain.Feedback, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var items []*domain.Feedback
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, user_id, rating, usefulness, feedback_type, improve, feature, created_at
				FROM feedback
				ORDER BY created_at DESC, id DESC`
			rows, queryErr := r.db.QueryContext(ctx, query)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			items = items[:0]
			for rows.Next() {
				var fb domain.Feedback
				if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Rating, &fb.Usefulness, &fb.FeedbackType, &fb.Improve, &fb.Feature, &fb.CreatedAt); err != nil {
					return err
				}
				items = append(items, &fb)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return items, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Feedback), nil
}

func (r *SQLRepository) GetFeedbackStats(ctx context.Context, recentCutoff time.Time) (domain.FeedbackStats, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var stats domain.FeedbackStats
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT COUNT(*),
					COALESCE(AVG(rating), 0),
					COUNT(*) FILTER (WHERE created_at >= $1)
				FROM feedback`
			row := r.db.QueryRowContext(ctx, query, recentCutoff)
			return row.Scan(&stats.Total, &stats.AverageRating, &stats.Last24Hours)
		})
		if err != nil {
			return nil, err
		}
		return stats, nil
	})

	if err != nil {
		return domain.FeedbackStats{}, err
	}

	return result.(domain.FeedbackStats), nil
}

// UserRepository implementation

func (r *SQLRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	_, err := r.accountCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO users (id, name, email, gender, role, is_active, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, email = EXCLUDED.email, gender = EXCLUDED.gender,
					role = EXCLUDED.role, is_active = EXCLUDED.is_active`
			_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Gender, user.Role, user.IsActive, user.CreatedAt)
			return err
		})
	})
	return err
}

func (r *SQLRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var user domain.User
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, name, email, gender, role, is_active, created_at FROM users WHERE id = $1`
			row := r.db.QueryRowContext(ctx, query, userID)
			return row.Scan(&user.ID, &user.Name, &user.Email, &user.Gender, &user.Role, &user.IsActive, &user.CreatedAt)
		})
		if err != nil {
			return nil, err
		}
		return &user, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(strings.ToLower(err.Error()), "no rows") {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	return result.(*domain.User), nil
}

func (r *SQLRepository) ListUsers(ctx context.Context, active *bool) ([]*domain.User, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var users []*domain.User
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT id, name, email, gender, role, is_active, created_at
				FROM users
				WHERE ($1::boolean IS NULL OR is_active = $1)
				ORDER BY created_at DESC`
			rows, queryErr := r.db.QueryContext(ctx, query, active)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			users = users[:0]
			for rows.Next() {
				var user domain.User
				if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Gender, &user.Role, &user.IsActive, &user.CreatedAt); err != nil {
					return err
				}
				users = append(users, &user)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return users, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.User), nil
}

func (r *SQLRepository) CountUsers(ctx context.Context) (int, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var count int
		err := r.executeWithRetry(ctx, func() error {
			return r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
		})
		if err != nil {
			return nil, err
		}
		return count, nil
	})

	if err != nil {
		return 0, err
	}

	return result.(int), nil
}

func (r *SQLRepository) GetUserGrowth(ctx context.Context, since time.Time) ([]domain.UserGrowthPoint, error) {
	result, err := r.accountCB.Execute(func() (interface{}, error) {
		var points []domain.UserGrowthPoint
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT to_char(created_at::date, 'YYYY-MM-DD'), COUNT(*)
				FROM users
				WHERE created_at >= $1
				GROUP BY created_at::date
				ORDER BY created_at::date ASC`
			rows, queryErr := r.db.QueryContext(ctx, query, since)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			points = points[:0]
			for rows.Next() {
				var point domain.UserGrowthPoint
				if err := rows.Scan(&point.Date, &point.Count); err != nil {
					return err
				}
				points = append(points, point)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return points, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]domain.UserGrowthPoint), nil
}

func (r *SQLRepository) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	_, err := r.accountCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			result, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, userID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("user not found")
			}
			return nil
		})
	})
	return err
}

func (r *SQLRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.accountCB.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			tx, err := r.db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			defer tx.Rollback()

			// Dependent rows first, the schema has no FK cascade
			for _, query := range []string{
				`DELETE FROM health_entries WHERE user_id = $1`,
				`DELETE FROM period_records WHERE user_id = $1`,
				`DELETE FROM reminders WHERE user_id = $1`,
				`DELETE FROM feedback WHERE user_id = $1`,
			} {
				if _, err := tx.ExecContext(ctx, query, userID); err != nil {
					return err
				}
			}

			result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("user not found")
			}

			return tx.Commit()
		})
	})
	return err
}

// Ensure SQLRepository implements the interfaces
var _ ports.EntryRepository = (*SQLRepository)(nil)
var _ ports.PeriodRepository = (*SQLRepository)(nil)
var _ ports.ReminderRepository = (*SQLRepository)(nil)
var _ ports.FeedbackRepository = (*SQLRepository)(nil)
var _ ports.UserRepository = (*SQLRepository)(nil)
