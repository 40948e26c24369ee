package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// AdminService implements the administrative operations
// Role enforcement happens in the auth middleware; this layer only aggregates
type AdminService struct {
	userRepo     ports.UserRepository
	entryRepo    ports.EntryRepository
	feedbackRepo ports.FeedbackRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo ports.UserRepository,
	entryRepo ports.EntryRepository,
	feedbackRepo ports.FeedbackRepository,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		entryRepo:    entryRepo,
		feedbackRepo: feedbackRepo,
	}
}

// GetOverview returns platform-wide counters for the admin dashboard
// Includes the 7-day registration trend and feedback aggregates
func (s *AdminService) GetOverview(ctx context.Context) (ports.AdminOverview, error) {
	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return ports.AdminOverview{}, fmt.Errorf("failed to count users: %w", err)
	}

	entries, err := s.entryRepo.CountEntries(ctx)
	if err != nil {
		return ports.AdminOverview{}, fmt.Errorf("failed to count entries: %w", err)
	}

	now := time.Now()
	stats, err := s.feedbackRepo.GetFeedbackStats(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return ports.AdminOverview{}, fmt.Errorf("failed to get feedback stats: %w", err)
	}

	growth, err := s.userRepo.GetUserGrowth(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return ports.AdminOverview{}, fmt.Errorf("failed to get user growth: %w", err)
	}

	return ports.AdminOverview{
		TotalUsers:      users,
		TotalEntries:    entries,
		TotalFeedback:   stats.Total,
		AverageRating:   stats.AverageRating,
		FeedbackLast24h: stats.Last24Hours,
		UserGrowth:      growth,
	}, nil
}

// ListUsers retrieves user profiles, optionally filtered by active state
func (s *AdminService) ListUsers(ctx context.Context, status string) ([]*domain.User, error) {
	var active *bool
	switch status {
	case "":
	case "active":
		v := true
		active = &v
	case "inactive":
		v := false
		active = &v
	default:
		return nil, fmt.Errorf("invalid status filter: must be active or inactive")
	}

	users, err := s.userRepo.ListUsers(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListFeedback retrieves all submitted feedback, newest first
func (s *AdminService) ListFeedback(ctx context.Context) ([]*domain.Feedback, error) {
	feedback, err := s.feedbackRepo.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}

// DeactivateUser flips a user's profile to inactive
// The identity service keeps issuing tokens until it receives the
// corresponding provisioning update; data stays in place
func (s *AdminService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetUserActive(ctx, userID, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

// DeleteUser removes a user and all of their data
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Ensure AdminService implements the interface
var _ ports.AdminService = (*AdminService)(nil)
