package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// SubmitFeedbackRequest is imported from ports package
type SubmitFeedbackRequest = ports.SubmitFeedbackRequest

// FeedbackService implements business logic for feedback submission
type FeedbackService struct {
	feedbackRepo ports.FeedbackRepository
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedbackRepo ports.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// SubmitFeedback stores a user review
func (s *FeedbackService) SubmitFeedback(
	ctx context.Context,
	userID uuid.UUID,
	req SubmitFeedbackRequest,
) (*domain.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	feedback := &domain.Feedback{
		ID:           uuid.New(),
		UserID:       userID,
		Rating:       req.Rating,
		Usefulness:   strings.TrimSpace(req.Usefulness),
		FeedbackType: strings.TrimSpace(req.FeedbackType),
		Improve:      strings.TrimSpace(req.Improve),
		Feature:      strings.TrimSpace(req.Feature),
		CreatedAt:    time.Now(),
	}

	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return feedback, nil
}
