package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/smarthealthplus/wellness-service/internal/adapters/middleware"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// FeedbackHandler handles HTTP requests for feedback submission
type FeedbackHandler struct {
	feedbackService ports.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// SubmitFeedback handles POST /feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	var req ports.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(r.Context(), userID, req)
	if err != nil {
		log.Printf("[%s] Failed to submit feedback: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "POST", "/feedback", http.StatusCreated, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(feedback)
}
