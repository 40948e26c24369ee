package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smarthealthplus/wellness-service/internal/adapters/middleware"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// WellnessHandler handles HTTP requests for health entry operations
type WellnessHandler struct {
	healthService ports.HealthService
}

// NewWellnessHandler creates a new wellness handler
func NewWellnessHandler(healthService ports.HealthService) *WellnessHandler {
	return &WellnessHandler{
		healthService: healthService,
	}
}

// SaveHealthDataResponse is the response body for a saved entry
type SaveHealthDataResponse struct {
	Status         string `json:"status"`
	Recommendation string `json:"recommendation"`
}

// SaveHealthData handles POST /health-data
// Stores the entry and returns the display recommendation
func (h *WellnessHandler) SaveHealthData(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	var req ports.SaveHealthDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	_, recommendation, err := h.healthService.SaveHealthData(r.Context(), userID, req)
	if err != nil {
		log.Printf("[%s] Failed to save health data: user_id=%s, category=%s, error=%v", requestID, userIDStr, req.Category, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	SuggestionsGeneratedTotal.WithLabelValues(string(req.Category)).Inc()
	logStructured(requestID, userIDStr, isAdmin, "POST", "/health-data", http.StatusCreated, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveHealthDataResponse{
		Status:         "success",
		Recommendation: recommendation,
	})
}

// GetTodayScore handles GET /health-data/score
func (h *WellnessHandler) GetTodayScore(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	score, err := h.healthService.GetTodayScore(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] Failed to compute score: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	HealthScoresComputedTotal.WithLabelValues(score.Tier).Inc()
	logStructured(requestID, userIDStr, isAdmin, "GET", "/health-data/score", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(score)
}

// GetGoal handles GET /health-data/goal
func (h *WellnessHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	goal, err := h.healthService.GetGoal(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] Failed to compute goal: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/health-data/goal", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

// GetRecommendation handles GET /health-data/recommendation
// Builds the consolidated advisory from the latest entry per category
func (h *WellnessHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	advisory, err := h.healthService.GetLatestRecommendation(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] Failed to build advisory: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/health-data/recommendation", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(advisory)
}

// GetSummary handles GET /health-data/summary
// Returns the weekly and monthly trend series
func (h *WellnessHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	summary, err := h.healthService.GetSummary(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] Failed to build summary: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/health-data/summary", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// requestUser extracts and parses the authenticated user ID from context
// Writes the error response itself; callers return immediately on !ok
func requestUser(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, string, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		log.Printf("[%s] Failed to get user ID from context", requestID)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, "", false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		log.Printf("[%s] Invalid user ID: %v", requestID, err)
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return uuid.Nil, "", false
	}

	return userID, userIDStr, true
}
