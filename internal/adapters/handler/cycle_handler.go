package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smarthealthplus/wellness-service/internal/adapters/middleware"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
	"github.com/smarthealthplus/wellness-service/internal/core/services"
)

// CycleHandler handles HTTP requests for menstrual cycle tracking
type CycleHandler struct {
	cycleService ports.CycleService
}

// NewCycleHandler creates a new cycle handler
func NewCycleHandler(cycleService ports.CycleService) *CycleHandler {
	return &CycleHandler{
		cycleService: cycleService,
	}
}

// SavePeriod handles POST /periods
func (h *CycleHandler) SavePeriod(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	gender, _ := middleware.GetUserGender(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	var req ports.SavePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.cycleService.SavePeriod(r.Context(), userID, gender, req)
	if err != nil {
		log.Printf("[%s] Failed to save period record: user_id=%s, error=%v", requestID, userIDStr, err)
		writeCycleError(w, err)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "POST", "/periods", http.StatusCreated, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

// ListPeriods handles GET /periods
func (h *CycleHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	gender, _ := middleware.GetUserGender(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	records, err := h.cycleService.ListPeriods(r.Context(), userID, gender)
	if err != nil {
		log.Printf("[%s] Failed to list period records: user_id=%s, error=%v", requestID, userIDStr, err)
		writeCycleError(w, err)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/periods", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// GetCurrentStatus handles GET /periods/current
// Resolves the current phase and summary from the latest record
func (h *CycleHandler) GetCurrentStatus(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	gender, _ := middleware.GetUserGender(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	status, err := h.cycleService.GetCurrentStatus(r.Context(), userID, gender)
	if err != nil {
		log.Printf("[%s] Failed to resolve cycle status: user_id=%s, error=%v", requestID, userIDStr, err)
		writeCycleError(w, err)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/periods/current", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// GetChart handles GET /periods/chart
func (h *CycleHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	gender, _ := middleware.GetUserGender(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	chart, err := h.cycleService.GetChart(r.Context(), userID, gender)
	if err != nil {
		log.Printf("[%s] Failed to build cycle chart: user_id=%s, error=%v", requestID, userIDStr, err)
		writeCycleError(w, err)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/periods/chart", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chart)
}

// UpdatePeriod handles PUT /periods/{period_id}
func (h *CycleHandler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	gender, _ := middleware.GetUserGender(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	periodID, err := uuid.Parse(r.PathValue("period_id"))
	if err != nil {
		log.Printf("[%s] Invalid period ID: %v", requestID, err)
		http.Error(w, "invalid period ID", http.StatusBadRequest)
		return
	}

	var req ports.SavePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.cycleService.UpdatePeriod(r.Context(), userID, gender, periodID, req)
	if err != nil {
		log.Printf("[%s] Failed to update period record: user_id=%s, period_id=%s, error=%v", requestID, userIDStr, periodID, err)
		writeCycleError(w, err)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "PUT", "/periods/"+periodID.String(), http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// DeletePeriod handles DELETE /periods/{period_id}
func (h *CycleHandler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	gender, _ := middleware.GetUserGender(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	periodID, err := uuid.Parse(r.PathValue("period_id"))
	if err != nil {
		log.Printf("[%s] Invalid period ID: %v", requestID, err)
		http.Error(w, "invalid period ID", http.StatusBadRequest)
		return
	}

	if err := h.cycleService.DeletePeriod(r.Context(), userID, gender, periodID); err != nil {
		log.Printf("[%s] Failed to delete period record: user_id=%s, period_id=%s, error=%v", requestID, userIDStr, periodID, err)
		writeCycleError(w, err)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "DELETE", "/periods/"+periodID.String(), http.StatusNoContent, time.Since(startTime))

	w.WriteHeader(http.StatusNoContent)
}

// writeCycleError maps cycle service errors to HTTP status codes
func writeCycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCycleForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case err.Error() == "period record not found":
		http.Error(w, "period record not found", http.StatusNotFound)
	case strings.HasPrefix(err.Error(), "invalid last_period_date"):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
