package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smarthealthplus/wellness-service/internal/adapters/middleware"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// ReminderHandler handles HTTP requests for reminder scheduling
type ReminderHandler struct {
	reminderService ports.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService ports.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

// CreateReminder handles POST /reminders
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	var req ports.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[%s] Failed to decode request: %v", requestID, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reminder, err := h.reminderService.CreateReminder(r.Context(), userID, req)
	if err != nil {
		log.Printf("[%s] Failed to create reminder: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "POST", "/reminders", http.StatusCreated, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reminder)
}

// reminderResponse adds the 12-hour display time to the stored reminder
type reminderResponse struct {
	*domain.Reminder
	DisplayTime string `json:"display_time"`
}

// ListReminders handles GET /reminders
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	reminders, err := h.reminderService.ListReminders(r.Context(), userID)
	if err != nil {
		log.Printf("[%s] Failed to list reminders: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]reminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		response = append(response, reminderResponse{
			Reminder:    reminder,
			DisplayTime: reminder.DisplayTime(),
		})
	}

	logStructured(requestID, userIDStr, isAdmin, "GET", "/reminders", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteReminder handles DELETE /reminders/{reminder_id}
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userID, userIDStr, ok := requestUser(w, r, requestID)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	reminderID, err := uuid.Parse(r.PathValue("reminder_id"))
	if err != nil {
		log.Printf("[%s] Invalid reminder ID: %v", requestID, err)
		http.Error(w, "invalid reminder ID", http.StatusBadRequest)
		return
	}

	if err := h.reminderService.DeleteReminder(r.Context(), userID, reminderID); err != nil {
		log.Printf("[%s] Failed to delete reminder: user_id=%s, reminder_id=%s, error=%v", requestID, userIDStr, reminderID, err)
		if err.Error() == "reminder not found" {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, isAdmin, "DELETE", "/reminders/"+reminderID.String(), http.StatusNoContent, time.Since(startTime))

	w.WriteHeader(http.StatusNoContent)
}
