package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smarthealthplus/wellness-service/internal/adapters/middleware"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
)

// AdminHandler handles the administrative endpoints
// Routes are registered behind RequireRole("ADMIN")
type AdminHandler struct {
	adminService ports.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GetOverview handles GET /admin/overview
func (h *AdminHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userIDStr, _ := middleware.GetUserID(r.Context())

	overview, err := h.adminService.GetOverview(r.Context())
	if err != nil {
		log.Printf("[%s] Failed to build admin overview: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, true, "GET", "/admin/overview", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}

// ListUsers handles GET /admin/users
// Optional ?status=active|inactive filter
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userIDStr, _ := middleware.GetUserID(r.Context())
	status := r.URL.Query().Get("status")

	users, err := h.adminService.ListUsers(r.Context(), status)
	if err != nil {
		log.Printf("[%s] Failed to list users: user_id=%s, error=%v", requestID, userIDStr, err)
		if strings.Contains(err.Error(), "invalid status filter") {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, true, "GET", "/admin/users", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// ListFeedback handles GET /admin/feedback
func (h *AdminHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userIDStr, _ := middleware.GetUserID(r.Context())

	feedback, err := h.adminService.ListFeedback(r.Context())
	if err != nil {
		log.Printf("[%s] Failed to list feedback: user_id=%s, error=%v", requestID, userIDStr, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logStructured(requestID, userIDStr, true, "GET", "/admin/feedback", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feedback)
}

// DeactivateUser handles PUT /admin/users/{user_id}/deactivate
func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userIDStr, _ := middleware.GetUserID(r.Context())

	targetID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeactivateUser(r.Context(), targetID); err != nil {
		log.Printf("[%s] Failed to deactivate user: admin_id=%s, target_id=%s, error=%v", requestID, userIDStr, targetID, err)
		writeAdminUserError(w, err)
		return
	}

	logStructured(requestID, userIDStr, true, "PUT", "/admin/users/"+targetID.String()+"/deactivate", http.StatusOK, time.Since(startTime))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deactivated"})
}

// DeleteUser handles DELETE /admin/users/{user_id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()

	userIDStr, _ := middleware.GetUserID(r.Context())

	targetID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), targetID); err != nil {
		log.Printf("[%s] Failed to delete user: admin_id=%s, target_id=%s, error=%v", requestID, userIDStr, targetID, err)
		writeAdminUserError(w, err)
		return
	}

	logStructured(requestID, userIDStr, true, "DELETE", "/admin/users/"+targetID.String(), http.StatusNoContent, time.Since(startTime))

	w.WriteHeader(http.StatusNoContent)
}

// writeAdminUserError maps admin user-management errors to HTTP status codes
func writeAdminUserError(w http.ResponseWriter, err error) {
	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
