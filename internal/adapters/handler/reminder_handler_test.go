package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/adapters/handler"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReminderService is a mock implementation of ports.ReminderService
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) CreateReminder(ctx context.Context, userID uuid.UUID, req ports.CreateReminderRequest) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) DeleteReminder(ctx context.Context, userID uuid.UUID, reminderID uuid.UUID) error {
	args := m.Called(ctx, userID, reminderID)
	return args.Error(0)
}

func TestReminderHandler_CreateReminder_Success(t *testing.T) {
	mockService := new(MockReminderService)
	h := handler.NewReminderHandler(mockService)

	userID := uuid.New()
	reminder := &domain.Reminder{ID: uuid.New(), UserID: userID, Type: "hydration", Time: "08:30"}

	mockService.On("CreateReminder", mock.Anything, userID, mock.MatchedBy(func(req ports.CreateReminderRequest) bool {
		return req.Type == "hydration" && req.Time == "08:30"
	})).Return(reminder, nil)

	body := []byte(`{"reminder_type": "hydration", "reminder_time": "08:30"}`)
	req := authenticatedRequest(http.MethodPost, "/reminders", body, userID, "USER", "")
	rec := httptest.NewRecorder()

	h.CreateReminder(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Reminder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, reminder.ID, got.ID)
	mockService.AssertExpectations(t)
}

func TestReminderHandler_CreateReminder_ValidationError(t *testing.T) {
	mockService := new(MockReminderService)
	h := handler.NewReminderHandler(mockService)

	userID := uuid.New()
	mockService.On("CreateReminder", mock.Anything, userID, mock.Anything).
		Return(nil, assert.AnError)

	req := authenticatedRequest(http.MethodPost, "/reminders", []byte(`{"reminder_type": "hydration", "reminder_time": "25:00"}`), userID, "USER", "")
	rec := httptest.NewRecorder()

	h.CreateReminder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminderHandler_ListReminders(t *testing.T) {
	mockService := new(MockReminderService)
	h := handler.NewReminderHandler(mockService)

	userID := uuid.New()
	mockService.On("ListReminders", mock.Anything, userID).
		Return([]*domain.Reminder{{ID: uuid.New(), UserID: userID, Type: "hydration", Time: "14:05"}}, nil)

	req := authenticatedRequest(http.MethodGet, "/reminders", nil, userID, "USER", "")
	rec := httptest.NewRecorder()

	h.ListReminders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		Time        string `json:"reminder_time"`
		DisplayTime string `json:"display_time"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "14:05", got[0].Time)
	assert.Equal(t, "02:05 PM", got[0].DisplayTime)
}

func TestReminderHandler_DeleteReminder_Success(t *testing.T) {
	mockService := new(MockReminderService)
	h := handler.NewReminderHandler(mockService)

	userID := uuid.New()
	reminderID := uuid.New()
	mockService.On("DeleteReminder", mock.Anything, userID, reminderID).Return(nil)

	req := authenticatedRequest(http.MethodDelete, "/reminders/"+reminderID.String(), nil, userID, "USER", "")
	req.SetPathValue("reminder_id", reminderID.String())
	rec := httptest.NewRecorder()

	h.DeleteReminder(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockService.AssertExpectations(t)
}

func TestReminderHandler_DeleteReminder_NotFound(t *testing.T) {
	mockService := new(MockReminderService)
	h := handler.NewReminderHandler(mockService)

	userID := uuid.New()
	reminderID := uuid.New()
	mockService.On("DeleteReminder", mock.Anything, userID, reminderID).
		Return(errReminderNotFound{})

	req := authenticatedRequest(http.MethodDelete, "/reminders/"+reminderID.String(), nil, userID, "USER", "")
	req.SetPathValue("reminder_id", reminderID.String())
	rec := httptest.NewRecorder()

	h.DeleteReminder(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type errReminderNotFound struct{}

func (errReminderNotFound) Error() string { return "reminder not found" }

func TestReminderHandler_DeleteReminder_InvalidID(t *testing.T) {
	mockService := new(MockReminderService)
	h := handler.NewReminderHandler(mockService)

	req := authenticatedRequest(http.MethodDelete, "/reminders/abc", nil, uuid.New(), "USER", "")
	req.SetPathValue("reminder_id", "abc")
	rec := httptest.NewRecorder()

	h.DeleteReminder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "DeleteReminder")
}
