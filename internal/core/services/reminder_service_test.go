package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/smarthealthplus/wellness-service/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReminderRepository is a mock implementation of ports.ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) CreateReminder(ctx context.Context, reminder *domain.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) GetReminderByID(ctx context.Context, reminderID uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) DeleteReminder(ctx context.Context, reminderID uuid.UUID) error {
	args := m.Called(ctx, reminderID)
	return args.Error(0)
}

// MockReminderDispatcher is a mock implementation of ports.ReminderDispatcher
type MockReminderDispatcher struct {
	mock.Mock
	published chan *domain.Reminder
}

func newMockDispatcher() *MockReminderDispatcher {
	return &MockReminderDispatcher{published: make(chan *domain.Reminder, 1)}
}

func (m *MockReminderDispatcher) PublishReminder(ctx context.Context, reminder *domain.Reminder) error {
	args := m.Called(ctx, reminder)
	m.published <- reminder
	return args.Error(0)
}

func awaitPublish(t *testing.T, dispatcher *MockReminderDispatcher) *domain.Reminder {
	t.Helper()
	select {
	case reminder := <-dispatcher.published:
		return reminder
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch event was never published")
		return nil
	}
}

func TestReminderService_CreateReminder_Success(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	mockDispatcher := newMockDispatcher()
	reminderService := services.NewReminderService(mockRepo, mockDispatcher)

	userID := uuid.New()
	mockRepo.On("CreateReminder", mock.Anything, mock.MatchedBy(func(r *domain.Reminder) bool {
		return r.UserID == userID && r.Type == "hydration" && r.Time == "08:30"
	})).Return(nil)
	mockDispatcher.On("PublishReminder", mock.Anything, mock.Anything).Return(nil)

	reminder, err := reminderService.CreateReminder(context.Background(), userID, services.CreateReminderRequest{
		Type:  " hydration ",
		Time:  "08:30",
		Email: "user@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "hydration", reminder.Type)
	assert.Equal(t, "user@example.com", reminder.Email)

	published := awaitPublish(t, mockDispatcher)
	assert.Equal(t, reminder.ID, published.ID)
	mockRepo.AssertExpectations(t)
}

func TestReminderService_CreateReminder_PublishFailureDoesNotSurface(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	mockDispatcher := newMockDispatcher()
	reminderService := services.NewReminderService(mockRepo, mockDispatcher)

	mockRepo.On("CreateReminder", mock.Anything, mock.Anything).Return(nil)
	mockDispatcher.On("PublishReminder", mock.Anything, mock.Anything).
		Return(assert.AnError)

	reminder, err := reminderService.CreateReminder(context.Background(), uuid.New(), services.CreateReminderRequest{
		Type: "sleep",
		Time: "22:00",
	})

	require.NoError(t, err)
	assert.NotNil(t, reminder)
	awaitPublish(t, mockDispatcher)
}

func TestReminderService_CreateReminder_Validation(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	mockDispatcher := newMockDispatcher()
	reminderService := services.NewReminderService(mockRepo, mockDispatcher)

	ctx := context.Background()
	userID := uuid.New()

	_, err := reminderService.CreateReminder(ctx, userID, services.CreateReminderRequest{Time: "08:30"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder_type is required")

	badTimes := []string{"", "24:00", "8:30", "08:60", "0830", "08:30:00", "noon"}
	for _, badTime := range badTimes {
		_, err := reminderService.CreateReminder(ctx, userID, services.CreateReminderRequest{
			Type: "hydration",
			Time: badTime,
		})
		require.Error(t, err, "time=%q", badTime)
		assert.Contains(t, err.Error(), "reminder_time must be HH:MM")
	}

	mockRepo.AssertNotCalled(t, "CreateReminder")
}

func TestReminderService_CreateReminder_BoundaryTimes(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	mockDispatcher := newMockDispatcher()
	reminderService := services.NewReminderService(mockRepo, mockDispatcher)

	mockRepo.On("CreateReminder", mock.Anything, mock.Anything).Return(nil)
	mockDispatcher.On("PublishReminder", mock.Anything, mock.Anything).Return(nil)

	for _, goodTime := range []string{"00:00", "23:59", "12:05"} {
		_, err := reminderService.CreateReminder(context.Background(), uuid.New(), services.CreateReminderRequest{
			Type: "mood",
			Time: goodTime,
		})
		assert.NoError(t, err, "time=%q", goodTime)
		awaitPublish(t, mockDispatcher)
	}
}

func TestReminderService_ListReminders(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	reminderService := services.NewReminderService(mockRepo, newMockDispatcher())

	userID := uuid.New()
	expected := []*domain.Reminder{{ID: uuid.New(), UserID: userID, Type: "sleep", Time: "22:00"}}
	mockRepo.On("ListReminders", mock.Anything, userID).Return(expected, nil)

	reminders, err := reminderService.ListReminders(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, expected, reminders)
}

func TestReminderService_DeleteReminder_Success(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	reminderService := services.NewReminderService(mockRepo, newMockDispatcher())

	userID := uuid.New()
	reminderID := uuid.New()

	mockRepo.On("GetReminderByID", mock.Anything, reminderID).
		Return(&domain.Reminder{ID: reminderID, UserID: userID}, nil)
	mockRepo.On("DeleteReminder", mock.Anything, reminderID).Return(nil)

	err := reminderService.DeleteReminder(context.Background(), userID, reminderID)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReminderService_DeleteReminder_ForeignReminderLooksMissing(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	reminderService := services.NewReminderService(mockRepo, newMockDispatcher())

	reminderID := uuid.New()
	mockRepo.On("GetReminderByID", mock.Anything, reminderID).
		Return(&domain.Reminder{ID: reminderID, UserID: uuid.New()}, nil)

	err := reminderService.DeleteReminder(context.Background(), uuid.New(), reminderID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder not found")
	mockRepo.AssertNotCalled(t, "DeleteReminder")
}

func TestReminderService_DeleteReminder_Missing(t *testing.T) {
	mockRepo := new(MockReminderRepository)
	reminderService := services.NewReminderService(mockRepo, newMockDispatcher())

	reminderID := uuid.New()
	mockRepo.On("GetReminderByID", mock.Anything, reminderID).Return(nil, sql.ErrNoRows)

	err := reminderService.DeleteReminder(context.Background(), uuid.New(), reminderID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder not found")
}
