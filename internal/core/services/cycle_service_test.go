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

// MockPeriodRepository is a mock implementation of ports.PeriodRepository
type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) CreatePeriod(ctx context.Context, record *domain.PeriodRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPeriodRepository) GetPeriodByID(ctx context.Context, periodID uuid.UUID) (*domain.PeriodRecord, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodRecord), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, userID uuid.UUID) ([]*domain.PeriodRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PeriodRecord), args.Error(1)
}

func (m *MockPeriodRepository) GetLatestPeriod(ctx context.Context, userID uuid.UUID) (*domain.PeriodRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodRecord), args.Error(1)
}

func (m *MockPeriodRepository) UpdatePeriod(ctx context.Context, record *domain.PeriodRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPeriodRepository) DeletePeriod(ctx context.Context, periodID uuid.UUID) error {
	args := m.Called(ctx, periodID)
	return args.Error(0)
}

func intPtr(n int) *int { return &n }

func TestCycleService_SavePeriod_Success(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	userID := uuid.New()
	mockRepo.On("CreatePeriod", mock.Anything, mock.MatchedBy(func(r *domain.PeriodRecord) bool {
		return r.UserID == userID && r.CycleLength == 30 && r.PeriodDuration == 6 && r.Symptoms == "cramps"
	})).Return(nil)

	record, err := cycleService.SavePeriod(context.Background(), userID, "female", services.SavePeriodRequest{
		LastPeriodDate: "2024-01-10",
		CycleLength:    intPtr(30),
		PeriodDuration: intPtr(6),
		Symptoms:       "  cramps  ",
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), record.LastPeriodDate)
	mockRepo.AssertExpectations(t)
}

func TestCycleService_SavePeriod_DefaultsApplied(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	mockRepo.On("CreatePeriod", mock.Anything, mock.Anything).Return(nil)

	record, err := cycleService.SavePeriod(context.Background(), uuid.New(), "Female", services.SavePeriodRequest{
		LastPeriodDate: "2024-01-10",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCycleLength, record.CycleLength)
	assert.Equal(t, domain.DefaultPeriodDuration, record.PeriodDuration)
}

func TestCycleService_SavePeriod_NonPositiveValuesFallBackToDefaults(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	mockRepo.On("CreatePeriod", mock.Anything, mock.Anything).Return(nil)

	record, err := cycleService.SavePeriod(context.Background(), uuid.New(), "female", services.SavePeriodRequest{
		LastPeriodDate: "2024-01-10",
		CycleLength:    intPtr(0),
		PeriodDuration: intPtr(-3),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCycleLength, record.CycleLength)
	assert.Equal(t, domain.DefaultPeriodDuration, record.PeriodDuration)
}

func TestCycleService_SavePeriod_InvalidDate(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	_, err := cycleService.SavePeriod(context.Background(), uuid.New(), "female", services.SavePeriodRequest{
		LastPeriodDate: "10-01-2024",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid last_period_date")
	mockRepo.AssertNotCalled(t, "CreatePeriod")
}

func TestCycleService_GenderGate(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	ctx := context.Background()
	userID := uuid.New()

	for _, gender := range []string{"male", "", "other", "MALE"} {
		_, err := cycleService.SavePeriod(ctx, userID, gender, services.SavePeriodRequest{LastPeriodDate: "2024-01-10"})
		assert.ErrorIs(t, err, services.ErrCycleForbidden, "gender=%q", gender)

		_, err = cycleService.ListPeriods(ctx, userID, gender)
		assert.ErrorIs(t, err, services.ErrCycleForbidden)

		_, err = cycleService.GetCurrentStatus(ctx, userID, gender)
		assert.ErrorIs(t, err, services.ErrCycleForbidden)

		_, err = cycleService.GetChart(ctx, userID, gender)
		assert.ErrorIs(t, err, services.ErrCycleForbidden)

		err = cycleService.DeletePeriod(ctx, userID, gender, uuid.New())
		assert.ErrorIs(t, err, services.ErrCycleForbidden)
	}

	mockRepo.AssertNotCalled(t, "CreatePeriod")
	mockRepo.AssertNotCalled(t, "ListPeriods")
}

func TestCycleService_GenderGateCaseInsensitive(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	mockRepo.On("ListPeriods", mock.Anything, mock.Anything).Return([]*domain.PeriodRecord{}, nil)

	_, err := cycleService.ListPeriods(context.Background(), uuid.New(), " FEMALE ")
	assert.NoError(t, err)
}

func TestCycleService_GetCurrentStatus_NoRecords(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	mockRepo.On("GetLatestPeriod", mock.Anything, mock.Anything).Return(nil, nil)

	status, err := cycleService.GetCurrentStatus(context.Background(), uuid.New(), "female")

	// no history renders as an empty status, not an error
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseUnknown, status.Phase)
	assert.Nil(t, status.Record)
	assert.Empty(t, status.HealthSummary)
	assert.True(t, status.NextPeriod.IsZero())
}

func TestCycleService_GetCurrentStatus_Success(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	userID := uuid.New()
	record := &domain.PeriodRecord{
		ID:             uuid.New(),
		UserID:         userID,
		LastPeriodDate: time.Now().AddDate(0, 0, -2),
		CycleLength:    28,
		PeriodDuration: 5,
		Symptoms:       "cramps",
	}

	mockRepo.On("GetLatestPeriod", mock.Anything, userID).Return(record, nil)

	status, err := cycleService.GetCurrentStatus(context.Background(), userID, "female")

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseMenstrual, status.Phase)
	assert.Contains(t, status.HealthSummary, "Cycle Length: 28 days")
	assert.Contains(t, status.HealthSummary, "Focus on rest, hydration, iron-rich foods")
	assert.Equal(t, record, status.Record)
}

func TestCycleService_GetChart(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	userID := uuid.New()
	mockRepo.On("ListPeriods", mock.Anything, userID).Return([]*domain.PeriodRecord{
		{LastPeriodDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), CycleLength: 28, PeriodDuration: 5, Symptoms: "cramps"},
	}, nil)

	chart, err := cycleService.GetChart(context.Background(), userID, "female")

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, chart.Dates)
	assert.Equal(t, map[string]int{"cramps": 1}, chart.SymptomCounts)
}

func TestCycleService_UpdatePeriod_PatchesOnlyProvidedFields(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	userID := uuid.New()
	periodID := uuid.New()
	existing := &domain.PeriodRecord{
		ID:             periodID,
		UserID:         userID,
		LastPeriodDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		CycleLength:    28,
		PeriodDuration: 5,
		Symptoms:       "cramps",
	}

	mockRepo.On("GetPeriodByID", mock.Anything, periodID).Return(existing, nil)
	mockRepo.On("UpdatePeriod", mock.Anything, mock.MatchedBy(func(r *domain.PeriodRecord) bool {
		return r.LastPeriodDate.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) &&
			r.CycleLength == 32 &&
			r.PeriodDuration == 5 &&
			r.Symptoms == "fatigue"
	})).Return(nil)

	record, err := cycleService.UpdatePeriod(context.Background(), userID, "female", periodID, services.SavePeriodRequest{
		CycleLength: intPtr(32),
		Symptoms:    "fatigue",
	})

	require.NoError(t, err)
	assert.Equal(t, 32, record.CycleLength)
	mockRepo.AssertExpectations(t)
}

func TestCycleService_UpdatePeriod_ForeignRecordLooksMissing(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	periodID := uuid.New()
	foreign := &domain.PeriodRecord{ID: periodID, UserID: uuid.New()}

	mockRepo.On("GetPeriodByID", mock.Anything, periodID).Return(foreign, nil)

	_, err := cycleService.UpdatePeriod(context.Background(), uuid.New(), "female", periodID, services.SavePeriodRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "period record not found")
	mockRepo.AssertNotCalled(t, "UpdatePeriod")
}

func TestCycleService_DeletePeriod_Success(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	userID := uuid.New()
	periodID := uuid.New()

	mockRepo.On("GetPeriodByID", mock.Anything, periodID).
		Return(&domain.PeriodRecord{ID: periodID, UserID: userID}, nil)
	mockRepo.On("DeletePeriod", mock.Anything, periodID).Return(nil)

	err := cycleService.DeletePeriod(context.Background(), userID, "female", periodID)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCycleService_DeletePeriod_MissingRecord(t *testing.T) {
	mockRepo := new(MockPeriodRepository)
	cycleService := services.NewCycleService(mockRepo)

	periodID := uuid.New()
	mockRepo.On("GetPeriodByID", mock.Anything, periodID).Return(nil, sql.ErrNoRows)

	err := cycleService.DeletePeriod(context.Background(), uuid.New(), "female", periodID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "period record not found")
	mockRepo.AssertNotCalled(t, "DeletePeriod")
}
