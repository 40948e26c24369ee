package domain_test

import (
	"testing"
	"time"

	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSummary_Empty(t *testing.T) {
	summary := domain.CalculateSummary(nil)

	assert.Empty(t, summary.Dates)
	assert.Empty(t, summary.SummaryText)
}

func TestCalculateSummary_SingleDay(t *testing.T) {
	days := []domain.DaySamples{
		{
			Day:            day(2024, time.January, 5),
			Sleep:          []float64{7, 8},
			Hydration:      []float64{1.5, 0.5},
			Nutrition:      []float64{4},
			FitnessMinutes: []int{30, 10},
			FitnessSteps:   []int{5000, 1000},
			Stress:         []float64{2},
			Mood:           []float64{4},
		},
	}

	summary := domain.CalculateSummary(days)

	require.Equal(t, []string{"05 Jan"}, summary.Dates)
	assert.Equal(t, []float64{7.5}, summary.Sleep)
	assert.Equal(t, []float64{2}, summary.Hydration)
	assert.Equal(t, []float64{4}, summary.Nutrition)
	assert.Equal(t, []int{40}, summary.FitnessMinutes)
	assert.Equal(t, []int{6000}, summary.FitnessSteps)
	assert.Equal(t, []float64{2}, summary.Stress)
	assert.Equal(t, []float64{4}, summary.Mood)

	// (7.5*10 + 2*5 + 4*10 + 40*0.5 + (5-2)*10 + 4*10) / 6 = 215/6 = 35.833 -> 35.8
	require.Len(t, summary.HealthScore, 1)
	assert.InDelta(t, 35.8, summary.HealthScore[0], 0.0001)
}

func TestCalculateSummary_DaysSortedChronologically(t *testing.T) {
	days := []domain.DaySamples{
		{Day: day(2024, time.January, 10), Sleep: []float64{6}},
		{Day: day(2024, time.January, 8), Sleep: []float64{8}},
		{Day: day(2024, time.January, 9), Sleep: []float64{7}},
	}

	summary := domain.CalculateSummary(days)

	assert.Equal(t, []string{"08 Jan", "09 Jan", "10 Jan"}, summary.Dates)
	assert.Equal(t, []float64{8, 7, 6}, summary.Sleep)
}

func TestCalculateSummary_AbsentCategoriesDefaultToZero(t *testing.T) {
	days := []domain.DaySamples{
		{Day: day(2024, time.January, 5), FitnessMinutes: []int{20}, FitnessSteps: []int{3000}},
	}

	summary := domain.CalculateSummary(days)

	assert.Equal(t, []float64{0}, summary.Sleep)
	assert.Equal(t, []float64{0}, summary.Hydration)
	assert.Equal(t, []float64{0}, summary.Stress)
	assert.Equal(t, []int{20}, summary.FitnessMinutes)

	// (0 + 0 + 0 + 20*0.5 + 50 + 0) / 6 = 60/6 = 10
	assert.Equal(t, []float64{10}, summary.HealthScore)
}

func TestCalculateSummary_NarrativeText(t *testing.T) {
	days := []domain.DaySamples{
		{
			Day:            day(2024, time.January, 5),
			Sleep:          []float64{7},
			Hydration:      []float64{2},
			Nutrition:      []float64{4},
			FitnessMinutes: []int{30},
			FitnessSteps:   []int{6000},
			Stress:         []float64{2},
			Mood:           []float64{4},
		},
		{
			Day:            day(2024, time.January, 6),
			Sleep:          []float64{8},
			Hydration:      []float64{1},
			Nutrition:      []float64{3},
			FitnessMinutes: []int{20},
			FitnessSteps:   []int{4000},
			Stress:         []float64{3},
			Mood:           []float64{5},
		},
	}

	summary := domain.CalculateSummary(days)

	assert.Equal(t,
		"Over this period, your average sleep was 7.5 hrs/day. "+
			"Hydration totaled 3.0 liters. "+
			"Nutrition quality averaged 3.5. "+
			"Fitness included 50 mins and 10000 steps. "+
			"Stress averaged 2.5, mood stability was 4.5. "+
			"Overall health score indicates a trend of improvement. "+
			"Keep tracking to maintain and enhance your wellness!",
		summary.SummaryText)
}
