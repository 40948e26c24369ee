package domain_test

import (
	"testing"

	"github.com/smarthealthplus/wellness-service/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func perfectDay(t *testing.T) map[domain.Category]domain.CategoryValue {
	t.Helper()
	return map[domain.Category]domain.CategoryValue{
		domain.CategorySleep:     normalized(t, domain.CategorySleep, `{"hours": 8, "quality": "good"}`),
		domain.CategoryHydration: normalized(t, domain.CategoryHydration, `{"level": "high"}`),
		domain.CategoryNutrition: normalized(t, domain.CategoryNutrition, `{"quality": "good"}`),
		domain.CategoryFitness:   normalized(t, domain.CategoryFitness, `{"minutes": 40, "steps": 8000}`),
		domain.CategoryStress:    normalized(t, domain.CategoryStress, `{"level": "low"}`),
		domain.CategoryMood:      normalized(t, domain.CategoryMood, `{"mood": "happy"}`),
	}
}

func TestCalculateDailyScore_NoEntries(t *testing.T) {
	result := domain.CalculateDailyScore(nil)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, domain.TierNoData, result.Tier)
	assert.Equal(t, "Please add today’s health data.", result.Tips)
}

func TestCalculateDailyScore_PerfectDay(t *testing.T) {
	result := domain.CalculateDailyScore(perfectDay(t))

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, domain.TierExcellent, result.Tier)
	assert.Equal(t, "", result.Tips)
}

func TestCalculateDailyScore_SleepOnlyVeryLow(t *testing.T) {
	latest := map[domain.Category]domain.CategoryValue{
		domain.CategorySleep: normalized(t, domain.CategorySleep, `{"hours": 5}`),
	}

	result := domain.CalculateDailyScore(latest)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, domain.TierNeedsImprovement, result.Tier)
	assert.Equal(t,
		"Sleep is too low. Add hydration data. Add nutrition data. "+
			"Add fitness data. Add stress data. Add mood data.",
		result.Tips)
}

func TestCalculateDailyScore_PartialCredits(t *testing.T) {
	latest := perfectDay(t)
	latest[domain.CategorySleep] = normalized(t, domain.CategorySleep, `{"hours": 6, "quality": "poor"}`)
	latest[domain.CategoryHydration] = normalized(t, domain.CategoryHydration, `{"level": "moderate"}`)
	latest[domain.CategoryNutrition] = normalized(t, domain.CategoryNutrition, `{"quality": "average"}`)

	// 0.6 + 0.6 + 0.4 + 1 + 1 + 1 = 4.6 modules -> round(76.67) = 77
	result := domain.CalculateDailyScore(latest)

	assert.Equal(t, 77, result.Score)
	assert.Equal(t, domain.TierExcellent, result.Tier)
	assert.Equal(t,
		"Increase sleep duration. Drink more water. Improve nutrition quality.",
		result.Tips)
}

func TestCalculateDailyScore_SleepFullCreditNeedsGoodQuality(t *testing.T) {
	latest := perfectDay(t)
	latest[domain.CategorySleep] = normalized(t, domain.CategorySleep, `{"hours": 8, "quality": "average"}`)

	result := domain.CalculateDailyScore(latest)

	// sleep drops to partial credit: 5.6 modules -> round(93.33) = 93
	assert.Equal(t, 93, result.Score)
	assert.Equal(t, "Increase sleep duration.", result.Tips)
}

func TestCalculateDailyScore_FractionalHoursTruncate(t *testing.T) {
	latest := map[domain.Category]domain.CategoryValue{
		domain.CategorySleep: normalized(t, domain.CategorySleep, `{"hours": 6.9, "quality": "good"}`),
	}

	result := domain.CalculateDailyScore(latest)

	// 6.9 truncates to 6 whole hours, short of the 7-8 full-credit band
	assert.Contains(t, result.Tips, "Increase sleep duration.")
}

func TestCalculateDailyScore_FitnessEitherThresholdEarnsPartial(t *testing.T) {
	byMinutes := map[domain.Category]domain.CategoryValue{
		domain.CategoryFitness: normalized(t, domain.CategoryFitness, `{"minutes": 15, "steps": 100}`),
	}
	bySteps := map[domain.Category]domain.CategoryValue{
		domain.CategoryFitness: normalized(t, domain.CategoryFitness, `{"minutes": 0, "steps": 4000}`),
	}
	neither := map[domain.Category]domain.CategoryValue{
		domain.CategoryFitness: normalized(t, domain.CategoryFitness, `{"minutes": 14, "steps": 3999}`),
	}

	assert.Contains(t, domain.CalculateDailyScore(byMinutes).Tips, "Increase activity.")
	assert.Contains(t, domain.CalculateDailyScore(bySteps).Tips, "Increase activity.")
	assert.Contains(t, domain.CalculateDailyScore(neither).Tips, "Very low physical activity.")
}

func TestCalculateDailyScore_UnspecifiedCategoricalLevelsScoreZeroOrPartial(t *testing.T) {
	latest := map[domain.Category]domain.CategoryValue{
		domain.CategoryHydration: normalized(t, domain.CategoryHydration, `{}`),
		domain.CategoryStress:    normalized(t, domain.CategoryStress, `{}`),
		domain.CategoryMood:      normalized(t, domain.CategoryMood, `{}`),
	}

	result := domain.CalculateDailyScore(latest)

	assert.Contains(t, result.Tips, "Very low hydration.")
	assert.Contains(t, result.Tips, "High stress detected.")
	assert.Contains(t, result.Tips, "Mood seems low.")
}

func TestTierBoundaries(t *testing.T) {
	// hydration full + mood partial: 1.6 modules -> round(26.67) = 27
	needsImprovement := domain.CalculateDailyScore(map[domain.Category]domain.CategoryValue{
		domain.CategoryHydration: normalized(t, domain.CategoryHydration, `{"level": "high"}`),
		domain.CategoryMood:      normalized(t, domain.CategoryMood, `{"mood": "calm"}`),
	})
	assert.Equal(t, 27, needsImprovement.Score)
	assert.Equal(t, domain.TierNeedsImprovement, needsImprovement.Tier)

	// three full-credit modules: 3.0 -> 50
	average := domain.CalculateDailyScore(map[domain.Category]domain.CategoryValue{
		domain.CategoryHydration: normalized(t, domain.CategoryHydration, `{"level": "high"}`),
		domain.CategoryStress:    normalized(t, domain.CategoryStress, `{"level": "low"}`),
		domain.CategoryMood:      normalized(t, domain.CategoryMood, `{"mood": "happy"}`),
	})
	assert.Equal(t, 50, average.Score)
	assert.Equal(t, domain.TierAverage, average.Tier)
}

func TestGenerateGoalTip(t *testing.T) {
	incomplete := domain.GenerateGoalTip(95, 4)
	assert.Contains(t, incomplete, "limited health data")

	low := domain.GenerateGoalTip(25, 6)
	assert.Contains(t, low, "improvements are needed")

	mid := domain.GenerateGoalTip(55, 6)
	assert.Contains(t, mid, "on the right track")

	high := domain.GenerateGoalTip(85, 6)
	assert.Contains(t, high, "Excellent work!")
}
