package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DaySamples holds one local day's raw per-category numeric samples, already
// bucketed by the caller. Non-fitness categories carry one value per entry;
// fitness contributes minutes and steps separately.
type DaySamples struct {
	Day            time.Time
	Sleep          []float64
	Hydration      []float64
	Nutrition      []float64
	FitnessMinutes []int
	FitnessSteps   []int
	Stress         []float64
	Mood           []float64
}

// AggregateSummary is the per-day trend series plus a single narrative
// sentence for the whole range. Empty Dates means no data in range.
type AggregateSummary struct {
	Dates          []string  `json:"dates"`
	Sleep          []float64 `json:"sleep"`
	Hydration      []float64 `json:"hydration"`
	Nutrition      []float64 `json:"nutrition"`
	FitnessMinutes []int     `json:"fitness_minutes"`
	FitnessSteps   []int     `json:"fitness_steps"`
	Stress         []float64 `json:"stress"`
	Mood           []float64 `json:"mood"`
	HealthScore    []float64 `json:"health_score"`
	SummaryText    string    `json:"summary_text"`
}

// CalculateSummary folds day buckets into the weekly/monthly trend series.
// Days are processed in chronological order. Each metric independently
// defaults to 0 when its category is absent for a day; absence is never an
// error.
//
// The composite per-day health score is a distinct formula from the daily
// score in CalculateDailyScore and assumes stress samples sit on a 0-5
// scale; stress is categorical (low/medium/high) everywhere else in the
// system, so days fed from categorical rows simply contribute no stress
// samples. The two formulas are kept separate deliberately.
func CalculateSummary(days []DaySamples) AggregateSummary {
	sorted := make([]DaySamples, 0, len(days))
	sorted = append(sorted, days...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})

	var summary AggregateSummary

	for _, day := range sorted {
		sleepAvg := meanFloat(day.Sleep)
		hydrationSum := sumFloat(day.Hydration)
		nutritionAvg := meanFloat(day.Nutrition)
		minutesSum := sumInt(day.FitnessMinutes)
		stepsSum := sumInt(day.FitnessSteps)
		stressAvg := meanFloat(day.Stress)
		moodAvg := meanFloat(day.Mood)

		healthScore := round1((sleepAvg*10 + hydrationSum*5 + nutritionAvg*10 +
			float64(minutesSum)*0.5 + (5-stressAvg)*10 + moodAvg*10) / 6)

		summary.Dates = append(summary.Dates, day.Day.Format("02 Jan"))
		summary.Sleep = append(summary.Sleep, sleepAvg)
		summary.Hydration = append(summary.Hydration, hydrationSum)
		summary.Nutrition = append(summary.Nutrition, nutritionAvg)
		summary.FitnessMinutes = append(summary.FitnessMinutes, minutesSum)
		summary.FitnessSteps = append(summary.FitnessSteps, stepsSum)
		summary.Stress = append(summary.Stress, stressAvg)
		summary.Mood = append(summary.Mood, moodAvg)
		summary.HealthScore = append(summary.HealthScore, healthScore)
	}

	if len(summary.Dates) > 0 {
		summary.SummaryText = fmt.Sprintf(
			"Over this period, your average sleep was %.1f hrs/day. "+
				"Hydration totaled %s liters. "+
				"Nutrition quality averaged %.1f. "+
				"Fitness included %d mins and %d steps. "+
				"Stress averaged %.1f, mood stability was %.1f. "+
				"Overall health score indicates a trend of improvement. "+
				"Keep tracking to maintain and enhance your wellness!",
			round1(meanFloat(summary.Sleep)),
			formatHours(sumFloat(summary.Hydration)),
			round1(meanFloat(summary.Nutrition)),
			sumInt(summary.FitnessMinutes),
			sumInt(summary.FitnessSteps),
			round1(meanFloat(summary.Stress)),
			round1(meanFloat(summary.Mood)),
		)
	}

	return summary
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumFloat(values) / float64(len(values))
}

func sumFloat(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func sumInt(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
