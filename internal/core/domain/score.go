package domain

import (
	"math"
	"strings"
)

// Wellness tiers bucketing the 0-100 daily score
const (
	TierNoData           = "No Data"
	TierNeedsImprovement = "Needs Improvement"
	TierAverage          = "Average"
	TierExcellent        = "Excellent"
)

const noDataPrompt = "Please add today’s health data."

// moduleWeight is the equal share each category contributes to the score
const moduleWeight = 100.0 / 6.0

// partial-credit multipliers used by the per-category score rules
const (
	partialCredit          = 0.6
	nutritionPartialCredit = 0.4
)

// DailyScore is the derived, non-persisted result of scoring one day
type DailyScore struct {
	Score int    `json:"score"`
	Tier  string `json:"wellness_tier"`
	Tips  string `json:"tips"`
}

// missingDataTips replace the rule tips when a category has no entry today
var missingDataTips = map[Category]string{
	CategorySleep:     "Add sleep data.",
	CategoryHydration: "Add hydration data.",
	CategoryNutrition: "Add nutrition data.",
	CategoryFitness:   "Add fitness data.",
	CategoryStress:    "Add stress data.",
	CategoryMood:      "Add mood data.",
}

// CalculateDailyScore folds today's latest-per-category values into the
// composite health score. Each of the six categories contributes an equal
// module weight; a three-tier rule per category awards full, partial or zero
// credit and may emit an improvement tip. Tips concatenate in scoring order,
// separated by single spaces.
//
// An empty input map means no entries exist for the day and yields the
// "No Data" sentinel rather than a zero score.
func CalculateDailyScore(latest map[Category]CategoryValue) DailyScore {
	if len(latest) == 0 {
		return DailyScore{Score: 0, Tier: TierNoData, Tips: noDataPrompt}
	}

	total := 0.0
	var tips []string

	for _, category := range ScoredCategories() {
		v, ok := latest[category]
		if !ok {
			tips = append(tips, missingDataTips[category])
			continue
		}

		credit, tip := scoreCategory(category, v)
		total += credit * moduleWeight
		if tip != "" {
			tips = append(tips, tip)
		}
	}

	score := int(math.Round(total))
	return DailyScore{
		Score: score,
		Tier:  tierForScore(score),
		Tips:  strings.Join(tips, " "),
	}
}

// scoreCategory returns the credit multiplier (1, partial or 0) and the
// improvement tip for a single category value
func scoreCategory(category Category, v CategoryValue) (float64, string) {
	switch category {
	case CategorySleep:
		// whole hours only, matching the stored-input interpretation
		hours := int(floatOr(v.Hours))
		quality := strings.ToLower(strOr(v.Quality, ""))
		if hours >= 7 && hours <= 8 && quality == "good" {
			return 1, ""
		}
		if hours >= 6 {
			return partialCredit, "Increase sleep duration."
		}
		return 0, "Sleep is too low."

	case CategoryHydration:
		switch strings.ToLower(strOr(v.Level, "")) {
		case "high":
			return 1, ""
		case "moderate":
			return partialCredit, "Drink more water."
		default:
			return 0, "Very low hydration."
		}

	case CategoryNutrition:
		// nutrition has no zero branch: anything short of good keeps partial credit
		if strings.ToLower(strOr(v.Quality, "")) == "good" {
			return 1, ""
		}
		return nutritionPartialCredit, "Improve nutrition quality."

	case CategoryFitness:
		minutes := intOr(v.Minutes)
		steps := intOr(v.Steps)
		if minutes >= 30 && steps >= 6000 {
			return 1, ""
		}
		if minutes >= 15 || steps >= 4000 {
			return partialCredit, "Increase activity."
		}
		return 0, "Very low physical activity."

	case CategoryStress:
		switch strings.ToLower(strOr(v.Level, "")) {
		case "low":
			return 1, ""
		case "medium":
			return partialCredit, "Manage stress better."
		default:
			return 0, "High stress detected."
		}

	case CategoryMood:
		// mood has no zero branch either
		if strings.ToLower(strOr(v.Mood, "")) == "happy" {
			return 1, ""
		}
		return partialCredit, "Mood seems low."
	}

	return 0, ""
}

func tierForScore(score int) string {
	switch {
	case score < 40:
		return TierNeedsImprovement
	case score < 70:
		return TierAverage
	default:
		return TierExcellent
	}
}

// GenerateGoalTip produces the goal-page coaching paragraph for the current
// score. filledCategories is how many of the six categories have any entry
// today; incomplete data takes precedence over the score bands.
func GenerateGoalTip(score int, filledCategories int) string {
	if filledCategories < len(ScoredCategories()) {
		return "You have provided limited health data today. " +
			"Please complete all modules to receive personalized AI-based insights."
	}
	switch {
	case score < 40:
		return "Your health score indicates that improvements are needed. " +
			"Start with better sleep, hydration, and light exercise. " +
			"Try 10 minutes of meditation and short walks today."
	case score < 70:
		return "You are on the right track! " +
			"Maintain consistency in sleep and hydration. " +
			"Consider breathing exercises or yoga to improve overall wellness."
	default:
		return "Excellent work! Your lifestyle habits are strong. " +
			"Continue maintaining balance. " +
			"You may explore advanced fitness routines or mindfulness meditation."
	}
}
