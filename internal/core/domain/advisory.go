package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NoAdvisoryData is returned when the user has never saved any entry.
const NoAdvisoryData = "No health data found. Please save your data first."

const advisoryFooter = " You can get personalized health guidance instantly. " +
	"Click the button below to receive recommendations from our chatbot!"

// Advisory is the consolidated recommendation view built from the latest
// entry per category.
type Advisory struct {
	Recommendation string `json:"recommendation"`
	HealthSummary  string `json:"health_summary"`
}

// BuildAdvisory assembles the recommendation page content from the latest
// value per category. Fitness always leads and is zero-filled when absent;
// every other category is skipped entirely when the user never logged it.
// Returns ok=false when latest is empty.
func BuildAdvisory(latest map[Category]CategoryValue) (Advisory, bool) {
	if len(latest) == 0 {
		return Advisory{}, false
	}

	var lines []string
	var recs []string

	fitness := latest[CategoryFitness]
	minutes := intOr(fitness.Minutes)
	steps := intOr(fitness.Steps)
	workout := strOr(fitness.Type, ValueUnspecified)
	lines = append(lines, fmt.Sprintf("Fitness: %d min (%s), Steps: %d", minutes, workout, steps))
	switch {
	case minutes < fitnessMinutesTarget && steps < fitnessStepsTarget:
		recs = append(recs, "Workout duration and steps are below recommended levels.")
	case minutes < fitnessMinutesTarget:
		recs = append(recs, "Workout duration is low. Increase activity time.")
	case steps < fitnessStepsTarget:
		recs = append(recs, "Daily steps are low. Try to walk more.")
	default:
		recs = append(recs, "Excellent fitness routine.")
	}

	if sleep, ok := latest[CategorySleep]; ok {
		hours := floatOr(sleep.Hours)
		lines = append(lines, fmt.Sprintf("Sleep: %s hours, Quality: %s, Reason: %s",
			formatHours(hours), strOr(sleep.Quality, ValueUnspecified), strOr(sleep.Reason, ReasonNotSpecified)))
		switch {
		case hours < 6:
			recs = append(recs, fmt.Sprintf("Sleep is very low (%sh). Focus on stress management and better sleep hygiene.", formatHours(hours)))
		case hours < 7:
			recs = append(recs, fmt.Sprintf("Sleep duration slightly low (%sh). Try reaching 7–8 hours.", formatHours(hours)))
		default:
			recs = append(recs, "Sleep duration is healthy.")
		}
	}

	if hydration, ok := latest[CategoryHydration]; ok {
		level := strOr(hydration.Level, ValueUnspecified)
		lines = append(lines, fmt.Sprintf("Hydration Level: %s, Reason: %s",
			level, strOr(hydration.Reason, ReasonNotSpecified)))
		switch strings.ToLower(level) {
		case "low", "moderate":
			recs = append(recs, fmt.Sprintf("Hydration is %s. Increase water intake to 7–8 glasses daily.", level))
		case "unspecified":
			recs = append(recs, "Hydration level not specified.")
		default:
			recs = append(recs, "Hydration level is good.")
		}
	}

	if nutrition, ok := latest[CategoryNutrition]; ok {
		quality := strOr(nutrition.Quality, ValueUnspecified)
		lines = append(lines, fmt.Sprintf("Nutrition Quality: %s, Reason: %s",
			quality, strOr(nutrition.Reason, ReasonNotSpecified)))
		switch strings.ToLower(quality) {
		case "poor", "average":
			recs = append(recs, "Nutrition needs improvement. Reduce junk food and eat balanced meals.")
		case "unspecified":
			recs = append(recs, "Nutrition quality not specified.")
		default:
			recs = append(recs, "Nutrition habits are healthy.")
		}
	}

	if stress, ok := latest[CategoryStress]; ok {
		level := strOr(stress.Level, ValueUnspecified)
		lines = append(lines, fmt.Sprintf("Stress Level: %s, Reason: %s",
			level, strOr(stress.Reason, ReasonNotSpecified)))
		switch strings.ToLower(level) {
		case "high":
			recs = append(recs, "High stress detected. Try meditation, breaks, or talking to someone.")
		case "medium":
			recs = append(recs, "Moderate stress. Take regular breaks.")
		case "unspecified":
			recs = append(recs, "Stress level not specified.")
		default:
			recs = append(recs, "Stress levels are low.")
		}
	}

	if mood, ok := latest[CategoryMood]; ok {
		state := strOr(mood.Mood, ValueUnspecified)
		lines = append(lines, fmt.Sprintf("Mood: %s, Reason: %s",
			state, strOr(mood.Reason, ReasonNotSpecified)))
		switch strings.ToLower(state) {
		case "sad", "angry":
			recs = append(recs, "Mood seems low. Consider mindfulness or chatting with AI assistant.")
		case "unspecified":
			recs = append(recs, "Mood not specified.")
		default:
			recs = append(recs, "Mood is positive.")
		}
	}

	return Advisory{
		Recommendation: strings.Join(recs, " ") + advisoryFooter,
		HealthSummary:  "Here is a summary of your recent health data:\n" + strings.Join(lines, "\n"),
	}, true
}

// formatHours keeps one decimal for whole values ("7.0") and a minimal
// representation otherwise ("7.25").
func formatHours(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.1f", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
