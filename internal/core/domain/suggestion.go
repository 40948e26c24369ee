package domain

import (
	"fmt"
	"strings"
)

// followUpLine is appended only for UI-facing copy; the persisted
// recommendation text always excludes it.
const followUpLine = "\n\nFor more personalized guidance, click the chatbot button above " +
	"and ask for detailed advice."

// genericSuggestion covers categories the rule tables do not recognize
const genericSuggestion = "Your health journey is progressing steadily. " +
	"Small consistent habits lead to big improvements."

// Per-category thresholds for the suggestion decision tables
const (
	fitnessMinutesTarget = 30
	fitnessStepsTarget   = 6000
)

var stressMediumReasons = map[string]string{
	"workload": "Organizing tasks and taking short breaks can help you feel more in control.",
	"exam":     "A structured study plan and rest breaks can reduce mental pressure.",
	"personal": "Giving yourself emotional space and talking to someone you trust may help.",
	"health":   "Listening to your body and maintaining healthy routines is important right now.",
}

var stressHighReasons = map[string]string{
	"workload": "Prioritizing tasks and allowing proper rest can prevent burnout.",
	"exam":     "Balanced preparation and relaxation are key to staying focused.",
	"personal": "Seeking support and practicing mindfulness can ease emotional strain.",
	"health":   "Professional guidance and self-care should be prioritized.",
}

var sleepQualityClauses = map[string]string{
	"good":    "Sleep quality is good, which supports recovery.",
	"average": "Sleep quality is moderate and can be improved.",
	"poor":    "Poor sleep quality may impact focus and mood.",
}

var sleepReasonClauses = map[string]string{
	"stress":   "Managing stress before bedtime can improve rest.",
	"workload": "Reducing late-night work may improve sleep consistency.",
	"exam":     "Structured study schedules help improve sleep patterns.",
	"personal": "Emotional relaxation techniques can support better sleep.",
	"health":   "Health-related sleep issues should not be ignored.",
}

var hydrationReasonClauses = map[string]string{
	"forgot":  "Setting reminders can help you stay hydrated.",
	"busy":    "Keeping water nearby can improve intake during busy hours.",
	"weather": "Hot weather increases your body’s water needs.",
}

var nutritionReasonClauses = map[string]string{
	"junk food":    "Frequent junk food can reduce energy levels, so try adding more fresh and home-cooked meals.",
	"skipped meal": "Skipping meals may affect focus and metabolism, so regular meal timing is important.",
	"outside food": "Reducing outside food and choosing home meals can improve nutritional balance.",
	"lack of time": "Quick, healthy options can help you eat better even on busy days.",
}

var moodLowReasonClauses = map[string]string{
	"work stress":    "Taking breaks and setting boundaries may help.",
	"family issue":   "Open communication and emotional support can ease feelings.",
	"health problem": "Prioritizing self-care is important right now.",
	"others":         "Mindfulness can help process emotions effectively.",
}

// GenerateSuggestion maps a normalized category value onto its human-readable
// suggestion. Pure and deterministic: identical input and followUp flag yield
// byte-identical output. followUp selects the UI variant with the closing
// assistant line; the persistence variant omits it.
func GenerateSuggestion(category Category, v CategoryValue, followUp bool) string {
	tail := ""
	if followUp {
		tail = followUpLine
	}

	switch category {
	case CategoryFitness:
		return fitnessSuggestion(v) + tail
	case CategoryStress:
		return stressSuggestion(v) + tail
	case CategorySleep:
		return sleepSuggestion(v) + tail
	case CategoryHydration:
		return hydrationSuggestion(v) + tail
	case CategoryNutrition:
		return nutritionSuggestion(v) + tail
	case CategoryMood:
		return moodSuggestion(v) + tail
	default:
		return genericSuggestion + tail
	}
}

// fitnessSuggestion crosses the minutes threshold with the steps threshold;
// each of the four combinations has its own message
func fitnessSuggestion(v CategoryValue) string {
	minutes := intOr(v.Minutes)
	steps := intOr(v.Steps)
	workoutType := strings.ToLower(strOr(v.Type, ""))
	if workoutType == strings.ToLower(ValueUnspecified) {
		workoutType = ""
	}

	lowMinutes := minutes < fitnessMinutesTarget
	lowSteps := steps < fitnessStepsTarget

	switch {
	case lowMinutes && !lowSteps:
		if workoutType == "" {
			workoutType = "exercise"
		}
		return fmt.Sprintf(
			"Your daily movement is good with %d steps, but workout time is a bit low. "+
				"Adding 15–20 more minutes of %s can boost your fitness.", steps, workoutType)
	case !lowMinutes && lowSteps:
		return "You maintained a solid workout routine today. " +
			"Try increasing daily steps through short walks or staying active between tasks."
	case lowMinutes && lowSteps:
		return "Activity levels were lower today, which is completely okay. " +
			"Start small by adding light workouts and more movement throughout the day."
	default:
		return "Great balance of workouts and daily movement today. " +
			"Keep maintaining this routine for long-term physical strength and energy."
	}
}

func stressSuggestion(v CategoryValue) string {
	level := strings.ToLower(strOr(v.Level, ""))
	reason := strings.ToLower(strOr(v.Reason, ""))

	switch level {
	case "low":
		return "Your stress levels are well managed right now. " +
			"Continue following habits that keep your mind calm and balanced."
	case "medium":
		clause, ok := stressMediumReasons[reason]
		if !ok {
			clause = "Simple relaxation techniques can improve mental clarity."
		}
		return "Some stress is present, which is quite normal in daily life. " + clause
	default:
		clause, ok := stressHighReasons[reason]
		if !ok {
			clause = "Reducing pressure and focusing on recovery is important."
		}
		return "Stress levels are high and deserve attention. " + clause
	}
}

// sleepSuggestion joins a duration bucket, a quality clause and a reason
// clause. An unrecognized quality contributes an empty clause, which keeps
// the doubled separator the original copy produced.
func sleepSuggestion(v CategoryValue) string {
	hours := floatOr(v.Hours)
	quality := strings.ToLower(strOr(v.Quality, ""))
	reason := strings.ToLower(strOr(v.Reason, ""))

	var duration string
	switch {
	case hours < 7:
		duration = "Your sleep duration is lower than recommended."
	case hours <= 8:
		duration = "Your sleep duration is within a healthy range."
	case hours >= 9 && hours <= 10:
		duration = "You slept longer than average, which may indicate fatigue."
	default:
		duration = "Extended sleep hours may affect daily energy balance."
	}

	reasonClause, ok := sleepReasonClauses[reason]
	if !ok {
		reasonClause = "Maintaining a calming bedtime routine is beneficial."
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s %s", duration, sleepQualityClauses[quality], reasonClause))
}

func hydrationSuggestion(v CategoryValue) string {
	level := strings.ToLower(strOr(v.Level, ""))
	reason := strings.ToLower(strOr(v.Reason, ""))

	var base string
	switch level {
	case "low":
		base = "Your water intake is currently low."
	case "moderate":
		base = "Your hydration level is moderate."
	default:
		base = "You are well hydrated today."
	}

	clause, ok := hydrationReasonClauses[reason]
	if !ok {
		clause = "Maintaining regular water intake supports overall health."
	}
	return base + " " + clause
}

func nutritionSuggestion(v CategoryValue) string {
	quality := strings.ToLower(strOr(v.Quality, ""))
	reason := strings.ToLower(strOr(v.Reason, ""))

	if quality == "good" {
		return "Your nutrition habits are well balanced and supportive of your health. " +
			"Continue this routine to maintain steady energy and overall well-being."
	}

	clause, ok := nutritionReasonClauses[reason]
	if !ok {
		clause = "Small dietary changes can make a noticeable difference over time."
	}
	return "Your current eating pattern could be improved for better health outcomes. " + clause
}

func moodSuggestion(v CategoryValue) string {
	mood := strings.ToLower(strOr(v.Mood, ""))
	reason := strings.ToLower(strOr(v.Reason, ""))

	switch mood {
	case "happy":
		return "You are feeling positive and emotionally balanced today. " +
			"Continue activities that support this uplifting mood."
	case "sad", "angry":
		clause, ok := moodLowReasonClauses[reason]
		if !ok {
			clause = "Giving yourself time can help restore balance."
		}
		return "Your current mood deserves care and understanding. " + clause
	default:
		return "Your mood appears stable at the moment. " +
			"Staying emotionally aware helps maintain mental well-being."
	}
}
