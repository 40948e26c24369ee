package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CyclePhase is one of the four menstrual-cycle stages, or Unknown when the
// record cannot be interpreted
type CyclePhase string

const (
	PhaseMenstrual  CyclePhase = "Menstrual Phase"
	PhaseFollicular CyclePhase = "Follicular Phase"
	PhaseOvulation  CyclePhase = "Ovulation Phase"
	PhaseLuteal     CyclePhase = "Luteal Phase"
	PhaseUnknown    CyclePhase = "Unknown"
)

// cycleAdvice is the phase-keyed wellness sentence shown alongside the
// current-phase display
var cycleAdvice = map[CyclePhase]string{
	PhaseMenstrual:  "- Focus on rest, hydration, iron-rich foods, and light stretching.",
	PhaseFollicular: "- Energy levels improve. Good time for planning, workouts, and learning.",
	PhaseOvulation:  "- Peak confidence and strength. Maintain hydration and balanced nutrition.",
	PhaseLuteal:     "- Mood may fluctuate. Prioritize sleep, stress control, and self-care.",
}

const cycleAdviceFooter = "\n\nFor more suggestions and good advice, click the button below to talk to the chatbot."

// ResolveCyclePhase derives the current phase from the last recorded period
// start. today must be the caller's wall-clock date; the result is never
// cached across days. A last period date in the future resolves to Unknown.
func ResolveCyclePhase(lastPeriodDate time.Time, cycleLength int, today time.Time) CyclePhase {
	if cycleLength <= 0 {
		cycleLength = DefaultCycleLength
	}

	daysPassed := daysBetween(lastPeriodDate, today)
	if daysPassed < 0 {
		return PhaseUnknown
	}

	dayInCycle := daysPassed % cycleLength
	switch {
	case dayInCycle <= 5:
		return PhaseMenstrual
	case dayInCycle <= 13:
		return PhaseFollicular
	case dayInCycle <= 16:
		return PhaseOvulation
	default:
		return PhaseLuteal
	}
}

// PredictedNextPeriod is the naive next-start estimate shown with the record
func PredictedNextPeriod(record PeriodRecord) time.Time {
	cycleLength := record.CycleLength
	if cycleLength <= 0 {
		cycleLength = DefaultCycleLength
	}
	return record.LastPeriodDate.AddDate(0, 0, cycleLength)
}

// FemaleHealthSummary renders the fixed record block plus the phase-keyed
// wellness advice followed by the constant call-to-action line
func FemaleHealthSummary(record PeriodRecord, today time.Time) (summary string, advice string) {
	symptoms := record.Symptoms
	if symptoms == "" {
		symptoms = "None"
	}

	summary = fmt.Sprintf("- Cycle Length: %d days\n- Period Duration: %d days\n- Symptoms: %s",
		record.CycleLength, record.PeriodDuration, symptoms)

	phase := ResolveCyclePhase(record.LastPeriodDate, record.CycleLength, today)
	line, ok := cycleAdvice[phase]
	if !ok {
		// Unknown phase falls back to luteal advice like the original template
		line = cycleAdvice[PhaseLuteal]
	}
	return summary, line + cycleAdviceFooter
}

// CycleChart is the per-user period history shaped for charting
type CycleChart struct {
	Dates           []string       `json:"dates"`
	CycleLengths    []int          `json:"cycle_lengths"`
	PeriodDurations []int          `json:"period_durations"`
	SymptomCounts   map[string]int `json:"symptom_counts"`
	PhaseCounts     map[string]int `json:"phase_counts"`
}

// BuildCycleChart folds the full period history (any order) into chart
// series ordered by last period date ascending
func BuildCycleChart(history []PeriodRecord, today time.Time) CycleChart {
	sorted := make([]PeriodRecord, 0, len(history))
	sorted = append(sorted, history...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastPeriodDate.Before(sorted[j].LastPeriodDate)
	})

	chart := CycleChart{
		SymptomCounts: map[string]int{},
		PhaseCounts:   map[string]int{},
	}

	for _, record := range sorted {
		chart.Dates = append(chart.Dates, record.LastPeriodDate.Format("2006-01-02"))
		chart.CycleLengths = append(chart.CycleLengths, record.CycleLength)
		chart.PeriodDurations = append(chart.PeriodDurations, record.PeriodDuration)

		for _, symptom := range strings.Split(record.Symptoms, ",") {
			symptom = strings.TrimSpace(symptom)
			if symptom != "" {
				chart.SymptomCounts[symptom]++
			}
		}

		phase := ResolveCyclePhase(record.LastPeriodDate, record.CycleLength, today)
		chart.PhaseCounts[string(phase)]++
	}

	return chart
}

// daysBetween counts whole calendar days from a to b, ignoring clock time
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
