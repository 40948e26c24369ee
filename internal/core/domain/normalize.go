package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizeCategoryValue coerces a raw request value into the canonical
// CategoryValue for its category. Missing or type-incompatible fields fall
// back to the placeholder sentinels; the function never fails.
//
// Raw input may be a JSON object, a bare scalar, or malformed JSON. Scalars
// and garbage are treated as an empty record so every field takes its
// default. Legacy clients sent several spellings for the fitness fields
// (minutes/workoutMinutes/workout_minutes and so on); all variants collapse
// onto the canonical key. Normalization is idempotent: feeding a marshalled
// canonical value back through produces the same record.
func NormalizeCategoryValue(category Category, raw json.RawMessage) CategoryValue {
	fields := decodeFields(raw)

	var v CategoryValue
	switch category {
	case CategoryFitness:
		v.Minutes = intPtr(coerceInt(firstField(fields, "minutes", "workoutMinutes", "workout_minutes")))
		v.Steps = intPtr(coerceInt(firstField(fields, "steps", "dailySteps", "daily_steps")))
		v.Type = strPtr(coerceString(firstField(fields, "type", "workoutType", "workout_type"), ValueUnspecified))
	case CategorySleep:
		v.Hours = floatPtr(coerceFloat(fields["hours"]))
		v.Quality = strPtr(coerceString(fields["quality"], ValueUnspecified))
		v.Reason = strPtr(coerceString(fields["reason"], ReasonNotSpecified))
	case CategoryHydration:
		v.Level = strPtr(coerceString(fields["level"], ValueUnspecified))
		v.Reason = strPtr(coerceString(fields["reason"], ReasonNotSpecified))
	case CategoryNutrition:
		v.Quality = strPtr(coerceString(fields["quality"], ValueUnspecified))
		v.Reason = strPtr(coerceString(fields["reason"], ReasonNotSpecified))
	case CategoryStress:
		v.Level = strPtr(coerceString(fields["level"], ValueUnspecified))
		v.Reason = strPtr(coerceString(fields["reason"], ReasonNotSpecified))
	case CategoryMood:
		v.Mood = strPtr(coerceString(fields["mood"], ValueUnspecified))
		v.Reason = strPtr(coerceString(fields["reason"], ReasonNotSpecified))
	}
	return v
}

// decodeFields parses raw into a loose field map
// Non-object input degrades to an empty map rather than an error
func decodeFields(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return map[string]interface{}{}
	}
	return fields
}

// firstField returns the first truthy value among the key spellings
// Legacy clients send zero or empty placeholders alongside the populated
// alias, so falsy values (null, 0, "", false) defer to the next key
func firstField(fields map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := fields[key]; ok && truthyField(v) {
			return v
		}
	}
	return nil
}

func truthyField(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case float64:
		return t != 0
	case string:
		return t != ""
	case bool:
		return t
	}
	return true
}

// coerceInt attempts an integer interpretation, then a float one,
// and falls back to 0 for anything non-numeric
func coerceInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

func coerceFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// coerceString keeps the caller's original casing; rule matching
// lower-cases at comparison time, not at storage time
func coerceString(v interface{}, fallback string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}
