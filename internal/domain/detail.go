package domain

import "strings"

// Time units offered when composing a detail.
const (
	TimeUnitSeconds = "sec"
	TimeUnitMinutes = "min"
)

// FormatDetail composes the free-form detail from structured sets/reps/time input,
// e.g. "3 sets x 10 reps, 60 sec". Blank parts are left out. The result is opaque
// once stored; nothing reads the structure back.
func FormatDetail(sets, reps, time, unit string) string {
	sets, reps, time = strings.TrimSpace(sets), strings.TrimSpace(reps), strings.TrimSpace(time)
	if unit != TimeUnitMinutes {
		unit = TimeUnitSeconds
	}

	var b strings.Builder
	if sets != "" {
		b.WriteString(sets + " sets")
	}
	if reps != "" {
		if b.Len() > 0 {
			b.WriteString(" x ")
		}
		b.WriteString(reps + " reps")
	}
	if time != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(time + " " + unit)
	}
	return b.String()
}
