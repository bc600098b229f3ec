package projects

import (
	"math"
	"time"
)

// Pure schedule derivation. The service applies these inside transactions.

// DeriveActivityDates returns the min start and max end over subtasks that
// have both dates set. ok is false when no subtask qualifies, in which
// case the activity's dates are left untouched.
func DeriveActivityDates(subtasks []PhaseSubtask) (start, end time.Time, ok bool) {
	for _, st := range subtasks {
		if st.StartDate == nil || st.EndDate == nil {
			continue
		}
		if !ok {
			start, end = *st.StartDate, *st.EndDate
			ok = true
			continue
		}
		if st.StartDate.Before(start) {
			start = *st.StartDate
		}
		if st.EndDate.After(end) {
			end = *st.EndDate
		}
	}
	return start, end, ok
}

// DeriveProgress returns round(completed/total*100). Zero total yields 0.
func DeriveProgress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// NextPhase returns the phase following current in the fixed order, or
// current itself when it is already the last phase.
func NextPhase(current string) string {
	for i, phase := range PhaseOrder {
		if phase == current && i < len(PhaseOrder)-1 {
			return PhaseOrder[i+1]
		}
	}
	return current
}

// PhaseSpan is a derived date range for one default phase activity.
type PhaseSpan struct {
	Phase string
	Start time.Time
	End   time.Time
}

// PartitionPhases splits the project's day span evenly across the five
// phases. The last phase's end is forced to the project end date so
// rounding never shortens the overall schedule.
func PartitionPhases(start, end time.Time) []PhaseSpan {
	totalDays := int(end.Sub(start).Hours() / 24)
	if totalDays < 0 {
		totalDays = 0
	}
	daysPerPhase := totalDays / len(PhaseOrder)

	spans := make([]PhaseSpan, 0, len(PhaseOrder))
	cursor := start
	for i, phase := range PhaseOrder {
		phaseEnd := cursor.AddDate(0, 0, daysPerPhase)
		if i == len(PhaseOrder)-1 {
			phaseEnd = end
		}
		spans = append(spans, PhaseSpan{Phase: phase, Start: cursor, End: phaseEnd})
		cursor = phaseEnd
	}
	return spans
}
