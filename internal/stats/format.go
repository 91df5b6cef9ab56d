package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/workoutplanner/internal/workout"
)

// NoValue is shown when there is nothing to format.
const NoValue = "—"

// SessionDetails renders each set of entry on its own line, numbered from 1
// ("Set 1: 5 × 100kg"). unit is the settings default; the exercise's own
// weight unit wins when set.
func SessionDetails(exercise workout.Exercise, entry *workout.LogEntry, unit workout.MassUnit) []string {
	if entry == nil || len(entry.Payload.Sets) == 0 {
		return []string{}
	}

	label := exercise.Unit(unit).Label()
	lines := make([]string, 0, len(entry.Payload.Sets))
	for i, set := range entry.Payload.Sets {
		lines = append(lines, fmt.Sprintf("Set %d: %s", i+1, formatSet(exercise.Type, set, label)))
	}
	return lines
}

func formatSet(pt workout.ProgressionType, set workout.WorkoutSet, unitLabel string) string {
	switch s := set.(type) {
	case workout.WeightRepsSet:
		if pt == workout.ProgressionRepsOnly {
			return fmt.Sprintf("%d reps", s.Reps)
		}
		return fmt.Sprintf("%d × %s%s", s.Reps, formatNumber(s.Weight), unitLabel)
	case workout.HoldSecondsSet:
		return fmt.Sprintf("%ss", formatNumber(s.Seconds))
	case workout.RepsOnlySet:
		return fmt.Sprintf("%d reps", s.Reps)
	case workout.DistanceTimeSet:
		return fmt.Sprintf("%s km in %s", formatNumber(s.Distance), FormatClock(s.Seconds))
	default:
		return "Invalid set type"
	}
}

// FormatPersonalBest renders the best of exercise, or NoValue.
func FormatPersonalBest(exercise workout.Exercise, logs []workout.LogEntry, unit workout.MassUnit) string {
	best := PersonalBest(exercise, logs)
	if best == nil {
		return NoValue
	}

	switch best.Kind {
	case BestWeight:
		return formatNumber(best.Value) + " " + exercise.Unit(unit).Label()
	case BestSeconds:
		return formatNumber(best.Value) + "s"
	case BestReps:
		return formatNumber(best.Value) + " reps"
	case BestDistance:
		return formatNumber(best.Value) + " km"
	default:
		return NoValue
	}
}

// FormatLastSession summarizes entry in one line: sets grouped by weight for
// weighted exercises, the rounded average hold, total reps or total distance
// for the others.
func FormatLastSession(exercise workout.Exercise, entry *workout.LogEntry, unit workout.MassUnit) string {
	if entry == nil || len(entry.Payload.Sets) == 0 {
		return NoValue
	}
	sets := entry.Payload.Sets

	switch exercise.Type {
	case workout.ProgressionWeightReps:
		label := exercise.Unit(unit).Label()
		var order []float64
		counts := map[float64]int{}
		for _, set := range sets {
			s, ok := set.(workout.WeightRepsSet)
			if !ok {
				continue
			}
			if counts[s.Weight] == 0 {
				order = append(order, s.Weight)
			}
			counts[s.Weight]++
		}
		if len(order) == 0 {
			return NoValue
		}
		parts := make([]string, 0, len(order))
		for _, w := range order {
			parts = append(parts, fmt.Sprintf("%s at %s %s", pluralSets(counts[w]), formatNumber(w), label))
		}
		return strings.Join(parts, ", ")
	case workout.ProgressionHoldSeconds:
		var total float64
		for _, set := range sets {
			if s, ok := set.(workout.HoldSecondsSet); ok {
				total += s.Seconds
			}
		}
		avg := math.Round(total / float64(len(sets)))
		return fmt.Sprintf("%s, avg %ss", pluralSets(len(sets)), formatNumber(avg))
	case workout.ProgressionRepsOnly:
		total := 0
		for _, set := range sets {
			switch s := set.(type) {
			case workout.RepsOnlySet:
				total += s.Reps
			case workout.WeightRepsSet:
				total += s.Reps
			}
		}
		return fmt.Sprintf("%s, %d total reps", pluralSets(len(sets)), total)
	case workout.ProgressionDistanceTime:
		var distance, seconds float64
		for _, set := range sets {
			if s, ok := set.(workout.DistanceTimeSet); ok {
				distance += s.Distance
				seconds += s.Seconds
			}
		}
		return fmt.Sprintf("%s, %s km in %s", pluralSets(len(sets)), formatNumber(distance), FormatClock(seconds))
	default:
		return NoValue
	}
}

// FormatClock renders seconds as m:ss, or h:mm:ss from one hour up.
func FormatClock(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func pluralSets(n int) string {
	if n == 1 {
		return "1 set"
	}
	return fmt.Sprintf("%d sets", n)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
