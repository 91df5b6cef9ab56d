// Package stats derives read-only figures from the workout log and plan.
// Nothing here mutates state.
package stats

import (
	"github.com/2beens/workoutplanner/internal/workout"
)

type BestKind string

const (
	BestWeight   BestKind = "weight"
	BestReps     BestKind = "reps"
	BestSeconds  BestKind = "seconds"
	BestDistance BestKind = "distance"
)

// Best is the highest value ever logged for an exercise.
type Best struct {
	Value   float64  `json:"value"`
	DateISO string   `json:"date"`
	Kind    BestKind `json:"type"`
}

// KindFor is the quantity compared for exercises of type pt.
func KindFor(pt workout.ProgressionType) BestKind {
	switch pt {
	case workout.ProgressionWeightReps:
		return BestWeight
	case workout.ProgressionRepsOnly:
		return BestReps
	case workout.ProgressionHoldSeconds:
		return BestSeconds
	case workout.ProgressionDistanceTime:
		return BestDistance
	default:
		return ""
	}
}

// SetValue extracts the compared quantity from set. Sets whose shape does
// not match the exercise type do not qualify.
func SetValue(pt workout.ProgressionType, set workout.WorkoutSet) (float64, bool) {
	switch s := set.(type) {
	case workout.WeightRepsSet:
		switch pt {
		case workout.ProgressionWeightReps:
			return s.Weight, true
		case workout.ProgressionRepsOnly:
			return float64(s.Reps), true
		}
	case workout.RepsOnlySet:
		if pt == workout.ProgressionRepsOnly {
			return float64(s.Reps), true
		}
	case workout.HoldSecondsSet:
		if pt == workout.ProgressionHoldSeconds {
			return s.Seconds, true
		}
	case workout.DistanceTimeSet:
		if pt == workout.ProgressionDistanceTime {
			return s.Distance, true
		}
	}
	return 0, false
}

// EntryValue is the max qualifying set value of a single entry.
func EntryValue(pt workout.ProgressionType, entry workout.LogEntry) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, set := range entry.Payload.Sets {
		v, ok := SetValue(pt, set)
		if !ok {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// PersonalBest scans every set logged for exercise. It returns nil when there
// are no entries or no qualifying sets. Ties keep the earliest scanned entry.
func PersonalBest(exercise workout.Exercise, logs []workout.LogEntry) *Best {
	var best *Best
	for _, entry := range logs {
		if entry.ExerciseID != exercise.ID {
			continue
		}
		v, ok := EntryValue(exercise.Type, entry)
		if !ok {
			continue
		}
		if best == nil || v > best.Value {
			best = &Best{
				Value:   v,
				DateISO: entry.DateISO,
				Kind:    KindFor(exercise.Type),
			}
		}
	}
	return best
}
