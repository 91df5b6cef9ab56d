package stats

import (
	"sort"

	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/workout"
)

type ExerciseSummary struct {
	ExerciseID string             `json:"exerciseId"`
	Sets       int                `json:"sets"`
	BestSet    workout.WorkoutSet `json:"bestSet,omitempty"`
}

type Summary struct {
	DateISO        string            `json:"dateISO"`
	TotalExercises int               `json:"totalExercises"`
	TotalSets      int               `json:"totalSets"`
	TotalVolume    float64           `json:"totalVolume,omitempty"`
	TotalSeconds   float64           `json:"totalSeconds,omitempty"`
	Exercises      []ExerciseSummary `json:"exercises"`
}

// WorkoutSummary totals what was logged on dateISO. Exercises keep the order
// in which they were first logged.
func WorkoutSummary(logs []workout.LogEntry, dateISO string) Summary {
	summary := Summary{
		DateISO:   dateISO,
		Exercises: []ExerciseSummary{},
	}
	index := map[string]int{}

	for _, e := range logs {
		if e.DateISO != dateISO {
			continue
		}
		i, ok := index[e.ExerciseID]
		if !ok {
			i = len(summary.Exercises)
			index[e.ExerciseID] = i
			summary.Exercises = append(summary.Exercises, ExerciseSummary{ExerciseID: e.ExerciseID})
		}
		ex := &summary.Exercises[i]

		for _, set := range e.Payload.Sets {
			summary.TotalSets++
			ex.Sets++
			switch s := set.(type) {
			case workout.WeightRepsSet:
				summary.TotalVolume += s.Weight * float64(s.Reps)
			case workout.HoldSecondsSet:
				summary.TotalSeconds += s.Seconds
			case workout.DistanceTimeSet:
				summary.TotalSeconds += s.Seconds
			}
			if betterSet(set, ex.BestSet) {
				ex.BestSet = set
			}
		}
	}
	summary.TotalExercises = len(summary.Exercises)
	return summary
}

// betterSet reports whether candidate beats current. Weighted sets compare by
// weight then reps; other shapes by their single measured quantity.
func betterSet(candidate, current workout.WorkoutSet) bool {
	if current == nil {
		return true
	}
	switch c := candidate.(type) {
	case workout.WeightRepsSet:
		cur, ok := current.(workout.WeightRepsSet)
		if !ok {
			return true
		}
		return c.Weight > cur.Weight || (c.Weight == cur.Weight && c.Reps > cur.Reps)
	case workout.RepsOnlySet:
		cur, ok := current.(workout.RepsOnlySet)
		return ok && c.Reps > cur.Reps
	case workout.HoldSecondsSet:
		cur, ok := current.(workout.HoldSecondsSet)
		return ok && c.Seconds > cur.Seconds
	case workout.DistanceTimeSet:
		cur, ok := current.(workout.DistanceTimeSet)
		return ok && c.Distance > cur.Distance
	default:
		return false
	}
}

type Usage struct {
	ExerciseID      string   `json:"exerciseId"`
	DirectPlanUses  int      `json:"totalPlanUsage"`
	InRoutineUses   int      `json:"inRoutinesCount"`
	PlannedDates    []string `json:"plannedDates"`
	TotalLogEntries int      `json:"totalLogEntries"`
	LastLoggedISO   string   `json:"lastUsedDate,omitempty"`
	CanDelete       bool     `json:"canDelete"`
}

// ExerciseUsage counts where exerciseID appears in the plan and the log.
// CanDelete mirrors the deletion policy: only plan references block it.
func ExerciseUsage(exerciseID string, plan store.Plan, logs []workout.LogEntry) Usage {
	usage := Usage{
		ExerciseID:   exerciseID,
		PlannedDates: []string{},
	}
	for date, items := range plan {
		used := false
		for _, item := range items {
			switch it := item.(type) {
			case workout.ExerciseItem:
				if it.ExerciseID == exerciseID {
					usage.DirectPlanUses++
					used = true
				}
			case workout.RoutineItem:
				for _, id := range it.ExerciseIDs {
					if id == exerciseID {
						usage.InRoutineUses++
						used = true
						break
					}
				}
			}
		}
		if used {
			usage.PlannedDates = append(usage.PlannedDates, date)
		}
	}
	sort.Strings(usage.PlannedDates)

	if last, ok := LatestLog(logs, exerciseID); ok {
		usage.LastLoggedISO = last.DateISO
	}
	for _, e := range logs {
		if e.ExerciseID == exerciseID {
			usage.TotalLogEntries++
		}
	}
	usage.CanDelete = len(usage.PlannedDates) == 0
	return usage
}
