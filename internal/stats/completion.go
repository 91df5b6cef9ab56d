package stats

import (
	"fmt"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/workout"
)

type Completion struct {
	TotalPlanned    int            `json:"totalPlannedItems"`
	Completed       int            `json:"completedItems"`
	CompletionRate  float64        `json:"completionRate"`
	PlannedByDate   map[string]int `json:"plannedByDate"`
	CompletedByDate map[string]int `json:"completedByDate"`
}

// CompletionStats counts, per date, the distinct exercises planned (directly
// or inside routine snapshots) and how many of them were logged that same
// date. Empty dates means every planned date.
func CompletionStats(plan store.Plan, logs []workout.LogEntry, dates []string) Completion {
	if len(dates) == 0 {
		dates = plan.Dates()
	}
	logged := loggedByDate(logs)

	c := Completion{
		PlannedByDate:   make(map[string]int, len(dates)),
		CompletedByDate: make(map[string]int, len(dates)),
	}
	for _, date := range dates {
		planned := plan.PlannedExercises(date)
		done := 0
		for _, id := range planned {
			if logged[date][id] {
				done++
			}
		}
		c.PlannedByDate[date] = len(planned)
		c.CompletedByDate[date] = done
		c.TotalPlanned += len(planned)
		c.Completed += done
	}
	c.CompletionRate = rate(c.Completed, c.TotalPlanned)
	return c
}

type Weekly struct {
	WeekStartISO      string         `json:"weekStartISO"`
	TotalWorkouts     int            `json:"totalWorkouts"`
	TotalExercises    int            `json:"totalExercises"`
	TotalSets         int            `json:"totalSets"`
	TotalPlannedItems int            `json:"totalPlannedItems"`
	TotalVolume       float64        `json:"totalVolume,omitempty"`
	CompletionRate    float64        `json:"completionRate"`
	ExerciseFrequency map[string]int `json:"exerciseFrequency"`
}

// WeeklyStats summarizes the seven days starting at weekStartISO. Completion
// here is week wide: a planned exercise counts as done when it was logged on
// any day of the week.
func WeeklyStats(logs []workout.LogEntry, plan store.Plan, weekStartISO string) (Weekly, error) {
	dates, err := calendar.WeekDates(weekStartISO)
	if err != nil {
		return Weekly{}, fmt.Errorf("week dates: %w", err)
	}
	inWeek := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWeek[d] = true
	}

	w := Weekly{
		WeekStartISO:      weekStartISO,
		ExerciseFrequency: map[string]int{},
	}

	planned := map[string]bool{}
	for _, date := range dates {
		w.TotalPlannedItems += len(plan[date])
		for _, id := range plan.PlannedExercises(date) {
			planned[id] = true
		}
	}

	workoutDays := map[string]bool{}
	for _, e := range logs {
		if !inWeek[e.DateISO] {
			continue
		}
		workoutDays[e.DateISO] = true
		w.ExerciseFrequency[e.ExerciseID]++
		w.TotalSets += len(e.Payload.Sets)
		w.TotalVolume += volume(e.Payload.Sets)
	}
	w.TotalWorkouts = len(workoutDays)
	w.TotalExercises = len(w.ExerciseFrequency)

	done := 0
	for id := range planned {
		if w.ExerciseFrequency[id] > 0 {
			done++
		}
	}
	w.CompletionRate = rate(done, len(planned))
	return w, nil
}

func loggedByDate(logs []workout.LogEntry) map[string]map[string]bool {
	byDate := map[string]map[string]bool{}
	for _, e := range logs {
		if byDate[e.DateISO] == nil {
			byDate[e.DateISO] = map[string]bool{}
		}
		byDate[e.DateISO][e.ExerciseID] = true
	}
	return byDate
}

// rate is done/total as a percentage with one decimal; 0 when total is 0.
func rate(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(done) / float64(total) * 100)
}

func volume(sets workout.Sets) float64 {
	var v float64
	for _, set := range sets {
		if s, ok := set.(workout.WeightRepsSet); ok {
			v += s.Weight * float64(s.Reps)
		}
	}
	return v
}
