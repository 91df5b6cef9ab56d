package stats_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/workoutplanner/internal/stats"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	squat = workout.Exercise{ID: "e1", Name: "Squat", Color: "red", Type: workout.ProgressionWeightReps}
	plank = workout.Exercise{ID: "e2", Name: "Plank", Color: "blue", Type: workout.ProgressionHoldSeconds}
	pushU = workout.Exercise{ID: "e3", Name: "Push up", Color: "green", Type: workout.ProgressionRepsOnly}
	run   = workout.Exercise{ID: "e4", Name: "Run", Color: "gray", Type: workout.ProgressionDistanceTime}
)

func entry(id, exerciseID, date string, sets ...workout.WorkoutSet) workout.LogEntry {
	return workout.LogEntry{
		ID:         id,
		ExerciseID: exerciseID,
		DateISO:    date,
		Payload:    workout.LogPayload{Sets: sets},
	}
}

func TestPersonalBest(t *testing.T) {
	assert.Nil(t, stats.PersonalBest(squat, nil))
	assert.Nil(t, stats.PersonalBest(squat, []workout.LogEntry{entry("l0", "other", "2024-01-01", workout.WeightRepsSet{Weight: 500, Reps: 1})}))

	logs := []workout.LogEntry{
		entry("l1", "e1", "2024-01-01", workout.WeightRepsSet{Weight: 80, Reps: 5}, workout.WeightRepsSet{Weight: 100, Reps: 1}),
		entry("l2", "e1", "2024-01-05", workout.WeightRepsSet{Weight: 95, Reps: 8}),
		entry("l3", "e2", "2024-01-02", workout.HoldSecondsSet{Seconds: 45}, workout.HoldSecondsSet{Seconds: 60}),
		entry("l4", "e3", "2024-01-02", workout.RepsOnlySet{Reps: 20}),
		entry("l5", "e3", "2024-01-03", workout.RepsOnlySet{Reps: 25}),
		entry("l6", "e4", "2024-01-03", workout.DistanceTimeSet{Distance: 5.2, Seconds: 1500}),
	}

	best := stats.PersonalBest(squat, logs)
	require.NotNil(t, best)
	assert.Equal(t, stats.Best{Value: 100, DateISO: "2024-01-01", Kind: stats.BestWeight}, *best)

	best = stats.PersonalBest(plank, logs)
	require.NotNil(t, best)
	assert.Equal(t, 60.0, best.Value)
	assert.Equal(t, stats.BestSeconds, best.Kind)

	best = stats.PersonalBest(pushU, logs)
	require.NotNil(t, best)
	assert.Equal(t, 25.0, best.Value)
	assert.Equal(t, "2024-01-03", best.DateISO)

	best = stats.PersonalBest(run, logs)
	require.NotNil(t, best)
	assert.Equal(t, 5.2, best.Value)
	assert.Equal(t, stats.BestDistance, best.Kind)
}

func TestPersonalBest_MismatchedShapesDoNotQualify(t *testing.T) {
	logs := []workout.LogEntry{
		entry("l1", "e2", "2024-01-01", workout.RepsOnlySet{Reps: 10}),
	}
	assert.Nil(t, stats.PersonalBest(plank, logs))
}

func TestSessionDetails(t *testing.T) {
	assert.Empty(t, stats.SessionDetails(squat, nil, workout.UnitKG))

	e := entry("l1", "e1", "2024-01-01", workout.WeightRepsSet{Weight: 100, Reps: 5}, workout.WeightRepsSet{Weight: 102.5, Reps: 3})
	assert.Equal(t, []string{"Set 1: 5 × 100kg", "Set 2: 3 × 102.5kg"}, stats.SessionDetails(squat, &e, workout.UnitKG))
	assert.Equal(t, []string{"Set 1: 5 × 100lbs", "Set 2: 3 × 102.5lbs"}, stats.SessionDetails(squat, &e, workout.UnitLBS))

	kgSquat := squat
	kgSquat.WeightUnit = workout.WeightUnitKG
	assert.Equal(t, "Set 1: 5 × 100kg", stats.SessionDetails(kgSquat, &e, workout.UnitLBS)[0])

	h := entry("l2", "e2", "2024-01-01", workout.HoldSecondsSet{Seconds: 30})
	assert.Equal(t, []string{"Set 1: 30s"}, stats.SessionDetails(plank, &h, workout.UnitKG))

	r := entry("l3", "e3", "2024-01-01", workout.RepsOnlySet{Reps: 12})
	assert.Equal(t, []string{"Set 1: 12 reps"}, stats.SessionDetails(pushU, &r, workout.UnitKG))

	d := entry("l4", "e4", "2024-01-01", workout.DistanceTimeSet{Distance: 5, Seconds: 1505})
	assert.Equal(t, []string{"Set 1: 5 km in 25:05"}, stats.SessionDetails(run, &d, workout.UnitKG))
}

func TestFormatPersonalBestAndLastSession(t *testing.T) {
	logs := []workout.LogEntry{
		entry("l1", "e1", "2024-01-01",
			workout.WeightRepsSet{Weight: 100, Reps: 5},
			workout.WeightRepsSet{Weight: 100, Reps: 5},
			workout.WeightRepsSet{Weight: 90, Reps: 8},
		),
		entry("l2", "e2", "2024-01-01", workout.HoldSecondsSet{Seconds: 30}, workout.HoldSecondsSet{Seconds: 60}),
		entry("l3", "e3", "2024-01-01", workout.RepsOnlySet{Reps: 10}),
	}

	assert.Equal(t, "100 kg", stats.FormatPersonalBest(squat, logs, workout.UnitKG))
	assert.Equal(t, "60s", stats.FormatPersonalBest(plank, logs, workout.UnitKG))
	assert.Equal(t, "10 reps", stats.FormatPersonalBest(pushU, logs, workout.UnitKG))
	assert.Equal(t, stats.NoValue, stats.FormatPersonalBest(run, logs, workout.UnitKG))

	assert.Equal(t, "2 sets at 100 kg, 1 set at 90 kg", stats.FormatLastSession(squat, &logs[0], workout.UnitKG))
	assert.Equal(t, "2 sets, avg 45s", stats.FormatLastSession(plank, &logs[1], workout.UnitKG))
	assert.Equal(t, "1 set, 10 total reps", stats.FormatLastSession(pushU, &logs[2], workout.UnitKG))
	assert.Equal(t, stats.NoValue, stats.FormatLastSession(squat, nil, workout.UnitKG))

	// averages round to whole seconds, totals keep every set
	holds := entry("l4", "e2", "2024-01-02",
		workout.HoldSecondsSet{Seconds: 30},
		workout.HoldSecondsSet{Seconds: 31},
	)
	assert.Equal(t, "2 sets, avg 31s", stats.FormatLastSession(plank, &holds, workout.UnitKG))
	reps := entry("l5", "e3", "2024-01-02", workout.RepsOnlySet{Reps: 10}, workout.RepsOnlySet{Reps: 20})
	assert.Equal(t, "2 sets, 30 total reps", stats.FormatLastSession(pushU, &reps, workout.UnitKG))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", stats.FormatClock(0))
	assert.Equal(t, "1:30", stats.FormatClock(90))
	assert.Equal(t, "1:00:01", stats.FormatClock(3601))
}

func TestLookups(t *testing.T) {
	logs := []workout.LogEntry{
		entry("l1", "e1", "2024-01-03"),
		entry("l2", "e1", "2024-01-01"),
		entry("l3", "e1", "2024-01-07"),
		entry("l4", "e2", "2024-01-09"),
	}

	latest, ok := stats.LatestLog(logs, "e1")
	require.True(t, ok)
	assert.Equal(t, "l3", latest.ID)

	before, ok := stats.LatestLogBefore(logs, "e1", "2024-01-07")
	require.True(t, ok)
	assert.Equal(t, "l1", before.ID)

	_, ok = stats.LatestLogBefore(logs, "e1", "2024-01-01")
	assert.False(t, ok)

	on, ok := stats.LogOnDate(logs, "e2", "2024-01-09")
	require.True(t, ok)
	assert.Equal(t, "l4", on.ID)

	_, ok = stats.LatestLog(logs, "e9")
	assert.False(t, ok)
}

func TestProgressTrend(t *testing.T) {
	today := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)
	weights := func(values ...float64) []workout.LogEntry {
		var logs []workout.LogEntry
		for i, v := range values {
			logs = append(logs, entry("l", "e1", time.Date(2024, 1, 10+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
				workout.WeightRepsSet{Weight: v, Reps: 5}))
		}
		return logs
	}

	single := stats.ProgressTrend(squat, weights(100), 30, today)
	assert.Equal(t, stats.DirectionInsufficientData, single.Direction)
	assert.Equal(t, 1, single.DataPoints)
	assert.Nil(t, single.ChangePercent)

	up := stats.ProgressTrend(squat, weights(100, 100, 110, 120), 30, today)
	assert.Equal(t, stats.DirectionUp, up.Direction)
	require.NotNil(t, up.ChangePercent)
	assert.Equal(t, 15.0, *up.ChangePercent)
	assert.Equal(t, 4, up.DataPoints)
	assert.Equal(t, 30, up.PeriodDays)

	down := stats.ProgressTrend(squat, weights(120, 100, 90), 30, today)
	assert.Equal(t, stats.DirectionDown, down.Direction)
	require.NotNil(t, down.ChangePercent)
	assert.Equal(t, -20.8, *down.ChangePercent)

	stable := stats.ProgressTrend(squat, weights(100, 103), 30, today)
	assert.Equal(t, stats.DirectionStable, stable.Direction)

	// entries older than the window are ignored
	old := stats.ProgressTrend(squat, weights(100, 200), 10, today)
	assert.Equal(t, stats.DirectionInsufficientData, old.Direction)
	assert.Equal(t, 0, old.DataPoints)

	// zero values are dropped
	zeros := stats.ProgressTrend(squat, weights(0, 100), 30, today)
	assert.Equal(t, stats.DirectionInsufficientData, zeros.Direction)
	assert.Equal(t, 1, zeros.DataPoints)
}

func TestCompletionStats(t *testing.T) {
	empty := stats.CompletionStats(store.Plan{}, nil, nil)
	assert.Equal(t, 0.0, empty.CompletionRate)
	assert.Equal(t, 0, empty.TotalPlanned)

	plan := store.Plan{
		"2024-01-01": {
			workout.ExerciseItem{ExerciseID: "e1"},
			workout.RoutineItem{Name: "Core", Color: "y", ExerciseIDs: []string{"e2", "e1", "e3"}},
		},
		"2024-01-02": {workout.ExerciseItem{ExerciseID: "e1"}},
	}
	logs := []workout.LogEntry{
		entry("l1", "e1", "2024-01-01"),
		entry("l2", "e3", "2024-01-01"),
		entry("l3", "e1", "2024-01-03"),
	}

	c := stats.CompletionStats(plan, logs, nil)
	assert.Equal(t, 4, c.TotalPlanned)
	assert.Equal(t, 2, c.Completed)
	assert.Equal(t, 50.0, c.CompletionRate)
	assert.Equal(t, map[string]int{"2024-01-01": 3, "2024-01-02": 1}, c.PlannedByDate)
	assert.Equal(t, map[string]int{"2024-01-01": 2, "2024-01-02": 0}, c.CompletedByDate)

	third := stats.CompletionStats(store.Plan{"2024-01-01": {
		workout.ExerciseItem{ExerciseID: "e1"},
		workout.ExerciseItem{ExerciseID: "e2"},
		workout.ExerciseItem{ExerciseID: "e3"},
	}}, logs[:1], []string{"2024-01-01", "2024-01-05"})
	assert.Equal(t, 33.3, third.CompletionRate)
	assert.Equal(t, 0, third.PlannedByDate["2024-01-05"])
}

func TestWeeklyStats(t *testing.T) {
	plan := store.Plan{
		"2024-01-01": {workout.ExerciseItem{ExerciseID: "e1"}},
		"2024-01-03": {workout.RoutineItem{Name: "Core", Color: "y", ExerciseIDs: []string{"e2", "e3"}}},
		"2024-01-08": {workout.ExerciseItem{ExerciseID: "e4"}},
	}
	logs := []workout.LogEntry{
		entry("l1", "e1", "2024-01-01", workout.WeightRepsSet{Weight: 100, Reps: 5}, workout.WeightRepsSet{Weight: 80, Reps: 10}),
		entry("l2", "e2", "2024-01-04", workout.HoldSecondsSet{Seconds: 60}),
		entry("l3", "e1", "2024-01-04", workout.WeightRepsSet{Weight: 50, Reps: 2}),
		entry("l4", "e4", "2024-01-08", workout.DistanceTimeSet{Distance: 3, Seconds: 900}),
	}

	w, err := stats.WeeklyStats(logs, plan, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", w.WeekStartISO)
	assert.Equal(t, 2, w.TotalWorkouts)
	assert.Equal(t, 2, w.TotalExercises)
	assert.Equal(t, 4, w.TotalSets)
	assert.Equal(t, 2, w.TotalPlannedItems)
	assert.Equal(t, 1400.0, w.TotalVolume)
	assert.Equal(t, 66.7, w.CompletionRate)
	assert.Equal(t, map[string]int{"e1": 2, "e2": 1}, w.ExerciseFrequency)

	_, err = stats.WeeklyStats(logs, plan, "not-a-date")
	require.Error(t, err)
}

func TestWorkoutSummary(t *testing.T) {
	logs := []workout.LogEntry{
		entry("l1", "e1", "2024-01-01", workout.WeightRepsSet{Weight: 100, Reps: 5}, workout.WeightRepsSet{Weight: 100, Reps: 6}, workout.WeightRepsSet{Weight: 90, Reps: 10}),
		entry("l2", "e2", "2024-01-01", workout.HoldSecondsSet{Seconds: 30}, workout.HoldSecondsSet{Seconds: 45}),
		entry("l3", "e1", "2024-01-02", workout.WeightRepsSet{Weight: 200, Reps: 1}),
	}

	s := stats.WorkoutSummary(logs, "2024-01-01")
	assert.Equal(t, 2, s.TotalExercises)
	assert.Equal(t, 5, s.TotalSets)
	assert.Equal(t, 2000.0, s.TotalVolume)
	assert.Equal(t, 75.0, s.TotalSeconds)
	require.Len(t, s.Exercises, 2)
	assert.Equal(t, stats.ExerciseSummary{ExerciseID: "e1", Sets: 3, BestSet: workout.WeightRepsSet{Weight: 100, Reps: 6}}, s.Exercises[0])
	assert.Equal(t, workout.HoldSecondsSet{Seconds: 45}, s.Exercises[1].BestSet)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bestSet":{"weight":100,"reps":6}`)

	none := stats.WorkoutSummary(logs, "2024-02-01")
	assert.Equal(t, 0, none.TotalExercises)
	assert.NotNil(t, none.Exercises)
}

func TestExerciseUsage(t *testing.T) {
	plan := store.Plan{
		"2024-01-01": {workout.ExerciseItem{ExerciseID: "e1"}, workout.ExerciseItem{ExerciseID: "e1"}},
		"2024-01-02": {workout.RoutineItem{Name: "Legs", Color: "r", ExerciseIDs: []string{"e1", "e2"}}},
		"2024-01-03": {workout.ExerciseItem{ExerciseID: "e2"}},
	}
	logs := []workout.LogEntry{
		entry("l1", "e1", "2023-12-30"),
		entry("l2", "e1", "2023-12-31"),
	}

	u := stats.ExerciseUsage("e1", plan, logs)
	assert.Equal(t, 2, u.DirectPlanUses)
	assert.Equal(t, 1, u.InRoutineUses)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, u.PlannedDates)
	assert.Equal(t, 2, u.TotalLogEntries)
	assert.Equal(t, "2023-12-31", u.LastLoggedISO)
	assert.False(t, u.CanDelete)

	free := stats.ExerciseUsage("e9", plan, logs)
	assert.True(t, free.CanDelete)
	assert.Empty(t, free.PlannedDates)
}
