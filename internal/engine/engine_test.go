package engine_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/engine"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var testNow = time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)

func newTestEngine() *engine.Engine {
	return engine.NewEngine(func() time.Time { return testNow })
}

func squat() workout.Exercise {
	return workout.Exercise{ID: "squat", Name: "Squat", Color: "#ff0000", Type: workout.ProgressionWeightReps}
}

func bench() workout.Exercise {
	return workout.Exercise{ID: "bench", Name: "Bench", Color: "#00ff00", Type: workout.ProgressionWeightReps}
}

func applyAll(t *testing.T, e *engine.Engine, s store.State, actions ...engine.Action) store.State {
	t.Helper()
	for _, a := range actions {
		res := e.Apply(s, a)
		require.Nil(t, res.Rejected, "action %s rejected", a.Type)
		s = res.State
	}
	return s
}

func TestEngine_SquatScenario(t *testing.T) {
	e := newTestEngine()
	legs := workout.Routine{ID: "r1", Name: "Legs", Color: "blue", ExerciseIDs: []string{"squat", "bench"}}

	s := applyAll(t, e, e.Initial(),
		engine.AddExercise(squat()),
		engine.AddExercise(bench()),
		engine.AddRoutine(legs),
		engine.AddPlanItem("2024-01-01", workout.ExerciseItem{ExerciseID: "squat"}),
		engine.AddPlanItem("2024-01-01", legs.Snapshot()),
		engine.AddPlanItem("2024-01-02", workout.RoutineItem{Name: "Solo", Color: "red", ExerciseIDs: []string{"squat"}}),
		engine.SaveLog(workout.LogEntry{
			ID: "l1", Day: calendar.Monday, ExerciseID: "squat", DateISO: "2024-01-01",
			Payload: workout.LogPayload{Sets: workout.Sets{workout.WeightRepsSet{Weight: 100, Reps: 5}}},
		}),
	)
	require.Equal(t, 3, s.Planner.Plan.TotalItems())

	s = applyAll(t, e, s, engine.RemoveExercise("squat"))

	assert.False(t, s.Exercises.Has("squat"))
	assert.Equal(t, []string{"bench"}, s.Exercises.AllIDs)
	assert.Equal(t, []string{"2024-01-01"}, s.Planner.Plan.Dates())
	assert.Equal(t, workout.PlanItems{
		workout.RoutineItem{Name: "Legs", Color: "blue", ExerciseIDs: []string{"bench"}},
	}, s.Planner.Plan.Items("2024-01-01"))
	assert.False(t, s.Planner.Plan.ReferencesExercise("squat"))

	// the routine definition is not touched by the plan cascade
	r, ok := s.Routines.Get("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"squat", "bench"}, r.ExerciseIDs)

	// log history outlives the exercise
	assert.Equal(t, []string{"l1"}, s.Logs.AllIDs)
	l1, ok := s.Logs.Get("l1")
	require.True(t, ok)
	assert.Equal(t, "squat", l1.ExerciseID)
}

func TestEngine_RemoveRoutineCascade(t *testing.T) {
	e := newTestEngine()
	legs := workout.Routine{ID: "r1", Name: "Legs", Color: "blue", ExerciseIDs: []string{"squat"}}
	s := applyAll(t, e, e.Initial(),
		engine.AddExercise(squat()),
		engine.AddRoutine(legs),
		engine.AddPlanItem("2024-01-01", legs.Snapshot()),
		engine.AddPlanItem("2024-01-01", workout.RoutineItem{Name: "Legs", Color: "green", ExerciseIDs: []string{"squat"}}),
		engine.AddPlanItem("2024-01-03", legs.Snapshot()),
	)

	s = applyAll(t, e, s, engine.RemoveRoutine("r1"))

	assert.Equal(t, 0, s.Routines.Len())
	assert.Equal(t, []string{"2024-01-01"}, s.Planner.Plan.Dates())
	assert.Equal(t, workout.PlanItems{
		workout.RoutineItem{Name: "Legs", Color: "green", ExerciseIDs: []string{"squat"}},
	}, s.Planner.Plan.Items("2024-01-01"))

	// unknown id leaves the plan alone
	again := applyAll(t, e, s, engine.RemoveRoutine("r1"))
	assert.Equal(t, s.Planner.Plan, again.Planner.Plan)
}

func TestEngine_SnapshotsAreFrozen(t *testing.T) {
	e := newTestEngine()
	legs := workout.Routine{ID: "r1", Name: "Legs", Color: "blue", ExerciseIDs: []string{"squat", "bench"}}
	s := applyAll(t, e, e.Initial(),
		engine.AddExercise(squat()),
		engine.AddExercise(bench()),
		engine.AddRoutine(legs),
		engine.AddPlanItem("2024-01-01", legs.Snapshot()),
	)

	edited := legs
	edited.ExerciseIDs = []string{"bench"}
	s = applyAll(t, e, s,
		engine.UpdateRoutine(edited),
		engine.ReorderRoutine("r1", []string{"bench"}),
	)

	assert.Equal(t, workout.PlanItems{legs.Snapshot()}, s.Planner.Plan.Items("2024-01-01"))
}

func TestEngine_PreviousStateUntouched(t *testing.T) {
	e := newTestEngine()
	before := applyAll(t, e, e.Initial(),
		engine.AddExercise(squat()),
		engine.AddPlanItem("2024-01-01", workout.ExerciseItem{ExerciseID: "squat"}),
	)
	beforeJSON, err := json.Marshal(before)
	require.NoError(t, err)

	_ = applyAll(t, e, before,
		engine.RemoveExercise("squat"),
		engine.AddExercise(bench()),
	)

	afterJSON, err := json.Marshal(before)
	require.NoError(t, err)
	assert.JSONEq(t, string(beforeJSON), string(afterJSON))
}

func TestEngine_RejectedActionsBecomeSliceErrors(t *testing.T) {
	e := newTestEngine()
	s := e.Initial()

	tests := []struct {
		name     string
		action   engine.Action
		slice    func(store.State) *string
		contains string
	}{
		{
			name:     "exercise without name",
			action:   engine.AddExercise(workout.Exercise{ID: "x", Color: "red", Type: workout.ProgressionRepsOnly}),
			slice:    func(s store.State) *string { return s.Exercises.Error },
			contains: "exercise.name is required",
		},
		{
			name:     "exercise with unknown type",
			action:   engine.AddExercise(workout.Exercise{ID: "x", Name: "X", Color: "red", Type: "JUMPS"}),
			slice:    func(s store.State) *string { return s.Exercises.Error },
			contains: "exercise.type must be one of",
		},
		{
			name:     "routine without exercises",
			action:   engine.AddRoutine(workout.Routine{ID: "r", Name: "R", Color: "red"}),
			slice:    func(s store.State) *string { return s.Routines.Error },
			contains: "routine.exerciseIds must have at least 1 item(s)",
		},
		{
			name:     "plan with bad date",
			action:   engine.AddPlanItem("2024-02-30", workout.ExerciseItem{ExerciseID: "x"}),
			slice:    func(s store.State) *string { return s.Planner.Error },
			contains: "dateISO must be a YYYY-MM-DD date",
		},
		{
			name:     "log without sets",
			action:   engine.SaveLog(workout.LogEntry{ID: "l1", Day: calendar.Monday, ExerciseID: "x", DateISO: "2024-01-01"}),
			slice:    func(s store.State) *string { return s.Logs.Error },
			contains: "entry.payload.sets must have at least 1 item(s)",
		},
		{
			name: "log with zero reps",
			action: engine.SaveLog(workout.LogEntry{
				ID: "l1", Day: calendar.Monday, ExerciseID: "x", DateISO: "2024-01-01",
				Payload: workout.LogPayload{Sets: workout.Sets{workout.RepsOnlySet{Reps: 0}}},
			}),
			slice:    func(s store.State) *string { return s.Logs.Error },
			contains: "must be at least 1",
		},
		{
			name:     "settings with bad day",
			action:   engine.UpdateSettings(workout.SettingsPatch{WeekStartDay: ptr(calendar.Day("Funday"))}),
			slice:    func(s store.State) *string { return s.Settings.Error },
			contains: "settings.weekStartDay must be a day name",
		},
		{
			name:     "unknown tag",
			action:   engine.Action{Type: "EXERCISES_EXPLODE", Payload: engine.IDPayload{ID: "x"}},
			slice:    func(s store.State) *string { return s.Exercises.Error },
			contains: "unknown action type",
		},
		{
			name:     "wrong payload type",
			action:   engine.Action{Type: engine.PlannerAddItem, Payload: engine.IDPayload{ID: "x"}},
			slice:    func(s store.State) *string { return s.Planner.Error },
			contains: "payload must be AddPlanItemPayload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Apply(s, tt.action)
			require.True(t, res.IsRejected())
			require.NotNil(t, tt.slice(res.State))
			msg := *tt.slice(res.State)
			assert.Contains(t, msg, "Validation failed: ")
			assert.Contains(t, msg, tt.contains)
			assert.Equal(t, tt.action.Type.Slice().ErrorAction(), res.Applied.Type)

			// the original mutation never applied
			assert.Equal(t, 0, res.State.Exercises.Len())
			assert.Equal(t, 0, res.State.Routines.Len())
			assert.True(t, res.State.Planner.Plan.IsEmpty())
			assert.Equal(t, 0, res.State.Logs.Len())
			assert.Equal(t, calendar.Monday, res.State.Settings.Preferences.WeekStartDay)
		})
	}
}

func TestEngine_ZeroValueSetsAccepted(t *testing.T) {
	e := newTestEngine()
	res := e.Apply(e.Initial(), engine.SaveLog(workout.LogEntry{
		ID: "l1", Day: calendar.Monday, ExerciseID: "plank", DateISO: "2024-01-01",
		Payload: workout.LogPayload{Sets: workout.Sets{workout.HoldSecondsSet{Seconds: 0}, workout.WeightRepsSet{Weight: 0, Reps: 5}}},
	}))
	require.False(t, res.IsRejected(), "%v", res.Rejected)
	assert.Equal(t, 1, res.State.Logs.Len())
}

func TestEngine_ApplyRaw(t *testing.T) {
	e := newTestEngine()
	s := e.Initial()

	res := e.ApplyRaw(s, engine.RawAction{
		Type:    engine.ExercisesAdd,
		Payload: json.RawMessage(`{"exercise":{"id":"e1","name":"Plank","color":"#000","type":"HOLD_SECONDS"}}`),
	})
	require.False(t, res.IsRejected())
	s = res.State
	assert.True(t, s.Exercises.Has("e1"))

	res = e.ApplyRaw(s, engine.RawAction{
		Type:    engine.PlannerAddItem,
		Payload: json.RawMessage(`{"dateISO":"2024-01-04","item":{"type":"exercise","id":"e1"}}`),
	})
	require.False(t, res.IsRejected())
	s = res.State
	assert.Equal(t, workout.PlanItems{workout.ExerciseItem{ExerciseID: "e1"}}, s.Planner.Plan.Items("2024-01-04"))

	t.Run("extra keys rejected", func(t *testing.T) {
		res := e.ApplyRaw(s, engine.RawAction{
			Type:    engine.LogsSave,
			Payload: json.RawMessage(`{"entry":{"id":"l1","day":"Monday","exerciseId":"e1","dateISO":"2024-01-01","payload":{"sets":[{"seconds":30,"weight":5}]}}}`),
		})
		require.True(t, res.IsRejected())
		require.NotNil(t, res.State.Logs.Error)
		assert.Contains(t, *res.State.Logs.Error, "malformed payload")
		assert.Equal(t, 0, res.State.Logs.Len())
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		res := e.ApplyRaw(s, engine.RawAction{
			Type:    engine.RoutinesRemove,
			Payload: json.RawMessage(`{"id":"r1","force":true}`),
		})
		require.True(t, res.IsRejected())
		require.NotNil(t, res.State.Routines.Error)
	})

	t.Run("unknown plan item type", func(t *testing.T) {
		res := e.ApplyRaw(s, engine.RawAction{
			Type:    engine.PlannerAddItem,
			Payload: json.RawMessage(`{"dateISO":"2024-01-04","item":{"type":"superset","id":"e1"}}`),
		})
		require.True(t, res.IsRejected())
		require.NotNil(t, res.State.Planner.Error)
		assert.Equal(t, 1, res.State.Planner.Plan.TotalItems())
	})

	t.Run("unknown tag falls back to exercises", func(t *testing.T) {
		res := e.ApplyRaw(s, engine.RawAction{Type: "TELEPORT", Payload: json.RawMessage(`{}`)})
		require.True(t, res.IsRejected())
		assert.Equal(t, engine.ExercisesSetError, res.Applied.Type)
		require.NotNil(t, res.State.Exercises.Error)
	})

	t.Run("empty payload for recalculation", func(t *testing.T) {
		res := e.ApplyRaw(s, engine.RawAction{Type: engine.RecalculateCurrentWeek})
		require.False(t, res.IsRejected())
	})
}

func TestEngine_TrustBoundary(t *testing.T) {
	e := newTestEngine()
	res := e.ApplyRaw(e.Initial(), engine.RawAction{
		Type: engine.LoadFromStorage,
		Payload: json.RawMessage(`{
			"exercises": {"byId": {"e1": {"id":"e1","name":"","color":"","type":"WHATEVER"}}, "allIds": ["e1"]},
			"legacy": true
		}`),
	})
	require.False(t, res.IsRejected())
	s := res.State

	// accepted as is, even though it would fail EXERCISES_ADD
	assert.True(t, s.Exercises.Has("e1"))
	assert.NotNil(t, s.Routines.ByID)
	assert.NotNil(t, s.Planner.Plan)
	assert.Equal(t, "2024-01-01", s.Planner.CurrentWeekStartISO)
	assert.Equal(t, workout.DefaultSettings(), s.Settings.Preferences)

	full := applyAll(t, e, s, engine.AddExercise(bench()))
	replaced := applyAll(t, e, e.Initial(), engine.ReplaceState(full))
	assert.Equal(t, full.Exercises.AllIDs, replaced.Exercises.AllIDs)
}

func TestEngine_WeekStartChangeRecalculatesAnchor(t *testing.T) {
	e := newTestEngine()
	s := e.Initial()
	require.Equal(t, "2024-01-01", s.Planner.CurrentWeekStartISO)

	s = applyAll(t, e, s, engine.SetCurrentWeek("2024-03-04"))
	require.Equal(t, "2024-03-04", s.Planner.CurrentWeekStartISO)

	// unit only: anchor stays
	s = applyAll(t, e, s, engine.UpdateSettings(workout.SettingsPatch{DefaultUnit: ptr(workout.UnitLBS)}))
	assert.Equal(t, "2024-03-04", s.Planner.CurrentWeekStartISO)
	assert.Equal(t, workout.UnitLBS, s.Settings.Preferences.DefaultUnit)

	s = applyAll(t, e, s, engine.UpdateSettings(workout.SettingsPatch{WeekStartDay: ptr(calendar.Sunday)}))
	assert.Equal(t, "2023-12-31", s.Planner.CurrentWeekStartISO)
	assert.Equal(t, workout.UnitLBS, s.Settings.Preferences.DefaultUnit)

	s = applyAll(t, e, s, engine.SetCurrentWeek("2024-03-03"), engine.RecalculateWeek())
	assert.Equal(t, "2023-12-31", s.Planner.CurrentWeekStartISO)
}

func TestEngine_MoveItems(t *testing.T) {
	e := newTestEngine()
	s := applyAll(t, e, e.Initial(),
		engine.AddPlanItem("2024-01-01", workout.ExerciseItem{ExerciseID: "a"}),
		engine.AddPlanItem("2024-01-01", workout.ExerciseItem{ExerciseID: "b"}),
		engine.AddPlanItem("2024-01-01", workout.RoutineItem{Name: "R", Color: "c", ExerciseIDs: []string{"x", "y", "z"}}),
		engine.AddPlanItem("2024-01-02", workout.ExerciseItem{ExerciseID: "d"}),
	)

	s = applyAll(t, e, s, engine.MovePlanItem(store.TopLevelPath("2024-01-01", 2), store.TopLevelPath("2024-01-01", 0)))
	assert.Equal(t, workout.PlanItems{
		workout.RoutineItem{Name: "R", Color: "c", ExerciseIDs: []string{"x", "y", "z"}},
		workout.ExerciseItem{ExerciseID: "a"},
		workout.ExerciseItem{ExerciseID: "b"},
	}, s.Planner.Plan.Items("2024-01-01"))

	s = applyAll(t, e, s, engine.MovePlanItem(store.NestedPath("2024-01-01", 0, 0), store.NestedPath("2024-01-01", 0, 2)))
	assert.Equal(t, []string{"y", "z", "x"}, s.Planner.Plan.Items("2024-01-01")[0].ExerciseRefs())

	noops := []engine.Action{
		engine.MovePlanItem(store.TopLevelPath("2024-01-01", 0), store.TopLevelPath("2024-01-02", 0)),
		engine.MovePlanItem(store.TopLevelPath("2024-01-01", 0), store.NestedPath("2024-01-01", 0, 1)),
		engine.MovePlanItem(store.TopLevelPath("2024-01-01", 0), store.TopLevelPath("2024-01-01", 7)),
		engine.MovePlanItem(store.NestedPath("2024-01-01", 1, 0), store.NestedPath("2024-01-01", 1, 0)),
	}
	for _, a := range noops {
		next := applyAll(t, e, s, a)
		assert.Equal(t, s.Planner.Plan, next.Planner.Plan)
	}
}

func TestEngine_LogOperations(t *testing.T) {
	e := newTestEngine()
	entry := func(id, date string, reps int) workout.LogEntry {
		day, err := calendar.DayForDate(date)
		require.NoError(t, err)
		return workout.LogEntry{
			ID: id, Day: day, ExerciseID: "pushup", DateISO: date,
			Payload: workout.LogPayload{Sets: workout.Sets{workout.RepsOnlySet{Reps: reps}}},
		}
	}

	s := applyAll(t, e, e.Initial(),
		engine.SaveLog(entry("l1", "2024-01-01", 10)),
		engine.SaveLog(entry("l2", "2024-01-01", 12)),
		engine.SaveLog(entry("l3", "2024-01-02", 15)),
		engine.SaveLog(entry("l1", "2024-01-01", 11)),
	)
	assert.Equal(t, []string{"l1", "l2", "l3"}, s.Logs.AllIDs)
	l1, _ := s.Logs.Get("l1")
	assert.Equal(t, workout.Sets{workout.RepsOnlySet{Reps: 11}}, l1.Payload.Sets)

	s = applyAll(t, e, s, engine.UpdateLog("missing", workout.LogPayload{Sets: workout.Sets{workout.RepsOnlySet{Reps: 1}}}))
	require.NotNil(t, s.Logs.Error)
	assert.Equal(t, "Log entry with id missing not found", *s.Logs.Error)

	s = applyAll(t, e, s, engine.UpdateLog("l2", workout.LogPayload{Sets: workout.Sets{workout.RepsOnlySet{Reps: 20}}}))
	assert.Nil(t, s.Logs.Error)

	s = applyAll(t, e, s, engine.RemoveLogsByDate("2024-01-01"))
	assert.Equal(t, []string{"l3"}, s.Logs.AllIDs)
}

func TestEngine_ReorderMissingRoutine(t *testing.T) {
	e := newTestEngine()
	s := applyAll(t, e, e.Initial(), engine.ReorderRoutine("nope", []string{"a"}))
	require.NotNil(t, s.Routines.Error)
	assert.Equal(t, "Routine with id nope not found", *s.Routines.Error)
}

func TestEngine_LoadingAndErrorFlags(t *testing.T) {
	e := newTestEngine()
	msg := "boom"
	s := applyAll(t, e, e.Initial(),
		engine.SetLoading(engine.SlicePlanner, true),
		engine.SetLoading(engine.SliceLogs, true),
	)
	assert.True(t, s.Planner.Loading)
	assert.True(t, s.Logs.Loading)

	s = applyAll(t, e, s, engine.SetError(engine.SliceLogs, &msg))
	assert.False(t, s.Logs.Loading)
	require.NotNil(t, s.Logs.Error)

	s = applyAll(t, e, s, engine.LoadLogs(nil))
	assert.Nil(t, s.Logs.Error)
	assert.True(t, s.Planner.Loading)

	s = applyAll(t, e, s, engine.LoadPlan(store.Plan{"2024-01-05": {workout.ExerciseItem{ExerciseID: "a"}}, "2024-01-06": {}}, "2024-01-01"))
	assert.False(t, s.Planner.Loading)
	assert.Equal(t, []string{"2024-01-05"}, s.Planner.Plan.Dates())
}

func ptr[T any](v T) *T {
	return &v
}
