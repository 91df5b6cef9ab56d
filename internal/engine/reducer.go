package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/workout"
)

// Reduce applies an already checked action and its cascades, returning the
// next state. It is a pure function of its arguments; now is only read by
// week anchor recalculation and state hydration.
func Reduce(s store.State, action Action, now time.Time) store.State {
	switch action.Type {
	case ReplaceAll, LoadFromStorage:
		partial, _ := action.Payload.(store.PartialState)
		return partial.Merge(now)
	case RecalculateCurrentWeek:
		s.Planner.CurrentWeekStartISO = calendar.CurrentWeekStart(now, s.Settings.Preferences.WeekStartDay)
		return s
	}

	switch action.Type.Slice() {
	case SliceExercises:
		return reduceExercises(s, action)
	case SliceRoutines:
		return reduceRoutines(s, action)
	case SlicePlanner:
		s.Planner = reducePlanner(s.Planner, action)
		return s
	case SliceLogs:
		s.Logs = reduceLogs(s.Logs, action)
		return s
	case SliceSettings:
		return reduceSettings(s, action, now)
	default:
		return s
	}
}

func reduceExercises(s store.State, action Action) store.State {
	switch p := action.Payload.(type) {
	case ExercisePayload:
		if action.Type == ExercisesAdd {
			s.Exercises = s.Exercises.Add(p.Exercise)
		} else {
			s.Exercises = s.Exercises.Update(p.Exercise)
		}
	case IDPayload:
		s.Exercises = s.Exercises.Remove(p.ID)
		s.Planner.Plan = s.Planner.Plan.RemoveExerciseEverywhere(p.ID)
	case ExercisesPayload:
		s.Exercises = s.Exercises.LoadAll(p.Exercises)
	case LoadingPayload:
		s.Exercises = s.Exercises.SetLoading(p.Loading)
	case ErrorPayload:
		s.Exercises = s.Exercises.SetError(p.Error)
	}
	return s
}

func reduceRoutines(s store.State, action Action) store.State {
	switch p := action.Payload.(type) {
	case RoutinePayload:
		if action.Type == RoutinesAdd {
			s.Routines = s.Routines.Add(p.Routine)
		} else {
			s.Routines = s.Routines.Update(p.Routine)
		}
	case IDPayload:
		removed, found := s.Routines.Get(p.ID)
		s.Routines = s.Routines.Remove(p.ID)
		if found {
			s.Planner.Plan = s.Planner.Plan.RemoveRoutineSnapshots(removed.Name, removed.Color)
		}
	case ReorderRoutinePayload:
		routines, err := store.ReorderRoutineExercises(s.Routines, p.RoutineID, p.ExerciseIDs)
		if err != nil {
			s.Routines = s.Routines.SetError(referenceError(err, "Routine", p.RoutineID))
			return s
		}
		s.Routines = routines
	case RoutinesPayload:
		s.Routines = s.Routines.LoadAll(p.Routines)
	case LoadingPayload:
		s.Routines = s.Routines.SetLoading(p.Loading)
	case ErrorPayload:
		s.Routines = s.Routines.SetError(p.Error)
	}
	return s
}

func reducePlanner(planner store.PlannerSlice, action Action) store.PlannerSlice {
	switch p := action.Payload.(type) {
	case PlanItemsPayload:
		planner.Plan = planner.Plan.SetItems(p.DateISO, p.Items)
	case AddPlanItemPayload:
		planner.Plan = planner.Plan.AddItem(p.DateISO, p.Item)
	case RemovePlanItemPayload:
		planner.Plan = planner.Plan.RemoveItem(p.DateISO, p.Index)
	case MovePlanItemPayload:
		planner.Plan, _ = planner.Plan.Move(p.From, p.To)
	case WeekStartPayload:
		planner.CurrentWeekStartISO = p.WeekStartISO
	case ExerciseRefPayload:
		planner.Plan = planner.Plan.RemoveExerciseEverywhere(p.ExerciseID)
	case RoutineIdentityPayload:
		planner.Plan = planner.Plan.RemoveRoutineSnapshots(p.Name, p.Color)
	case LoadPlanPayload:
		planner = store.PlannerSlice{
			Plan:                p.Plan.Normalized(),
			CurrentWeekStartISO: p.CurrentWeekStartISO,
		}
		return planner
	case LoadingPayload:
		planner.Loading = p.Loading
		return planner
	case ErrorPayload:
		planner.Error = p.Error
		planner.Loading = false
		return planner
	}
	planner.Error = nil
	return planner
}

func reduceLogs(logs store.Collection[workout.LogEntry], action Action) store.Collection[workout.LogEntry] {
	switch p := action.Payload.(type) {
	case SaveLogPayload:
		return store.SaveLog(logs, p.Entry)
	case UpdateLogPayload:
		updated, err := store.UpdateLogPayload(logs, p.ID, p.Payload)
		if err != nil {
			return logs.SetError(referenceError(err, "Log entry", p.ID))
		}
		return updated
	case IDPayload:
		return logs.Remove(p.ID)
	case DatePayload:
		return store.RemoveLogsByDate(logs, p.DateISO)
	case LogsPayload:
		return logs.LoadAll(p.Logs)
	case LoadingPayload:
		return logs.SetLoading(p.Loading)
	case ErrorPayload:
		return logs.SetError(p.Error)
	}
	return logs
}

func reduceSettings(s store.State, action Action, now time.Time) store.State {
	switch p := action.Payload.(type) {
	case SettingsPatchPayload:
		previous := s.Settings.Preferences
		s.Settings.Preferences = previous.Apply(p.Settings)
		s.Settings.Error = nil
		if s.Settings.Preferences.WeekStartDay != previous.WeekStartDay {
			s.Planner.CurrentWeekStartISO = calendar.CurrentWeekStart(now, s.Settings.Preferences.WeekStartDay)
		}
	case SettingsPayload:
		s.Settings = store.SettingsSlice{Preferences: p.Settings}
	case LoadingPayload:
		s.Settings.Loading = p.Loading
	case ErrorPayload:
		s.Settings.Error = p.Error
		s.Settings.Loading = false
	}
	return s
}

// referenceError renders the slice error for an update aimed at a missing entity.
func referenceError(err error, entity, id string) *string {
	var msg string
	switch {
	case errors.Is(err, store.ErrRoutineNotFound), errors.Is(err, store.ErrLogEntryNotFound):
		msg = fmt.Sprintf("%s with id %s not found", entity, id)
	default:
		msg = err.Error()
	}
	return &msg
}
