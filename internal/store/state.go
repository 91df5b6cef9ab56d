package store

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/workout"
)

var (
	ErrRoutineNotFound  = errors.New("routine not found")
	ErrLogEntryNotFound = errors.New("log entry not found")
)

type PlannerSlice struct {
	Plan                Plan    `json:"plan"`
	CurrentWeekStartISO string  `json:"currentWeekStartISO"`
	Loading             bool    `json:"loading"`
	Error               *string `json:"error"`
}

type SettingsSlice struct {
	Preferences workout.Settings `json:"preferences"`
	Loading     bool             `json:"loading"`
	Error       *string          `json:"error"`
}

// State is the whole application state. Transitions produce new values.
type State struct {
	Exercises Collection[workout.Exercise] `json:"exercises"`
	Routines  Collection[workout.Routine]  `json:"routines"`
	Planner   PlannerSlice                 `json:"planner"`
	Logs      Collection[workout.LogEntry] `json:"logs"`
	Settings  SettingsSlice                `json:"settings"`
}

// Default is the empty state, anchored on the week containing now.
func Default(now time.Time) State {
	settings := workout.DefaultSettings()
	return State{
		Exercises: NewCollection[workout.Exercise](),
		Routines:  NewCollection[workout.Routine](),
		Planner: PlannerSlice{
			Plan:                Plan{},
			CurrentWeekStartISO: calendar.CurrentWeekStart(now, settings.WeekStartDay),
		},
		Logs: NewCollection[workout.LogEntry](),
		Settings: SettingsSlice{
			Preferences: settings,
		},
	}
}

// PartialState is a persisted snapshot whose slices may be missing.
type PartialState struct {
	Exercises *Collection[workout.Exercise] `json:"exercises,omitempty"`
	Routines  *Collection[workout.Routine]  `json:"routines,omitempty"`
	Planner   *PlannerSlice                 `json:"planner,omitempty"`
	Logs      *Collection[workout.LogEntry] `json:"logs,omitempty"`
	Settings  *SettingsSlice                `json:"settings,omitempty"`
}

// Merge fills every missing slice from Default(now) and normalizes the rest.
func (ps PartialState) Merge(now time.Time) State {
	state := Default(now)
	if ps.Exercises != nil {
		state.Exercises = *ps.Exercises
	}
	if ps.Routines != nil {
		state.Routines = *ps.Routines
	}
	if ps.Planner != nil {
		state.Planner = *ps.Planner
	} else {
		// anchor on the stored week start day, recomputed by Normalize
		state.Planner.CurrentWeekStartISO = ""
	}
	if ps.Logs != nil {
		state.Logs = *ps.Logs
	}
	if ps.Settings != nil {
		state.Settings = *ps.Settings
	}
	return state.Normalize(now)
}

// Partial wraps every slice of s.
func (s State) Partial() PartialState {
	return PartialState{
		Exercises: &s.Exercises,
		Routines:  &s.Routines,
		Planner:   &s.Planner,
		Logs:      &s.Logs,
		Settings:  &s.Settings,
	}
}

// Normalize repairs shapes that older or hand-edited snapshots can carry:
// nil containers, dangling ids, empty plan dates, invalid preferences and a
// missing week anchor.
func (s State) Normalize(now time.Time) State {
	s.Exercises = s.Exercises.normalized()
	s.Routines = s.Routines.normalized()
	s.Logs = s.Logs.normalized()

	s.Planner.Plan = s.Planner.Plan.Normalized()

	defaults := workout.DefaultSettings()
	if !s.Settings.Preferences.DefaultUnit.IsValid() {
		s.Settings.Preferences.DefaultUnit = defaults.DefaultUnit
	}
	if !s.Settings.Preferences.WeekStartDay.IsValid() {
		s.Settings.Preferences.WeekStartDay = defaults.WeekStartDay
	}
	if !calendar.IsISODate(s.Planner.CurrentWeekStartISO) {
		s.Planner.CurrentWeekStartISO = calendar.CurrentWeekStart(now, s.Settings.Preferences.WeekStartDay)
	}
	return s
}

// SaveLog adds entry, or replaces the entry with the same id.
func SaveLog(logs Collection[workout.LogEntry], entry workout.LogEntry) Collection[workout.LogEntry] {
	return logs.Upsert(entry)
}

// UpdateLogPayload replaces the sets of an existing log entry.
func UpdateLogPayload(logs Collection[workout.LogEntry], id string, payload workout.LogPayload) (Collection[workout.LogEntry], error) {
	entry, ok := logs.Get(id)
	if !ok {
		return logs, fmt.Errorf("%w: %s", ErrLogEntryNotFound, id)
	}
	entry.Payload = payload.Clone()
	return logs.Update(entry), nil
}

// RemoveLogsByDate drops every entry logged on dateISO.
func RemoveLogsByDate(logs Collection[workout.LogEntry], dateISO string) Collection[workout.LogEntry] {
	next := logs
	for _, entry := range logs.List() {
		if entry.DateISO == dateISO {
			next = next.Remove(entry.ID)
		}
	}
	return next.SetError(nil)
}

// ReorderRoutineExercises sets a new exercise order on the routine definition.
func ReorderRoutineExercises(routines Collection[workout.Routine], routineID string, exerciseIDs []string) (Collection[workout.Routine], error) {
	routine, ok := routines.Get(routineID)
	if !ok {
		return routines, fmt.Errorf("%w: %s", ErrRoutineNotFound, routineID)
	}
	routine.ExerciseIDs = slices.Clone(exerciseIDs)
	return routines.Update(routine), nil
}

// LogsForExercise returns every entry of exerciseID, oldest date first.
func LogsForExercise(logs Collection[workout.LogEntry], exerciseID string) []workout.LogEntry {
	matched := logs.Filter(func(entry workout.LogEntry) bool {
		return entry.ExerciseID == exerciseID
	})
	slices.SortStableFunc(matched, func(a, b workout.LogEntry) int {
		switch {
		case a.DateISO < b.DateISO:
			return -1
		case a.DateISO > b.DateISO:
			return 1
		default:
			return 0
		}
	})
	return matched
}
