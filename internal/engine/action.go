package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/workout"
)

type ActionType string

const (
	ExercisesAdd        ActionType = "EXERCISES_ADD"
	ExercisesRemove     ActionType = "EXERCISES_REMOVE"
	ExercisesUpdate     ActionType = "EXERCISES_UPDATE"
	ExercisesSetLoading ActionType = "EXERCISES_SET_LOADING"
	ExercisesSetError   ActionType = "EXERCISES_SET_ERROR"
	ExercisesLoadAll    ActionType = "EXERCISES_LOAD_ALL"

	RoutinesAdd              ActionType = "ROUTINES_ADD"
	RoutinesRemove           ActionType = "ROUTINES_REMOVE"
	RoutinesUpdate           ActionType = "ROUTINES_UPDATE"
	RoutinesReorderExercises ActionType = "ROUTINES_REORDER_EXERCISES"
	RoutinesSetLoading       ActionType = "ROUTINES_SET_LOADING"
	RoutinesSetError         ActionType = "ROUTINES_SET_ERROR"
	RoutinesLoadAll          ActionType = "ROUTINES_LOAD_ALL"

	PlannerUpdatePlan             ActionType = "PLANNER_UPDATE_PLAN"
	PlannerReorderItems           ActionType = "PLANNER_REORDER_ITEMS"
	PlannerAddItem                ActionType = "PLANNER_ADD_ITEM"
	PlannerRemoveItem             ActionType = "PLANNER_REMOVE_ITEM"
	PlannerMoveItem               ActionType = "PLANNER_MOVE_ITEM"
	PlannerSetCurrentWeek         ActionType = "PLANNER_SET_CURRENT_WEEK"
	PlannerRemoveExerciseFromPlan ActionType = "PLANNER_REMOVE_EXERCISE_FROM_PLAN"
	PlannerRemoveRoutineFromPlan  ActionType = "PLANNER_REMOVE_ROUTINE_FROM_PLAN"
	PlannerSetLoading             ActionType = "PLANNER_SET_LOADING"
	PlannerSetError               ActionType = "PLANNER_SET_ERROR"
	PlannerLoadPlan               ActionType = "PLANNER_LOAD_PLAN"

	LogsSave         ActionType = "LOGS_SAVE"
	LogsUpdate       ActionType = "LOGS_UPDATE"
	LogsRemove       ActionType = "LOGS_REMOVE"
	LogsRemoveByDate ActionType = "LOGS_REMOVE_BY_DATE"
	LogsSetLoading   ActionType = "LOGS_SET_LOADING"
	LogsSetError     ActionType = "LOGS_SET_ERROR"
	LogsLoadAll      ActionType = "LOGS_LOAD_ALL"

	SettingsUpdate     ActionType = "SETTINGS_UPDATE"
	SettingsSetLoading ActionType = "SETTINGS_SET_LOADING"
	SettingsSetError   ActionType = "SETTINGS_SET_ERROR"
	SettingsLoad       ActionType = "SETTINGS_LOAD"

	ReplaceAll             ActionType = "REPLACE_ALL"
	LoadFromStorage        ActionType = "LOAD_FROM_STORAGE"
	RecalculateCurrentWeek ActionType = "RECALCULATE_CURRENT_WEEK"
)

func (at ActionType) String() string {
	return string(at)
}

func (at ActionType) IsValid() bool {
	_, ok := payloadTypes[at]
	return ok
}

// Slice names the part of the state an action belongs to.
type Slice string

const (
	SliceExercises Slice = "EXERCISES"
	SliceRoutines  Slice = "ROUTINES"
	SlicePlanner   Slice = "PLANNER"
	SliceLogs      Slice = "LOGS"
	SliceSettings  Slice = "SETTINGS"
	SliceRoot      Slice = ""
)

// Slice returns the owning slice by tag prefix; root and unknown tags
// return SliceRoot.
func (at ActionType) Slice() Slice {
	for _, s := range []Slice{SliceExercises, SliceRoutines, SlicePlanner, SliceLogs, SliceSettings} {
		if strings.HasPrefix(string(at), string(s)+"_") {
			return s
		}
	}
	return SliceRoot
}

// ErrorAction is the <SLICE>_SET_ERROR tag for the slice; root falls back to
// the exercises slice.
func (s Slice) ErrorAction() ActionType {
	switch s {
	case SliceRoutines:
		return RoutinesSetError
	case SlicePlanner:
		return PlannerSetError
	case SliceLogs:
		return LogsSetError
	case SliceSettings:
		return SettingsSetError
	default:
		return ExercisesSetError
	}
}

// Action is a typed action; Payload must be the payload type registered for Type.
type Action struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload"`
}

// RawAction is the wire form of an action.
type RawAction struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ExercisePayload struct {
	Exercise workout.Exercise `json:"exercise"`
}

type ExercisesPayload struct {
	Exercises []workout.Exercise `json:"exercises" validate:"dive"`
}

type IDPayload struct {
	ID string `json:"id" validate:"required"`
}

type RoutinePayload struct {
	Routine workout.Routine `json:"routine"`
}

type RoutinesPayload struct {
	Routines []workout.Routine `json:"routines" validate:"dive"`
}

type ReorderRoutinePayload struct {
	RoutineID   string   `json:"routineId" validate:"required"`
	ExerciseIDs []string `json:"exerciseIds" validate:"min=1,dive,required"`
}

type PlanItemsPayload struct {
	DateISO string            `json:"dateISO" validate:"isodate"`
	Items   workout.PlanItems `json:"items" validate:"dive,required"`
}

type AddPlanItemPayload struct {
	DateISO string           `json:"dateISO" validate:"isodate"`
	Item    workout.PlanItem `json:"item" validate:"required"`
}

func (p *AddPlanItemPayload) UnmarshalJSON(data []byte) error {
	var aux struct {
		DateISO string          `json:"dateISO"`
		Item    json.RawMessage `json:"item"`
	}
	if err := strictUnmarshal(data, &aux); err != nil {
		return err
	}
	p.DateISO = aux.DateISO
	if len(aux.Item) == 0 || string(aux.Item) == "null" {
		p.Item = nil
		return nil
	}
	item, err := workout.DecodePlanItem(aux.Item)
	if err != nil {
		return fmt.Errorf("item: %w", err)
	}
	p.Item = item
	return nil
}

type RemovePlanItemPayload struct {
	DateISO string `json:"dateISO" validate:"isodate"`
	Index   int    `json:"index" validate:"gte=0"`
}

type MovePlanItemPayload struct {
	From store.ItemPath `json:"from"`
	To   store.ItemPath `json:"to"`
}

type WeekStartPayload struct {
	WeekStartISO string `json:"weekStartISO" validate:"isodate"`
}

type ExerciseRefPayload struct {
	ExerciseID string `json:"exerciseId" validate:"required"`
}

type RoutineIdentityPayload struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required"`
}

type LoadPlanPayload struct {
	Plan                store.Plan `json:"plan" validate:"dive,keys,isodate,endkeys,dive,required"`
	CurrentWeekStartISO string     `json:"currentWeekStartISO" validate:"isodate"`
}

type SaveLogPayload struct {
	Entry workout.LogEntry `json:"entry"`
}

type UpdateLogPayload struct {
	ID      string             `json:"id" validate:"required"`
	Payload workout.LogPayload `json:"payload"`
}

type DatePayload struct {
	DateISO string `json:"dateISO" validate:"isodate"`
}

type LogsPayload struct {
	Logs []workout.LogEntry `json:"logs" validate:"dive"`
}

type SettingsPatchPayload struct {
	Settings workout.SettingsPatch `json:"settings"`
}

type SettingsPayload struct {
	Settings workout.Settings `json:"settings"`
}

type LoadingPayload struct {
	Loading bool `json:"loading"`
}

type ErrorPayload struct {
	Error *string `json:"error"`
}

type EmptyPayload struct{}

// payloadTypes binds every known tag to its payload type.
var payloadTypes = map[ActionType]reflect.Type{
	ExercisesAdd:        typeOf[ExercisePayload](),
	ExercisesRemove:     typeOf[IDPayload](),
	ExercisesUpdate:     typeOf[ExercisePayload](),
	ExercisesSetLoading: typeOf[LoadingPayload](),
	ExercisesSetError:   typeOf[ErrorPayload](),
	ExercisesLoadAll:    typeOf[ExercisesPayload](),

	RoutinesAdd:              typeOf[RoutinePayload](),
	RoutinesRemove:           typeOf[IDPayload](),
	RoutinesUpdate:           typeOf[RoutinePayload](),
	RoutinesReorderExercises: typeOf[ReorderRoutinePayload](),
	RoutinesSetLoading:       typeOf[LoadingPayload](),
	RoutinesSetError:         typeOf[ErrorPayload](),
	RoutinesLoadAll:          typeOf[RoutinesPayload](),

	PlannerUpdatePlan:             typeOf[PlanItemsPayload](),
	PlannerReorderItems:           typeOf[PlanItemsPayload](),
	PlannerAddItem:                typeOf[AddPlanItemPayload](),
	PlannerRemoveItem:             typeOf[RemovePlanItemPayload](),
	PlannerMoveItem:               typeOf[MovePlanItemPayload](),
	PlannerSetCurrentWeek:         typeOf[WeekStartPayload](),
	PlannerRemoveExerciseFromPlan: typeOf[ExerciseRefPayload](),
	PlannerRemoveRoutineFromPlan:  typeOf[RoutineIdentityPayload](),
	PlannerSetLoading:             typeOf[LoadingPayload](),
	PlannerSetError:               typeOf[ErrorPayload](),
	PlannerLoadPlan:               typeOf[LoadPlanPayload](),

	LogsSave:         typeOf[SaveLogPayload](),
	LogsUpdate:       typeOf[UpdateLogPayload](),
	LogsRemove:       typeOf[IDPayload](),
	LogsRemoveByDate: typeOf[DatePayload](),
	LogsSetLoading:   typeOf[LoadingPayload](),
	LogsSetError:     typeOf[ErrorPayload](),
	LogsLoadAll:      typeOf[LogsPayload](),

	SettingsUpdate:     typeOf[SettingsPatchPayload](),
	SettingsSetLoading: typeOf[LoadingPayload](),
	SettingsSetError:   typeOf[ErrorPayload](),
	SettingsLoad:       typeOf[SettingsPayload](),

	ReplaceAll:             typeOf[store.PartialState](),
	LoadFromStorage:        typeOf[store.PartialState](),
	RecalculateCurrentWeek: typeOf[EmptyPayload](),
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// isTrustBoundary marks tags whose payloads come from persisted data and
// skip schema checks.
func isTrustBoundary(at ActionType) bool {
	return at == ReplaceAll || at == LoadFromStorage
}

func AddExercise(ex workout.Exercise) Action {
	return Action{Type: ExercisesAdd, Payload: ExercisePayload{Exercise: ex}}
}

func UpdateExercise(ex workout.Exercise) Action {
	return Action{Type: ExercisesUpdate, Payload: ExercisePayload{Exercise: ex}}
}

func RemoveExercise(id string) Action {
	return Action{Type: ExercisesRemove, Payload: IDPayload{ID: id}}
}

func LoadExercises(exercises []workout.Exercise) Action {
	return Action{Type: ExercisesLoadAll, Payload: ExercisesPayload{Exercises: exercises}}
}

func AddRoutine(r workout.Routine) Action {
	return Action{Type: RoutinesAdd, Payload: RoutinePayload{Routine: r}}
}

func UpdateRoutine(r workout.Routine) Action {
	return Action{Type: RoutinesUpdate, Payload: RoutinePayload{Routine: r}}
}

func RemoveRoutine(id string) Action {
	return Action{Type: RoutinesRemove, Payload: IDPayload{ID: id}}
}

func ReorderRoutine(routineID string, exerciseIDs []string) Action {
	return Action{Type: RoutinesReorderExercises, Payload: ReorderRoutinePayload{RoutineID: routineID, ExerciseIDs: exerciseIDs}}
}

func LoadRoutines(routines []workout.Routine) Action {
	return Action{Type: RoutinesLoadAll, Payload: RoutinesPayload{Routines: routines}}
}

func UpdatePlan(dateISO string, items workout.PlanItems) Action {
	return Action{Type: PlannerUpdatePlan, Payload: PlanItemsPayload{DateISO: dateISO, Items: items}}
}

func ReorderPlanItems(dateISO string, items workout.PlanItems) Action {
	return Action{Type: PlannerReorderItems, Payload: PlanItemsPayload{DateISO: dateISO, Items: items}}
}

func AddPlanItem(dateISO string, item workout.PlanItem) Action {
	return Action{Type: PlannerAddItem, Payload: AddPlanItemPayload{DateISO: dateISO, Item: item}}
}

func RemovePlanItem(dateISO string, index int) Action {
	return Action{Type: PlannerRemoveItem, Payload: RemovePlanItemPayload{DateISO: dateISO, Index: index}}
}

func MovePlanItem(from, to store.ItemPath) Action {
	return Action{Type: PlannerMoveItem, Payload: MovePlanItemPayload{From: from, To: to}}
}

func SetCurrentWeek(weekStartISO string) Action {
	return Action{Type: PlannerSetCurrentWeek, Payload: WeekStartPayload{WeekStartISO: weekStartISO}}
}

func RemoveExerciseFromPlan(exerciseID string) Action {
	return Action{Type: PlannerRemoveExerciseFromPlan, Payload: ExerciseRefPayload{ExerciseID: exerciseID}}
}

func RemoveRoutineFromPlan(name, color string) Action {
	return Action{Type: PlannerRemoveRoutineFromPlan, Payload: RoutineIdentityPayload{Name: name, Color: color}}
}

func LoadPlan(plan store.Plan, currentWeekStartISO string) Action {
	return Action{Type: PlannerLoadPlan, Payload: LoadPlanPayload{Plan: plan, CurrentWeekStartISO: currentWeekStartISO}}
}

func SaveLog(entry workout.LogEntry) Action {
	return Action{Type: LogsSave, Payload: SaveLogPayload{Entry: entry}}
}

func UpdateLog(id string, payload workout.LogPayload) Action {
	return Action{Type: LogsUpdate, Payload: UpdateLogPayload{ID: id, Payload: payload}}
}

func RemoveLog(id string) Action {
	return Action{Type: LogsRemove, Payload: IDPayload{ID: id}}
}

func RemoveLogsByDate(dateISO string) Action {
	return Action{Type: LogsRemoveByDate, Payload: DatePayload{DateISO: dateISO}}
}

func LoadLogs(logs []workout.LogEntry) Action {
	return Action{Type: LogsLoadAll, Payload: LogsPayload{Logs: logs}}
}

func UpdateSettings(patch workout.SettingsPatch) Action {
	return Action{Type: SettingsUpdate, Payload: SettingsPatchPayload{Settings: patch}}
}

func LoadSettings(settings workout.Settings) Action {
	return Action{Type: SettingsLoad, Payload: SettingsPayload{Settings: settings}}
}

func SetLoading(slice Slice, loading bool) Action {
	tag := ActionType(string(slice) + "_SET_LOADING")
	if slice == SliceRoot {
		tag = ExercisesSetLoading
	}
	return Action{Type: tag, Payload: LoadingPayload{Loading: loading}}
}

// SetError sets msg on the slice; a nil msg clears the error.
func SetError(slice Slice, msg *string) Action {
	return Action{Type: slice.ErrorAction(), Payload: ErrorPayload{Error: msg}}
}

func ReplaceState(s store.State) Action {
	return Action{Type: ReplaceAll, Payload: s.Partial()}
}

func LoadState(ps store.PartialState) Action {
	return Action{Type: LoadFromStorage, Payload: ps}
}

func RecalculateWeek() Action {
	return Action{Type: RecalculateCurrentWeek, Payload: EmptyPayload{}}
}
