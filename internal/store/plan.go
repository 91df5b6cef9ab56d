package store

import (
	"slices"
	"sort"

	"github.com/2beens/workoutplanner/internal/workout"
)

// Plan maps ISO dates to the ordered items planned for that day.
// No key ever maps to an empty list. Methods never mutate the receiver.
type Plan map[string]workout.PlanItems

func (p Plan) clone() Plan {
	next := make(Plan, len(p))
	for date, items := range p {
		next[date] = items.Clone()
	}
	return next
}

// Normalized returns a copy without nil items or empty dates.
func (p Plan) Normalized() Plan {
	next := make(Plan, len(p))
	for date, items := range p {
		kept := slices.DeleteFunc(items.Clone(), func(item workout.PlanItem) bool {
			return item == nil
		})
		if len(kept) > 0 {
			next[date] = kept
		}
	}
	return next
}

// Items returns the items for dateISO, or an empty list for unknown dates.
func (p Plan) Items(dateISO string) workout.PlanItems {
	items, ok := p[dateISO]
	if !ok {
		return workout.PlanItems{}
	}
	return items.Clone()
}

// SetItems replaces the items of dateISO; an empty list removes the date.
func (p Plan) SetItems(dateISO string, items workout.PlanItems) Plan {
	next := p.clone()
	if len(items) == 0 {
		delete(next, dateISO)
		return next
	}
	next[dateISO] = items.Clone()
	return next
}

func (p Plan) AddItem(dateISO string, item workout.PlanItem) Plan {
	items := p.Items(dateISO)
	items = append(items, workout.ClonePlanItem(item))
	return p.SetItems(dateISO, items)
}

// RemoveItem deletes the item at index; an out of range index is a no-op.
func (p Plan) RemoveItem(dateISO string, index int) Plan {
	items := p.Items(dateISO)
	if index < 0 || index >= len(items) {
		return p.clone()
	}
	return p.SetItems(dateISO, slices.Delete(items, index, index+1))
}

func (p Plan) Reorder(dateISO string, newOrder workout.PlanItems) Plan {
	return p.SetItems(dateISO, newOrder)
}

// RemoveExerciseEverywhere strips exerciseID from direct items and from every
// routine snapshot. Snapshots and dates left empty are dropped.
func (p Plan) RemoveExerciseEverywhere(exerciseID string) Plan {
	next := make(Plan, len(p))
	for date, items := range p {
		kept := make(workout.PlanItems, 0, len(items))
		for _, item := range items {
			switch it := item.(type) {
			case workout.ExerciseItem:
				if it.ExerciseID == exerciseID {
					continue
				}
				kept = append(kept, it)
			case workout.RoutineItem:
				ids := slices.DeleteFunc(slices.Clone(it.ExerciseIDs), func(id string) bool {
					return id == exerciseID
				})
				if len(ids) == 0 {
					continue
				}
				it.ExerciseIDs = ids
				kept = append(kept, it)
			}
		}
		if len(kept) > 0 {
			next[date] = kept
		}
	}
	return next
}

// RemoveRoutineSnapshots drops every routine snapshot matching name and color.
func (p Plan) RemoveRoutineSnapshots(name, color string) Plan {
	next := make(Plan, len(p))
	for date, items := range p {
		kept := make(workout.PlanItems, 0, len(items))
		for _, item := range items {
			if it, ok := item.(workout.RoutineItem); ok && it.SameRoutine(name, color) {
				continue
			}
			kept = append(kept, workout.ClonePlanItem(item))
		}
		if len(kept) > 0 {
			next[date] = kept
		}
	}
	return next
}

// ReferencesExercise reports whether any date holds exerciseID directly or
// inside a routine snapshot.
func (p Plan) ReferencesExercise(exerciseID string) bool {
	for _, items := range p {
		for _, item := range items {
			if slices.Contains(item.ExerciseRefs(), exerciseID) {
				return true
			}
		}
	}
	return false
}

// DatesReferencing lists, sorted, the dates that reference exerciseID.
func (p Plan) DatesReferencing(exerciseID string) []string {
	var dates []string
	for date, items := range p {
		for _, item := range items {
			if slices.Contains(item.ExerciseRefs(), exerciseID) {
				dates = append(dates, date)
				break
			}
		}
	}
	sort.Strings(dates)
	return dates
}

// Dates returns every planned date in ascending order.
func (p Plan) Dates() []string {
	dates := make([]string, 0, len(p))
	for date := range p {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func (p Plan) TotalItems() int {
	total := 0
	for _, items := range p {
		total += len(items)
	}
	return total
}

func (p Plan) IsEmpty() bool {
	return len(p) == 0
}

// PlannedExercises lists the distinct exercise ids planned on dateISO, in
// the order they first appear.
func (p Plan) PlannedExercises(dateISO string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, item := range p[dateISO] {
		for _, id := range item.ExerciseRefs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Move relocates a single item. Both paths must be top level on the same
// date, or nested in the same routine snapshot of the same date; anything
// else, including out of range indices, leaves the plan unchanged and
// reports false.
func (p Plan) Move(from, to ItemPath) (Plan, bool) {
	if from.DateISO != to.DateISO || from.IsNested() != to.IsNested() {
		return p, false
	}
	items, ok := p[from.DateISO]
	if !ok {
		return p, false
	}

	if !from.IsNested() {
		if !inRange(from.Index, len(items)) || !inRange(to.Index, len(items)) {
			return p, false
		}
		return p.SetItems(from.DateISO, moveElement(items.Clone(), from.Index, to.Index)), true
	}

	if from.Index != to.Index || !inRange(from.Index, len(items)) {
		return p, false
	}
	routine, ok := items[from.Index].(workout.RoutineItem)
	if !ok {
		return p, false
	}
	n := len(routine.ExerciseIDs)
	if !inRange(*from.ExerciseIndex, n) || !inRange(*to.ExerciseIndex, n) {
		return p, false
	}

	routine.ExerciseIDs = moveElement(slices.Clone(routine.ExerciseIDs), *from.ExerciseIndex, *to.ExerciseIndex)
	updated := items.Clone()
	updated[from.Index] = routine
	return p.SetItems(from.DateISO, updated), true
}

func inRange(idx, n int) bool {
	return idx >= 0 && idx < n
}

func moveElement[S ~[]E, E any](s S, from, to int) S {
	if from == to {
		return s
	}
	moved := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, moved)
}

// ItemPath addresses a plan item: Index is the position in the date's list;
// when ExerciseIndex is set the path points inside the routine snapshot at
// Index.
type ItemPath struct {
	DateISO       string `json:"date" validate:"isodate"`
	Index         int    `json:"index" validate:"gte=0"`
	ExerciseIndex *int   `json:"exerciseIndex,omitempty" validate:"omitempty,gte=0"`
}

func TopLevelPath(dateISO string, index int) ItemPath {
	return ItemPath{DateISO: dateISO, Index: index}
}

func NestedPath(dateISO string, routineIndex, exerciseIndex int) ItemPath {
	return ItemPath{DateISO: dateISO, Index: routineIndex, ExerciseIndex: &exerciseIndex}
}

func (ip ItemPath) IsNested() bool {
	return ip.ExerciseIndex != nil
}
