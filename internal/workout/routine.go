package workout

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownPlanItem = errors.New("unknown plan item type")

type Routine struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color" validate:"required"`
	ExerciseIDs []string `json:"exerciseIds" validate:"min=1,dive,required"`
}

func (r Routine) EntityID() string {
	return r.ID
}

// Snapshot freezes the routine into a plan item that no longer follows edits
// of the routine definition.
func (r Routine) Snapshot() RoutineItem {
	return RoutineItem{
		Name:        r.Name,
		Color:       r.Color,
		ExerciseIDs: slices.Clone(r.ExerciseIDs),
	}
}

type PlanItemKind string

const (
	PlanItemExercise PlanItemKind = "exercise"
	PlanItemRoutine  PlanItemKind = "routine"
)

// PlanItem is one entry of a plan date: either an ExerciseItem or a RoutineItem.
type PlanItem interface {
	Kind() PlanItemKind
	// ExerciseRefs lists every exercise id the item points at.
	ExerciseRefs() []string
	planItem()
}

type ExerciseItem struct {
	ExerciseID string `json:"id" validate:"required"`
}

func (ExerciseItem) planItem() {}

func (ExerciseItem) Kind() PlanItemKind {
	return PlanItemExercise
}

func (i ExerciseItem) ExerciseRefs() []string {
	return []string{i.ExerciseID}
}

func (i ExerciseItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type PlanItemKind `json:"type"`
		ID   string       `json:"id"`
	}{PlanItemExercise, i.ExerciseID})
}

// RoutineItem is a detached copy of a routine, frozen when placed on a date.
type RoutineItem struct {
	Name        string   `json:"name" validate:"required"`
	Color       string   `json:"color" validate:"required"`
	ExerciseIDs []string `json:"exerciseIds" validate:"min=1,dive,required"`
}

func (RoutineItem) planItem() {}

func (RoutineItem) Kind() PlanItemKind {
	return PlanItemRoutine
}

func (i RoutineItem) ExerciseRefs() []string {
	return i.ExerciseIDs
}

// SameRoutine reports whether the snapshot was taken from a routine with the
// given name and color.
func (i RoutineItem) SameRoutine(name, color string) bool {
	return i.Name == name && i.Color == color
}

func (i RoutineItem) MarshalJSON() ([]byte, error) {
	ids := i.ExerciseIDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(struct {
		Type        PlanItemKind `json:"type"`
		Name        string       `json:"name"`
		Color       string       `json:"color"`
		ExerciseIDs []string     `json:"exerciseIds"`
	}{PlanItemRoutine, i.Name, i.Color, ids})
}

// ClonePlanItem returns a copy that shares no slices with item.
func ClonePlanItem(item PlanItem) PlanItem {
	switch it := item.(type) {
	case ExerciseItem:
		return it
	case RoutineItem:
		it.ExerciseIDs = slices.Clone(it.ExerciseIDs)
		return it
	default:
		return item
	}
}

// PlanItems decodes the tagged JSON form of plan items.
type PlanItems []PlanItem

func (items *PlanItems) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := make(PlanItems, 0, len(raw))
	for idx, r := range raw {
		item, err := DecodePlanItem(r)
		if err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}
		decoded = append(decoded, item)
	}
	*items = decoded
	return nil
}

func (items PlanItems) Clone() PlanItems {
	if items == nil {
		return nil
	}
	cloned := make(PlanItems, len(items))
	for i, item := range items {
		cloned[i] = ClonePlanItem(item)
	}
	return cloned
}

// DecodePlanItem decodes a single {"type": ...} plan item.
func DecodePlanItem(data []byte) (PlanItem, error) {
	var head struct {
		Type PlanItemKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case PlanItemExercise:
		var body struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, err
		}
		return ExerciseItem{ExerciseID: body.ID}, nil
	case PlanItemRoutine:
		var body RoutineItem
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, err
		}
		return body, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlanItem, head.Type)
	}
}
