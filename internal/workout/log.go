package workout

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/2beens/workoutplanner/internal/calendar"
)

var ErrUnknownSetShape = errors.New("unrecognized set shape")

// WorkoutSet is one performed set. The variant is picked by the fields present.
type WorkoutSet interface {
	// Shape is the progression type whose sets have this form.
	Shape() ProgressionType
	workoutSet()
}

type WeightRepsSet struct {
	Weight float64 `json:"weight" validate:"gte=0"`
	Reps   int     `json:"reps" validate:"gte=1"`
}

type HoldSecondsSet struct {
	Seconds float64 `json:"seconds" validate:"gte=0"`
}

type RepsOnlySet struct {
	Reps int `json:"reps" validate:"gte=1"`
}

type DistanceTimeSet struct {
	Distance float64 `json:"distance" validate:"gte=0"`
	Seconds  float64 `json:"seconds" validate:"gte=0"`
}

func (WeightRepsSet) workoutSet()   {}
func (HoldSecondsSet) workoutSet()  {}
func (RepsOnlySet) workoutSet()     {}
func (DistanceTimeSet) workoutSet() {}

func (WeightRepsSet) Shape() ProgressionType   { return ProgressionWeightReps }
func (HoldSecondsSet) Shape() ProgressionType  { return ProgressionHoldSeconds }
func (RepsOnlySet) Shape() ProgressionType     { return ProgressionRepsOnly }
func (DistanceTimeSet) Shape() ProgressionType { return ProgressionDistanceTime }

// Sets decodes a JSON array of sets, choosing each variant by its keys.
type Sets []WorkoutSet

func (s *Sets) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := make(Sets, 0, len(raw))
	for idx, r := range raw {
		set, err := DecodeSet(r)
		if err != nil {
			return fmt.Errorf("set %d: %w", idx, err)
		}
		decoded = append(decoded, set)
	}
	*s = decoded
	return nil
}

// DecodeSet decodes one set. Extra keys are rejected so that a set cannot be
// ambiguous between variants.
func DecodeSet(data []byte) (WorkoutSet, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		set WorkoutSet
		err error
	)
	switch strings.Join(keys, ",") {
	case "reps,weight":
		var s WeightRepsSet
		err = json.Unmarshal(data, &s)
		set = s
	case "seconds":
		var s HoldSecondsSet
		err = json.Unmarshal(data, &s)
		set = s
	case "reps":
		var s RepsOnlySet
		err = json.Unmarshal(data, &s)
		set = s
	case "distance,seconds":
		var s DistanceTimeSet
		err = json.Unmarshal(data, &s)
		set = s
	default:
		return nil, fmt.Errorf("%w: keys [%s]", ErrUnknownSetShape, strings.Join(keys, ", "))
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

type LogPayload struct {
	Sets Sets `json:"sets" validate:"min=1,dive,required"`
}

func (p LogPayload) Clone() LogPayload {
	return LogPayload{Sets: slices.Clone(p.Sets)}
}

// LogEntry records one exercise session on one date.
type LogEntry struct {
	ID         string       `json:"id" validate:"required"`
	Day        calendar.Day `json:"day" validate:"weekday"`
	ExerciseID string       `json:"exerciseId" validate:"required"`
	DateISO    string       `json:"dateISO" validate:"isodate"`
	Payload    LogPayload   `json:"payload"`
}

func (l LogEntry) EntityID() string {
	return l.ID
}
