package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/2beens/workoutplanner/internal/workout"

	"github.com/go-playground/validator/v10"
)

var ErrUnknownAction = errors.New("unknown action type")

// ValidationError describes why an action was turned into an error report.
type ValidationError struct {
	Type   ActionType
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", e.Type, e.Reason)
}

// Message is the text stored in the slice's error field.
func (e *ValidationError) Message() string {
	return "Validation failed: " + e.Reason
}

// Gate checks actions against the schema registered for their tag.
type Gate struct {
	validate *validator.Validate
}

func NewGate() *Gate {
	return &Gate{
		validate: workout.NewValidator(),
	}
}

// Check returns the action unchanged when it passes. Otherwise it returns the
// <SLICE>_SET_ERROR action that replaces it, together with the reason.
func (g *Gate) Check(action Action) (Action, *ValidationError) {
	if verr := g.check(action); verr != nil {
		return rejection(verr), verr
	}
	return action, nil
}

// Decode turns a wire action into a checked typed action. Decoding failures
// are reported the same way as schema failures.
func (g *Gate) Decode(raw RawAction) (Action, *ValidationError) {
	payloadType, ok := payloadTypes[raw.Type]
	if !ok {
		verr := &ValidationError{Type: raw.Type, Reason: fmt.Sprintf("%s %q", ErrUnknownAction, raw.Type)}
		return rejection(verr), verr
	}

	data := raw.Payload
	if len(bytes.TrimSpace(data)) == 0 || string(data) == "null" {
		data = []byte("{}")
	}

	payload := reflect.New(payloadType)
	var err error
	if isTrustBoundary(raw.Type) {
		err = json.Unmarshal(data, payload.Interface())
	} else {
		err = strictUnmarshal(data, payload.Interface())
	}
	if err != nil {
		verr := &ValidationError{Type: raw.Type, Reason: fmt.Sprintf("malformed payload: %s", err)}
		return rejection(verr), verr
	}

	return g.Check(Action{Type: raw.Type, Payload: payload.Elem().Interface()})
}

func (g *Gate) check(action Action) *ValidationError {
	payloadType, ok := payloadTypes[action.Type]
	if !ok {
		return &ValidationError{Type: action.Type, Reason: fmt.Sprintf("%s %q", ErrUnknownAction, action.Type)}
	}
	if action.Payload == nil || reflect.TypeOf(action.Payload) != payloadType {
		return &ValidationError{
			Type:   action.Type,
			Reason: fmt.Sprintf("payload must be %s, got %T", payloadType.Name(), action.Payload),
		}
	}
	if isTrustBoundary(action.Type) {
		return nil
	}

	if err := g.validate.Struct(action.Payload); err != nil {
		return &ValidationError{Type: action.Type, Reason: workout.DescribeValidationError(err)}
	}
	return nil
}

func rejection(verr *ValidationError) Action {
	msg := verr.Message()
	return SetError(verr.Type.Slice(), &msg)
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after payload")
	}
	return nil
}
