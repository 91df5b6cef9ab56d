package engine

import (
	"time"

	"github.com/2beens/workoutplanner/internal/store"

	log "github.com/sirupsen/logrus"
)

// Result is the outcome of a single transition.
type Result struct {
	State store.State
	// Applied is the action that actually ran: the original one, or the
	// <SLICE>_SET_ERROR action that replaced it.
	Applied  Action
	Rejected *ValidationError
}

func (r Result) IsRejected() bool {
	return r.Rejected != nil
}

// Engine combines the validation gate with the reducer and a clock.
type Engine struct {
	gate *Gate
	now  func() time.Time
}

func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		gate: NewGate(),
		now:  now,
	}
}

func (e *Engine) Now() time.Time {
	return e.now().UTC()
}

// Apply checks action and reduces s with it, or with the error report that
// replaces it.
func (e *Engine) Apply(s store.State, action Action) Result {
	applied, verr := e.gate.Check(action)
	return e.reduce(s, applied, verr)
}

// ApplyRaw decodes and applies a wire action.
func (e *Engine) ApplyRaw(s store.State, raw RawAction) Result {
	applied, verr := e.gate.Decode(raw)
	return e.reduce(s, applied, verr)
}

func (e *Engine) reduce(s store.State, applied Action, verr *ValidationError) Result {
	if verr != nil {
		log.Warnf("engine: action %s rejected: %s", verr.Type, verr.Reason)
	} else {
		log.Tracef("engine: applying %s", applied.Type)
	}
	return Result{
		State:    Reduce(s, applied, e.Now()),
		Applied:  applied,
		Rejected: verr,
	}
}

// Initial is the default state for the engine's clock.
func (e *Engine) Initial() store.State {
	return store.Default(e.Now())
}
