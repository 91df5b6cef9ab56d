package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/workoutplanner/internal/engine"
	"github.com/2beens/workoutplanner/internal/persistence"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/telemetry/metrics"
	"github.com/2beens/workoutplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotLoaded        = errors.New("planner state not loaded yet")
	ErrClosed           = errors.New("planner service closed")
	ErrExerciseInUse    = errors.New("exercise is used in the plan")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrRoutineNotFound  = errors.New("routine not found")
)

const saveTimeout = 10 * time.Second

// Result is an engine result together with the state revision it produced.
type Result struct {
	engine.Result
	Revision uint64
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=planner_test

type snapshotStore interface {
	Load(ctx context.Context) store.State
	Save(ctx context.Context, state store.State) error
}

// Service owns the single planner state. Transitions are serialized; every
// committed state is handed to a background saver that only keeps the
// latest pending one.
type Service struct {
	engine         *engine.Engine
	snapshots      snapshotStore
	metricsManager *metrics.Manager

	mu       sync.RWMutex
	state    store.State
	revision uint64
	loaded   bool
	closed   bool

	pendingMu sync.Mutex
	pending   *store.State
	wake      chan struct{}
	stop      chan struct{}
	saverDone chan struct{}
	closeOnce sync.Once
}

func NewService(snapshots snapshotStore, eng *engine.Engine, metricsManager *metrics.Manager) *Service {
	if eng == nil {
		eng = engine.NewEngine(nil)
	}
	return &Service{
		engine:         eng,
		snapshots:      snapshots,
		metricsManager: metricsManager,
		wake:           make(chan struct{}, 1),
		stop:           make(chan struct{}),
		saverDone:      make(chan struct{}),
	}
}

// Start loads the stored state once and starts the saver. Calling it again
// is a no-op.
func (s *Service) Start(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.start")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.loaded {
		return nil
	}

	s.state = s.snapshots.Load(ctx)
	s.loaded = true
	log.Infof("planner: state loaded, %d exercises, %d routines, %d plan dates, %d log entries",
		s.state.Exercises.Len(),
		s.state.Routines.Len(),
		len(s.state.Planner.Plan),
		s.state.Logs.Len(),
	)

	go s.saver()
	return nil
}

// Close stops accepting actions, flushes the last pending state and waits
// for the saver to finish.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		started := s.loaded
		s.closed = true
		s.mu.Unlock()

		if !started {
			close(s.saverDone)
			return
		}
		close(s.stop)
		<-s.saverDone
		log.Debugln("planner: saver stopped")
	})
}

// Snapshot returns the current state and its revision.
func (s *Service) Snapshot() (store.State, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return store.State{}, 0, ErrNotLoaded
	}
	return s.state, s.revision, nil
}

func (s *Service) Now() time.Time {
	return s.engine.Now()
}

// Dispatch applies a typed action. A rejected action still yields a new
// state carrying the slice error; it is not a Go error.
func (s *Service) Dispatch(ctx context.Context, action engine.Action) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.dispatch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("action.type", action.Type.String()))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	return s.commit(ctx, s.engine.Apply(s.state, action)), nil
}

// DispatchRaw applies a wire action.
func (s *Service) DispatchRaw(ctx context.Context, raw engine.RawAction) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.dispatch-raw")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("action.type", raw.Type.String()))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	return s.commit(ctx, s.engine.ApplyRaw(s.state, raw)), nil
}

// DeleteExercise removes an exercise unless a plan date still references it,
// directly or inside a routine snapshot. Routine definitions are not checked.
func (s *Service) DeleteExercise(ctx context.Context, exerciseID string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.delete-exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Result{}, err
	}

	if !s.state.Exercises.Has(exerciseID) {
		return Result{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	if dates := s.state.Planner.Plan.DatesReferencing(exerciseID); len(dates) > 0 {
		return Result{}, fmt.Errorf("%w: planned on %s", ErrExerciseInUse, strings.Join(dates, ", "))
	}
	return s.commit(ctx, s.engine.Apply(s.state, engine.RemoveExercise(exerciseID))), nil
}

// DeleteRoutine removes the routine definition and every plan snapshot with
// the same name and color.
func (s *Service) DeleteRoutine(ctx context.Context, routineID string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.delete-routine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Result{}, err
	}

	if !s.state.Routines.Has(routineID) {
		return Result{}, fmt.Errorf("%w: %s", ErrRoutineNotFound, routineID)
	}
	return s.commit(ctx, s.engine.Apply(s.state, engine.RemoveRoutine(routineID))), nil
}

// PlaceRoutine appends a frozen snapshot of the routine to dateISO.
func (s *Service) PlaceRoutine(ctx context.Context, dateISO, routineID string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.place-routine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("routine.id", routineID),
		attribute.String("date", dateISO),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Result{}, err
	}

	routine, ok := s.state.Routines.Get(routineID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrRoutineNotFound, routineID)
	}
	return s.commit(ctx, s.engine.Apply(s.state, engine.AddPlanItem(dateISO, routine.Snapshot()))), nil
}

// ClearDate drops every plan item and every log entry of dateISO.
func (s *Service) ClearDate(ctx context.Context, dateISO string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.clear-date")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", dateISO))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Result{}, err
	}

	res := s.engine.Apply(s.state, engine.UpdatePlan(dateISO, nil))
	if res.IsRejected() {
		return s.commit(ctx, res), nil
	}
	s.countAction(res)
	return s.commit(ctx, s.engine.Apply(res.State, engine.RemoveLogsByDate(dateISO))), nil
}

// MoveItem reorders plan items within a date or inside one routine snapshot.
func (s *Service) MoveItem(ctx context.Context, from, to store.ItemPath) (Result, error) {
	return s.Dispatch(ctx, engine.MovePlanItem(from, to))
}

// Export renders the current state.
func (s *Service) Export(format persistence.Format) ([]byte, error) {
	state, _, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return persistence.Export(state, format)
}

// Import replaces the whole state with an exported snapshot. A malformed
// payload leaves the state untouched.
func (s *Service) Import(ctx context.Context, payload []byte, format persistence.Format) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planner.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("payload.bytes", len(payload)))

	imported, err := persistence.Import(payload, format, s.engine.Now())
	if err != nil {
		return Result{}, fmt.Errorf("import snapshot: %w", err)
	}
	return s.Dispatch(ctx, engine.ReplaceState(imported))
}

// must hold s.mu
func (s *Service) ready() error {
	if s.closed {
		return ErrClosed
	}
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

// must hold s.mu
func (s *Service) commit(ctx context.Context, res engine.Result) Result {
	s.state = res.State
	s.revision++
	s.countAction(res)
	if s.metricsManager != nil {
		s.metricsManager.GaugeRevision.Set(float64(s.revision))
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("state.revision", int64(s.revision)),
		attribute.Bool("action.rejected", res.IsRejected()),
	)
	s.enqueueSave(res.State)
	return Result{Result: res, Revision: s.revision}
}

func (s *Service) countAction(res engine.Result) {
	if s.metricsManager == nil {
		return
	}
	if res.IsRejected() {
		s.metricsManager.CounterRejectedActions.WithLabelValues(res.Rejected.Type.String()).Inc()
		return
	}
	s.metricsManager.CounterActions.WithLabelValues(res.Applied.Type.String()).Inc()
}

func (s *Service) enqueueSave(state store.State) {
	s.pendingMu.Lock()
	s.pending = &state
	s.pendingMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
		log.Traceln("planner: save already pending, coalescing")
	}
}

func (s *Service) saver() {
	defer close(s.saverDone)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.stop:
			s.flush()
			return
		}
	}
}

func (s *Service) flush() {
	s.pendingMu.Lock()
	pending := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	if pending == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.snapshots.Save(ctx, *pending); err != nil {
		// memory state stays authoritative; the next transition retries
		log.Errorf("planner: save state: %s", err)
	}
}
