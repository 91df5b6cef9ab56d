package plannermcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/planner"
	"github.com/2beens/workoutplanner/internal/stats"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const defaultTrendDays = 30

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidRange     = errors.New("from_date must not be after to_date")
)

// stateSource provides the current planner state; *planner.Service implements it.
type stateSource interface {
	Snapshot() (store.State, uint64, error)
	Now() time.Time
}

// contextService computes planner context data for the MCP tools.
// Used by Handler for testability.
type contextService interface {
	PersonalBest(ctx context.Context, exerciseID string) (*PersonalBest, error)
	ProgressTrend(ctx context.Context, exerciseID string, days int) (*ProgressTrend, error)
	CompletionStats(ctx context.Context, fromISO, toISO string) (*stats.Completion, error)
	WeekPlan(ctx context.Context, dateISO string) (*planner.Week, error)
}

type PersonalBest struct {
	ExerciseID string      `json:"exerciseId"`
	Name       string      `json:"name"`
	Best       *stats.Best `json:"best"`
	Text       string      `json:"text"`
}

type ProgressTrend struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	stats.Trend
}

// ContextService reads the planner state and runs the stats over it.
type ContextService struct {
	source stateSource
}

func NewContextService(source stateSource) *ContextService {
	return &ContextService{
		source: source,
	}
}

func (s *ContextService) PersonalBest(ctx context.Context, exerciseID string) (_ *PersonalBest, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "plannermcp.personal-best")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	state, _, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}
	exercise, ok := state.Exercises.Get(exerciseID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}

	logs := store.LogsForExercise(state.Logs, exerciseID)
	return &PersonalBest{
		ExerciseID: exercise.ID,
		Name:       exercise.Name,
		Best:       stats.PersonalBest(exercise, logs),
		Text:       stats.FormatPersonalBest(exercise, logs, state.Settings.Preferences.DefaultUnit),
	}, nil
}

// ProgressTrend uses a 30 day window when days is not positive.
func (s *ContextService) ProgressTrend(ctx context.Context, exerciseID string, days int) (_ *ProgressTrend, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "plannermcp.progress-trend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if days <= 0 {
		days = defaultTrendDays
	}
	span.SetAttributes(
		attribute.String("exercise.id", exerciseID),
		attribute.Int("days", days),
	)

	state, _, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}
	exercise, ok := state.Exercises.Get(exerciseID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}

	return &ProgressTrend{
		ExerciseID: exercise.ID,
		Name:       exercise.Name,
		Trend:      stats.ProgressTrend(exercise, state.Logs.List(), days, s.source.Now()),
	}, nil
}

// CompletionStats covers every planned date when both bounds are empty.
func (s *ContextService) CompletionStats(ctx context.Context, fromISO, toISO string) (_ *stats.Completion, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "plannermcp.completion-stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var dates []string
	if fromISO != "" || toISO != "" {
		dates, err = calendar.DatesBetween(fromISO, toISO)
		if err != nil {
			return nil, err
		}
		if len(dates) == 0 {
			return nil, ErrInvalidRange
		}
	}

	state, _, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}
	completion := stats.CompletionStats(state.Planner.Plan, state.Logs.List(), dates)
	return &completion, nil
}

func (s *ContextService) WeekPlan(ctx context.Context, dateISO string) (_ *planner.Week, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "plannermcp.week-plan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, _, err := s.source.Snapshot()
	if err != nil {
		return nil, err
	}
	week, err := planner.WeekPlan(state, dateISO)
	if err != nil {
		return nil, err
	}
	return &week, nil
}
