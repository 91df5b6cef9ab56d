package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/telemetry/metrics"
	"github.com/2beens/workoutplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Adapter loads and saves the whole state through a Backend.
type Adapter struct {
	backend        Backend
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewAdapter(backend Backend, metricsManager *metrics.Manager, now func() time.Time) *Adapter {
	if now == nil {
		now = time.Now
	}
	return &Adapter{
		backend:        backend,
		metricsManager: metricsManager,
		now:            now,
	}
}

// Load returns the stored state merged with defaults. A missing or
// unreadable snapshot yields the default state; the reason is logged.
func (a *Adapter) Load(ctx context.Context) store.State {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.load")
	defer span.End()

	now := a.now().UTC()
	data, err := a.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			log.Infoln("persistence: no stored snapshot, starting from defaults")
		} else {
			log.Errorf("persistence: read snapshot: %s", err)
			span.RecordError(err)
		}
		return store.Default(now)
	}
	span.SetAttributes(attribute.Int("snapshot.bytes", len(data)))

	partial, err := decodePartial(data, FormatJSON)
	if err != nil {
		log.Errorf("persistence: stored snapshot unusable, starting from defaults: %s", err)
		span.RecordError(err)
		return store.Default(now)
	}
	return partial.Merge(now)
}

// Save serializes state and writes it. Failures are logged and counted
// before being returned.
func (a *Adapter) Save(ctx context.Context, state store.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	defer func() {
		if a.metricsManager == nil {
			return
		}
		a.metricsManager.HistSaveDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			a.metricsManager.CounterSaveFailures.Inc()
		} else {
			a.metricsManager.CounterSaves.Inc()
		}
	}()

	data, err := json.Marshal(state)
	if err != nil {
		log.Errorf("persistence: marshal state: %s", err)
		return fmt.Errorf("marshal state: %w", err)
	}
	span.SetAttributes(attribute.Int("snapshot.bytes", len(data)))

	if err := a.backend.Write(ctx, data); err != nil {
		log.Errorf("persistence: write snapshot: %s", err)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (a *Adapter) Export(state store.State, format Format) ([]byte, error) {
	return Export(state, format)
}

// Import parses payload using the adapter's clock for defaults.
func (a *Adapter) Import(payload []byte, format Format) (store.State, error) {
	return Import(payload, format, a.now().UTC())
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
