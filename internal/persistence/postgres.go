package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutplanner/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultSnapshotID = "default"

const createSnapshotTableSQL = `
CREATE TABLE IF NOT EXISTS planner_snapshot
(
    id         VARCHAR PRIMARY KEY,
    state      JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresBackend stores the snapshot as a JSONB row keyed by snapshot id.
type PostgresBackend struct {
	db         *pgxpool.Pool
	snapshotID string
}

func NewPostgresBackend(db *pgxpool.Pool, snapshotID string) *PostgresBackend {
	if snapshotID == "" {
		snapshotID = DefaultSnapshotID
	}
	return &PostgresBackend{
		db:         db,
		snapshotID: snapshotID,
	}
}

func (b *PostgresBackend) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.postgres.ensure-schema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err = b.db.Exec(ctx, createSnapshotTableSQL); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.postgres.read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("snapshot.id", b.snapshotID))

	var data []byte
	err = b.db.QueryRow(
		ctx,
		`SELECT state FROM planner_snapshot WHERE id = $1;`,
		b.snapshotID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return data, nil
}

func (b *PostgresBackend) Write(ctx context.Context, data []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.postgres.write")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("snapshot.id", b.snapshotID),
		attribute.Int("snapshot.bytes", len(data)),
	)

	tag, err := b.db.Exec(
		ctx,
		`INSERT INTO planner_snapshot (id, state, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at;`,
		b.snapshotID, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	log.Tracef("postgres snapshot %s written, rows affected: %d", b.snapshotID, tag.RowsAffected())
	return nil
}

// Close is a no-op; the pool is owned by whoever created it.
func (b *PostgresBackend) Close() error {
	return nil
}
