package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/2beens/workoutplanner/internal"
	"github.com/2beens/workoutplanner/internal/config"
	"github.com/2beens/workoutplanner/internal/db"
	"github.com/2beens/workoutplanner/internal/logging"
	"github.com/2beens/workoutplanner/internal/persistence"
	"github.com/2beens/workoutplanner/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// plannerStore is the snapshot loaded from the configured storage. It serves
// the read-only planner tools and writes whole states back on import.
type plannerStore struct {
	adapter *persistence.Adapter
	state   store.State
	closers []func()
}

func openStore(cmd *cobra.Command, opts *rootOptions) (*plannerStore, error) {
	cfg, err := config.Load(opts.env, opts.configPath)
	if err != nil {
		return nil, err
	}

	logrus.SetOutput(cmd.ErrOrStderr())
	if opts.verbose {
		logrus.SetLevel(logging.GetLevel(cfg.LogLevel))
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s := &plannerStore{}
	var dbPool *pgxpool.Pool
	if cfg.StorageBackend == config.StoragePostgres {
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("PLANNER_POSTGRES_PASS"),
		})
		if err != nil {
			return nil, fmt.Errorf("db pool: %w", err)
		}
		s.closers = append(s.closers, dbPool.Close)
	}

	var rdb *redis.Client
	if cfg.StorageBackend == config.StorageRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: os.Getenv("PLANNER_REDIS_PASS"),
		})
		s.closers = append(s.closers, func() {
			_ = rdb.Close()
		})
	}

	backend, err := internal.NewSnapshotBackend(ctx, cfg, dbPool, rdb)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("snapshot backend: %w", err)
	}

	s.adapter = persistence.NewAdapter(backend, nil, nil)
	s.state = s.adapter.Load(ctx)
	return s, nil
}

func (s *plannerStore) Snapshot() (store.State, uint64, error) {
	return s.state, 0, nil
}

func (s *plannerStore) Now() time.Time {
	return time.Now().UTC()
}

func (s *plannerStore) Close() {
	if s.adapter != nil {
		if err := s.adapter.Close(); err != nil {
			logrus.Warnf("close snapshot backend: %s", err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
