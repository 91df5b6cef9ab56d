// Package main runs the workout planner MCP server over stdio.
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
// This one reads the configured snapshot storage directly.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"

	"github.com/2beens/workoutplanner/internal"
	"github.com/2beens/workoutplanner/internal/config"
	"github.com/2beens/workoutplanner/internal/db"
	"github.com/2beens/workoutplanner/internal/engine"
	"github.com/2beens/workoutplanner/internal/persistence"
	"github.com/2beens/workoutplanner/internal/planner"
	"github.com/2beens/workoutplanner/internal/plannermcp"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

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
			log.Fatalf("db pool: %v", err)
		}
		defer dbPool.Close()
	}

	var rdb *redis.Client
	if cfg.StorageBackend == config.StorageRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: os.Getenv("PLANNER_REDIS_PASS"),
		})
		defer rdb.Close()
	}

	backend, err := internal.NewSnapshotBackend(ctx, cfg, dbPool, rdb)
	if err != nil {
		log.Fatalf("snapshot backend: %v", err)
	}

	// the MCP tools never dispatch, so nothing is written back
	service := planner.NewService(persistence.NewAdapter(backend, nil, nil), engine.NewEngine(nil), nil)
	if err := service.Start(ctx); err != nil {
		log.Fatalf("start planner: %v", err)
	}
	defer service.Close()

	server := plannermcp.NewServer(service)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
