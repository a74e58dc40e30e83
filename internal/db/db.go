package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamboard-backend/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

// InitDB opens the PostgreSQL pool the services share. Pool sizing is
// env-tunable since REST traffic and realtime fan-out run in one process.
func InitDB(connString string) error {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = int32(utils.GetEnvInt("DB_MAX_CONNS", 16))
	config.MinConns = int32(utils.GetEnvInt("DB_MIN_CONNS", 2))
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 15 * time.Minute

	Pool, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	if err := Pool.Ping(context.Background()); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	log.Printf("database pool ready (max %d conns)", config.MaxConns)
	return nil
}

// CloseDB releases the pool on shutdown.
func CloseDB() {
	if Pool != nil {
		Pool.Close()
	}
}
