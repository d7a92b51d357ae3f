package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
)

// Postgres implements Store over a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// ConnectPostgres builds the pool from DATABASE_URL, falling back to the
// individual POSTGRES_*/PG_* variables, and verifies connectivity.
func ConnectPostgres(ctx context.Context) (*Postgres, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("POSTGRES_USER"),
			os.Getenv("POSTGRES_PASSWORD"),
			os.Getenv("PG_HOST"),
			os.Getenv("PG_PORT"),
			os.Getenv("PG_DATABASE"),
		)
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return &Postgres{db: pool}, nil
}

func (s *Postgres) Close() {
	s.db.Close()
}

// Pool exposes the underlying pool for migrations.
func (s *Postgres) Pool() *pgxpool.Pool {
	return s.db
}

// inTx runs fn inside a transaction, the way every write goes through.
func (s *Postgres) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, fn)
}

// mapErr converts driver errors into the domain taxonomy. Unique violations
// become ErrConflict so a check-then-create race collapses cleanly.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict(op)
	}
	return apperr.Store(op, err)
}
