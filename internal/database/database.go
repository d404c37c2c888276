package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nastly29/home-organizer/internal/metrics"
)

const (
	defaultTxMaxAttempts = 5
	defaultTxTimeout     = 5 * time.Second
)

var (
	// ErrTxConflict is returned when a transaction keeps losing serialization
	// races after every allowed attempt.
	ErrTxConflict = errors.New("transaction conflict")
	// ErrTxTimeout is returned when a transaction exceeds its deadline.
	ErrTxTimeout = errors.New("transaction timeout")
)

// Pool is the subset of pgxpool.Pool used by the services. pgxmock pools
// satisfy it as well.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type DB struct {
	Pool Pool

	TxMaxAttempts int
	TxTimeout     time.Duration

	url string
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool, url: databaseURL}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// TxFunc is the body of a transaction. It may be invoked more than once, so
// it must not have side effects outside tx.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// InTx runs fn inside a serializable transaction. Serialization failures and
// deadlocks are retried with exponential backoff; any other error aborts
// immediately and is returned unchanged.
func (db *DB) InTx(ctx context.Context, fn TxFunc) error {
	timeout := db.TxTimeout
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	attempts := db.TxMaxAttempts
	if attempts <= 0 {
		attempts = defaultTxMaxAttempts
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		attempt++
		err := db.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if IsRetryable(err) {
			metrics.TxRetries.Inc()
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w after %d attempt(s): %w", ErrTxTimeout, attempt, err)
	case IsRetryable(err):
		return fmt.Errorf("%w after %d attempt(s): %w", ErrTxConflict, attempt, err)
	default:
		return err
	}
}

func (db *DB) runTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// IsRetryable reports whether err is a Postgres serialization failure or
// deadlock.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01":
		return true
	}
	return false
}
