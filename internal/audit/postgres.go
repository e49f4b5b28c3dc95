package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Ledger is the Postgres-backed Recorder.
type Ledger struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewLedger(pool *pgxpool.Pool, log zerolog.Logger) *Ledger {
	return &Ledger{
		pool: pool,
		log:  log.With().Str("component", "audit").Logger(),
	}
}

// NewPool opens the audit database connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}

	return pool, nil
}

func (l *Ledger) RecordPartialWrite(ctx context.Context, rec Record) {
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now().UTC()
	}

	query := `
		INSERT INTO partial_writes (entity, entity_id, user_id, failed_step, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := l.pool.Exec(ctx, query,
		rec.Entity, rec.EntityID, rec.UserID, rec.FailedStep, rec.Detail, rec.OccurredAt)
	if err != nil {
		// The ledger must never turn a partial write into a lost report;
		// fall back to the log
		l.log.Error().Err(err).
			Str("entity", rec.Entity).
			Str("entity_id", rec.EntityID).
			Str("failed_step", rec.FailedStep).
			Msg("ledger insert failed, partial write only logged")
		return
	}

	l.log.Warn().
		Str("entity", rec.Entity).
		Str("entity_id", rec.EntityID).
		Str("user_id", rec.UserID).
		Str("failed_step", rec.FailedStep).
		Msg("partial write recorded")
}
