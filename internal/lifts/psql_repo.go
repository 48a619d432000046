package lifts

import (
	"context"
	"fmt"

	"github.com/2beens/gymdash/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var entryColumns = []string{"date", "exercise", "weight", "reps", "set_type", "volume", "e1rm"}

const psqlSchema = `
CREATE SCHEMA IF NOT EXISTS lifts;
CREATE TABLE IF NOT EXISTS lifts.entry
(
    id       SERIAL PRIMARY KEY,
    date     TIMESTAMP WITHOUT TIME ZONE NOT NULL,
    exercise VARCHAR          NOT NULL,
    weight   DOUBLE PRECISION NOT NULL,
    reps     INTEGER          NOT NULL,
    set_type VARCHAR          NOT NULL DEFAULT 'NORMAL_SET',
    volume   DOUBLE PRECISION NOT NULL,
    e1rm     DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_entry_date ON lifts.entry (date);
CREATE INDEX IF NOT EXISTS ix_entry_exercise ON lifts.entry (exercise);
`

// PsqlRepo keeps the workout log in the lifts.entry table.
type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

// EnsureSchema creates the lifts schema and table when missing.
func (r *PsqlRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, psqlSchema); err != nil {
		return fmt.Errorf("create lifts schema: %w", err)
	}
	return nil
}

func (r *PsqlRepo) All(ctx context.Context) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.psql.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				date, exercise, weight, reps, set_type, volume, e1rm
			FROM lifts.entry
			ORDER BY date, id;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Exercise, &e.Weight, &e.Reps, &e.SetType, &e.Volume, &e.E1RM); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}

func (r *PsqlRepo) Replace(ctx context.Context, entries []Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.psql.replace")
	span.SetAttributes(attribute.Int("entries", len(entries)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			log.Errorf("rollback replace tx: %s", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM lifts.entry`); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"lifts", "entry"},
		entryColumns,
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{e.Date, e.Exercise, e.Weight, e.Reps, e.SetType, e.Volume, e.E1RM}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy entries: %w", err)
	}
	log.Debugf("psql repo: replaced log with %d entries", copied)

	return tx.Commit(ctx)
}

func (r *PsqlRepo) Add(ctx context.Context, entry Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.psql.add")
	span.SetAttributes(attribute.String("exercise", entry.Exercise))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO lifts.entry
				(date, exercise, weight, reps, set_type, volume, e1rm)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		entry.Date, entry.Exercise, entry.Weight, entry.Reps, entry.SetType, entry.Volume, entry.E1RM,
	)
	return err
}
