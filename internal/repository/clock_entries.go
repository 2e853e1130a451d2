package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/timeutil"
)

// CreateClockEntry opens a work session. The open-entry invariant is
// enforced twice: a check inside the transaction for the friendly error, and
// the partial unique index clock_entries_one_open_per_worker as the hard
// guarantee against two clock-ins racing past the check.
func (r *Repository) CreateClockEntry(entry *domain.ClockEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	hasOpen := false
	query := `
		SELECT EXISTS (SELECT 1 FROM clock_entries WHERE worker_id = $1 AND clock_out_at IS NULL)
	`
	if err := tx.QueryRowContext(ctx, query, entry.WorkerID).Scan(&hasOpen); err != nil {
		return err
	}
	if hasOpen {
		return domain.ErrAlreadyClockedIn
	}

	entry.WorkDate = timeutil.Midnight(entry.ClockInAt)

	query = `
		INSERT INTO clock_entries (worker_id, clock_in_at, work_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, entry.WorkerID, entry.ClockInAt, entry.WorkDate).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "clock_entries_one_open_per_worker" {
			return domain.ErrAlreadyClockedIn
		}
		return err
	}

	return tx.Commit()
}

// GetActiveClockEntry returns the worker's single open entry, or
// domain.ErrNotClockedIn when the worker is not clocked in.
func (r *Repository) GetActiveClockEntry(workerID int64) (*domain.ClockEntry, error) {
	query := `
		SELECT id, clock_in_at, work_date, created_at
		FROM clock_entries
		WHERE worker_id = $1 AND clock_out_at IS NULL
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	entry := &domain.ClockEntry{
		WorkerID: workerID,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, workerID).Scan(&entry.ID, &entry.ClockInAt, &entry.WorkDate, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotClockedIn
		}
		return nil, err
	}

	return entry, nil
}

// CloseClockEntry fills the end timestamp and total exactly once. The
// clock_out_at IS NULL guard makes closing an already-closed entry report
// domain.ErrNotClockedIn instead of silently rewriting history.
func (r *Repository) CloseClockEntry(entry *domain.ClockEntry, clockOutAt time.Time, totalMinutes int32) error {
	query := `
		UPDATE clock_entries
		SET clock_out_at = $1, total_minutes = $2
		WHERE id = $3 AND clock_out_at IS NULL
		RETURNING clock_in_at, work_date, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, clockOutAt, totalMinutes, entry.ID).Scan(&entry.ClockInAt, &entry.WorkDate, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotClockedIn
		}
		return err
	}

	entry.ClockOutAt = &clockOutAt
	entry.TotalMinutes = &totalMinutes

	return nil
}

// GetClockEntries filters on the work_date bucket inclusively; from and to
// are optional. A session that runs past midnight stays on its start date.
func (r *Repository) GetClockEntries(workerID int64, from, to *time.Time) ([]*domain.ClockEntry, error) {
	query := `
		SELECT id, worker_id, clock_in_at, clock_out_at, total_minutes, work_date, created_at
		FROM clock_entries
		WHERE worker_id = $1
			AND ($2::date IS NULL OR work_date >= $2)
			AND ($3::date IS NULL OR work_date <= $3)
		ORDER BY clock_in_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanClockEntries(rows)
}

// GetAllClockEntries is the unscoped variant; access policy gating happens
// at the handler.
func (r *Repository) GetAllClockEntries(from, to *time.Time) ([]*domain.ClockEntry, error) {
	query := `
		SELECT id, worker_id, clock_in_at, clock_out_at, total_minutes, work_date, created_at
		FROM clock_entries
		WHERE ($1::date IS NULL OR work_date >= $1)
			AND ($2::date IS NULL OR work_date <= $2)
		ORDER BY clock_in_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanClockEntries(rows)
}

func scanClockEntries(rows *sql.Rows) ([]*domain.ClockEntry, error) {
	entries := []*domain.ClockEntry{}
	for rows.Next() {
		entry := &domain.ClockEntry{}
		dst := []any{&entry.ID, &entry.WorkerID, &entry.ClockInAt, &entry.ClockOutAt, &entry.TotalMinutes, &entry.WorkDate, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
