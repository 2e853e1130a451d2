package repository

import (
	"context"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, designation, access_level, is_active, created_at, version
		FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		ID: id,
	}

	dst := []any{&worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.Designation, &worker.AccessLevel, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadWorkerTeams(ctx, worker); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetWorkerByUsername(username string) (*domain.Worker, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, designation, access_level, is_active, created_at, version
		FROM workers WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		Username: username,
	}

	dst := []any{&worker.ID, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.Designation, &worker.AccessLevel, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadWorkerTeams(ctx, worker); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetAllWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, designation, access_level, is_active, created_at, version
		FROM workers
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	byID := make(map[int64]*domain.Worker)
	for rows.Next() {
		worker := &domain.Worker{AccessTeams: []int64{}}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.Designation, &worker.AccessLevel, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
		byID[worker.ID] = worker
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `SELECT worker_id, team_id FROM worker_teams`
	teamRows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer teamRows.Close()

	for teamRows.Next() {
		var workerID, teamID int64
		if err := teamRows.Scan(&workerID, &teamID); err != nil {
			return nil, err
		}
		if worker, ok := byID[workerID]; ok {
			worker.AccessTeams = append(worker.AccessTeams, teamID)
		}
	}

	if err := teamRows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) CreateWorker(worker *domain.Worker) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO workers (username, password_hash, full_name, email, role, designation, access_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at, version
	`

	args := []any{worker.Username, worker.PasswordHash, worker.FullName, worker.Email, worker.Role, worker.Designation, worker.AccessLevel}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&worker.ID, &worker.IsActive, &worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	for _, teamID := range worker.AccessTeams {
		query = `INSERT INTO worker_teams (worker_id, team_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, worker.ID, teamID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateWorker(worker *domain.Worker) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE workers
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			designation = $4,
			access_level = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING username, full_name, created_at, version
	`

	args := []any{worker.PasswordHash, worker.Email, worker.Role, worker.Designation, worker.AccessLevel, worker.IsActive, worker.ID, worker.Version}
	dst := []any{&worker.Username, &worker.FullName, &worker.CreatedAt, &worker.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	query = `DELETE FROM worker_teams WHERE worker_id = $1`
	if _, err := tx.ExecContext(ctx, query, worker.ID); err != nil {
		return err
	}
	for _, teamID := range worker.AccessTeams {
		query = `INSERT INTO worker_teams (worker_id, team_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, worker.ID, teamID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeactivateWorker soft-disables the account. Workers are never hard-deleted
// while clock entries reference them.
func (r *Repository) DeactivateWorker(id int64) error {
	query := `
		UPDATE workers SET is_active = FALSE, version = version + 1 WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM workers WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) loadWorkerTeams(ctx context.Context, worker *domain.Worker) error {
	query := `SELECT team_id FROM worker_teams WHERE worker_id = $1 ORDER BY team_id`

	rows, err := r.dbpool.QueryContext(ctx, query, worker.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	worker.AccessTeams = []int64{}
	for rows.Next() {
		var teamID int64
		if err := rows.Scan(&teamID); err != nil {
			return err
		}
		worker.AccessTeams = append(worker.AccessTeams, teamID)
	}

	return rows.Err()
}
