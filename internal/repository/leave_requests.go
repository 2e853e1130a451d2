package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (r *Repository) CreateLeaveRequest(request *domain.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (worker_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{request.WorkerID, request.StartDate, request.EndDate, request.Reason}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.Status, &request.CreatedAt, &request.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetLeaveRequestByID(id int64) (*domain.LeaveRequest, error) {
	query := `
		SELECT worker_id, start_date, end_date, reason, status, created_at, version
		FROM leave_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.LeaveRequest{
		ID: id,
	}

	dst := []any{&request.WorkerID, &request.StartDate, &request.EndDate, &request.Reason, &request.Status, &request.CreatedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) GetLeaveRequestsByWorker(workerID int64) ([]*domain.LeaveRequest, error) {
	query := `
		SELECT id, worker_id, start_date, end_date, reason, status, created_at, version
		FROM leave_requests
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeaveRequests(rows)
}

func (r *Repository) GetAllLeaveRequests() ([]*domain.LeaveRequest, error) {
	query := `
		SELECT id, worker_id, start_date, end_date, reason, status, created_at, version
		FROM leave_requests
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeaveRequests(rows)
}

func (r *Repository) UpdateLeaveRequestStatus(request *domain.LeaveRequest, status domain.LeaveStatus) error {
	query := `
		UPDATE leave_requests
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING status, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, status, request.ID, request.Version).Scan(&request.Status, &request.Version); err != nil {
		return err
	}

	return nil
}

func scanLeaveRequests(rows *sql.Rows) ([]*domain.LeaveRequest, error) {
	requests := []*domain.LeaveRequest{}
	for rows.Next() {
		request := &domain.LeaveRequest{}
		dst := []any{&request.ID, &request.WorkerID, &request.StartDate, &request.EndDate, &request.Reason, &request.Status, &request.CreatedAt, &request.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
