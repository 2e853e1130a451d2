package repository

import (
	"context"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (r *Repository) GetTaskByID(id int64) (*domain.Task, error) {
	query := `
		SELECT team_id, assignee_id, title, description, status, completed_at, created_at, version
		FROM tasks WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	task := &domain.Task{
		ID: id,
	}

	dst := []any{&task.TeamID, &task.AssigneeID, &task.Title, &task.Description, &task.Status, &task.CompletedAt, &task.CreatedAt, &task.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *Repository) GetTasksByTeams(teamIDs []int64) ([]*domain.Task, error) {
	query := `
		SELECT id, team_id, assignee_id, title, description, status, completed_at, created_at, version
		FROM tasks
		WHERE team_id = ANY($1)
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task := &domain.Task{}
		dst := []any{&task.ID, &task.TeamID, &task.AssigneeID, &task.Title, &task.Description, &task.Status, &task.CompletedAt, &task.CreatedAt, &task.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *Repository) CreateTask(task *domain.Task) error {
	query := `
		INSERT INTO tasks (team_id, assignee_id, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{task.TeamID, task.AssigneeID, task.Title, task.Description, task.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.Version); err != nil {
		return err
	}

	return nil
}

// UpdateTaskStatus moves a task through its status set. completed_at is
// stamped exactly when the task enters done and cleared if it ever leaves.
func (r *Repository) UpdateTaskStatus(task *domain.Task, status domain.TaskStatus) error {
	query := `
		UPDATE tasks
		SET
			status = $1,
			completed_at = CASE
				WHEN $1 = 'done' AND status <> 'done' THEN NOW()
				WHEN $1 <> 'done' THEN NULL
				ELSE completed_at
			END,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING status, completed_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, status, task.ID, task.Version).Scan(&task.Status, &task.CompletedAt, &task.Version); err != nil {
		return err
	}

	return nil
}
