package repository

import (
	"context"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (r *Repository) CreateNote(note *domain.Note) error {
	query := `
		INSERT INTO notes (worker_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, note.WorkerID, note.Title, note.Body).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetNoteByID(id int64) (*domain.Note, error) {
	query := `
		SELECT worker_id, title, body, created_at, updated_at
		FROM notes WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	note := &domain.Note{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&note.WorkerID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}

	return note, nil
}

func (r *Repository) GetNotesByWorker(workerID int64) ([]*domain.Note, error) {
	query := `
		SELECT id, worker_id, title, body, created_at, updated_at
		FROM notes
		WHERE worker_id = $1
		ORDER BY updated_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		note := &domain.Note{}
		dst := []any{&note.ID, &note.WorkerID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *Repository) UpdateNote(note *domain.Note) error {
	query := `
		UPDATE notes
		SET title = $1, body = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, note.Title, note.Body, note.ID).Scan(&note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteNote(id int64) error {
	query := `
		DELETE FROM notes WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
