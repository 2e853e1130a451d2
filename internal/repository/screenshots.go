package repository

import (
	"context"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (r *Repository) CreateScreenshot(screenshot *domain.Screenshot) error {
	query := `
		INSERT INTO screenshots (worker_id, image_path, captured_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{screenshot.WorkerID, screenshot.ImagePath, screenshot.CapturedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&screenshot.ID, &screenshot.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetScreenshots lists the newest screenshots first, optionally filtered to
// one worker.
func (r *Repository) GetScreenshots(workerID *int64, limit int) ([]*domain.Screenshot, error) {
	query := `
		SELECT id, worker_id, image_path, captured_at, created_at
		FROM screenshots
		WHERE ($1::bigint IS NULL OR worker_id = $1)
		ORDER BY captured_at DESC
		LIMIT $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenshots := []*domain.Screenshot{}
	for rows.Next() {
		screenshot := &domain.Screenshot{}
		dst := []any{&screenshot.ID, &screenshot.WorkerID, &screenshot.ImagePath, &screenshot.CapturedAt, &screenshot.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		screenshots = append(screenshots, screenshot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return screenshots, nil
}

// PurgeScreenshotsBefore deletes rows captured before the cutoff and returns
// the stored blob paths so the caller can remove the blobs as well.
func (r *Repository) PurgeScreenshotsBefore(cutoff time.Time) ([]string, error) {
	query := `
		DELETE FROM screenshots WHERE captured_at < $1 RETURNING image_path
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return paths, nil
}
