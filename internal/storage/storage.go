// Package storage persists captured screenshot blobs and hands back the
// stable reference the screenshot row points at.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore is the upload sink for encoded screen frames.
type BlobStore interface {
	Save(ctx context.Context, workerID int64, image []byte) (string, error)
}

// DiskStore writes blobs under root/<workerID>/<uuid>.png and returns the
// path relative to root. Deployments that want an object store implement
// BlobStore against their SDK instead.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(ctx context.Context, workerID int64, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, fmt.Sprintf("%d", workerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ".png"
	if err := os.WriteFile(filepath.Join(dir, name), image, 0o644); err != nil {
		return "", err
	}

	return filepath.Join(fmt.Sprintf("%d", workerID), name), nil
}

// Remove deletes a previously saved blob; used by the retention purge.
func (s *DiskStore) Remove(path string) error {
	return os.Remove(filepath.Join(s.root, path))
}
