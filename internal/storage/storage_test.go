package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixelforge-digital/team-portal/backend/internal/storage"
)

func TestDiskStoreSaveAndRemove(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewDiskStore(root)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	path, err := store.Save(context.Background(), 42, []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(path, "42"+string(filepath.Separator)) {
		t.Errorf("path %q not scoped to the worker directory", path)
	}

	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("reading saved blob: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored blob = %q", data)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, path)); !os.IsNotExist(err) {
		t.Error("blob still present after Remove")
	}
}

func TestDiskStoreUniqueNames(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	first, err := store.Save(context.Background(), 1, []byte("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save(context.Background(), 1, []byte("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first == second {
		t.Errorf("two saves produced the same path %q", first)
	}
}
