package lock_test

import (
	"path/filepath"
	"testing"

	"adsilencer/internal/lock"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	h, ok, err := lock.Acquire(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected lock to be acquired")
	}

	// A second acquisition must fail while the first is held.
	if _, ok, err := lock.Acquire(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if ok {
		t.Error("expected second acquisition to fail")
	}

	if err := h.Release(); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	// After release the lock is available again.
	h2, ok, err := lock.Acquire(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected lock to be acquirable after release")
	}
	h2.Release()
}

func TestDefaultPath(t *testing.T) {
	if lock.DefaultPath() == "" {
		t.Error("expected a non-empty default lock path")
	}
}
