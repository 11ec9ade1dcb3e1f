package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"ledgerconv/internal/reconcile"
	"ledgerconv/internal/watch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatchRunsOnStartAndOnNewSource(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := watch.New(dir, 30*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	waitFor(t, func() bool { return runs.Load() == 1 })

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "acme.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return runs.Load() == 2 })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestWatchStopsOnMismatch(t *testing.T) {
	dir := t.TempDir()
	mismatch := &reconcile.MismatchError{SourceFile: "acme.csv", Stage: reconcile.StageOutput, SourceRows: 3, OutputRows: 1, ExceptionRows: 1}
	w := watch.New(dir, 30*time.Millisecond, func(context.Context) error {
		return mismatch
	}, nil)

	err := w.Watch(context.Background())
	if !errors.Is(err, reconcile.ErrMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestWatchKeepsGoingAfterOtherErrors(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := watch.New(dir, 30*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("locked")
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	waitFor(t, func() bool { return runs.Load() == 1 })
	if err := os.WriteFile(filepath.Join(dir, "beta.CSV"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return runs.Load() >= 2 })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}
