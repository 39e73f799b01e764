package feed

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherCoalescesBurstsIntoOneReload(t *testing.T) {
	root := t.TempDir()
	var reloads atomic.Int32
	w, err := NewWatcher(50*time.Millisecond, func() { reloads.Add(1) })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Watch(root, nil); err != nil {
		t.Fatalf("watch: %v", err)
	}

	for i := 0; i < 5; i++ {
		path := filepath.Join(root, "source.yaml")
		if err := os.WriteFile(path, []byte("kind: source\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := reloads.Load(); got != 1 {
		t.Fatalf("expected 1 coalesced reload, got %d", got)
	}
}

func TestWatcherCloseCancelsPendingReload(t *testing.T) {
	root := t.TempDir()
	var reloads atomic.Int32
	w, err := NewWatcher(100*time.Millisecond, func() { reloads.Add(1) })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Watch(root, nil); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "a.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Give fsnotify a moment to deliver, then close inside the debounce
	// window.
	time.Sleep(30 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := reloads.Load(); got != 0 {
		t.Fatalf("expected no reload after close, got %d", got)
	}
}
