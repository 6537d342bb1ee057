// file: internal/watcher/watcher_test.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceSingleEvent(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w := New(func(paths []string) {
		calls.Add(1)
	}, 100*time.Millisecond, nil)

	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	f := filepath.Join(dir, "products.json")
	if err := os.WriteFile(f, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce + buffer.
	time.Sleep(300 * time.Millisecond)

	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 callback, got %d", c)
	}
}

func TestDebounceMultipleEvents(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var batches [][]string
	w := New(func(paths []string) {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
	}, 200*time.Millisecond, nil)

	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Rapid-fire writes within the debounce window, one file twice.
	for _, name := range []string{"a.json", "b.yaml", "a.json", "c.jsonl"} {
		_ = os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0644)
		time.Sleep(30 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected exactly 1 debounced callback, got %d", len(batches))
	}
	want := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.jsonl"),
	}
	if len(batches[0]) != len(want) {
		t.Fatalf("expected %v, got %v", want, batches[0])
	}
	for i := range want {
		if batches[0][i] != want[i] {
			t.Errorf("path %d: expected %s, got %s", i, want[i], batches[0][i])
		}
	}
}

func TestNonDatasetFilesIgnored(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w := New(func(paths []string) {
		calls.Add(1)
	}, 100*time.Millisecond, nil)

	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	_ = os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "export.csv"), []byte("a,b"), 0644)

	time.Sleep(300 * time.Millisecond)

	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 callbacks for non-dataset files, got %d", c)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := New(func([]string) {}, 100*time.Millisecond, nil)
	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop() // should not panic
}

func TestStopWithoutStart(t *testing.T) {
	w := New(func([]string) {}, 0, nil)
	w.Stop() // should not panic or block
}

func TestStartIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := New(func([]string) {}, 100*time.Millisecond, nil)
	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	// Second start should be a no-op.
	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
}

func TestStartMissingDir(t *testing.T) {
	w := New(func([]string) {}, 0, nil)
	if err := w.Start(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestDeleteTriggers(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "products.json")
	_ = os.WriteFile(f, []byte("[]"), 0644)

	var mu sync.Mutex
	var got []string
	w := New(func(paths []string) {
		mu.Lock()
		got = paths
		mu.Unlock()
	}, 100*time.Millisecond, nil)

	if err := w.Start(dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Give watcher time to register.
	time.Sleep(50 * time.Millisecond)

	_ = os.Remove(f)
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != f {
		t.Errorf("expected callback with %s on deletion, got %v", f, got)
	}
}
