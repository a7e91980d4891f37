package sequence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDefs(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sequences.yaml")
	writeDefs(t, path, `sequences: [{id: one, type: chord, keys: [a]}]`)

	reloads := make(chan []Definition, 4)
	w, err := NewWatcher(path,
		func(_ string, defs []Definition) { reloads <- defs },
		func(_ string, err error) { t.Errorf("watch error: %v", err) },
		WithDebounce(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeDefs(t, path, `sequences: [{id: one, type: chord, keys: [a]}, {id: two, type: chord, keys: [b]}]`)

	select {
	case defs := <-reloads:
		if len(defs) != 2 {
			t.Errorf("reload delivered %d definitions, want 2", len(defs))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file write")
	}
}

func TestWatcherReportsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sequences.yaml")
	writeDefs(t, path, `sequences: [{id: one, type: chord, keys: [a]}]`)

	errc := make(chan error, 4)
	w, err := NewWatcher(path,
		func(_ string, _ []Definition) { t.Error("reload delivered for a broken file") },
		func(_ string, err error) { errc <- err },
		WithDebounce(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeDefs(t, path, `sequences: [{id: one, type: swipe}]`)

	select {
	case err := <-errc:
		if !errors.Is(err, ErrUnknownType) {
			t.Errorf("error = %v, want ErrUnknownType", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error after broken write")
	}
}

func TestWatcherRejectsUnknownFormat(t *testing.T) {
	_, err := NewWatcher("sequences.ini", nil, nil)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("NewWatcher() error = %v, want ErrUnknownFormat", err)
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sequences.yaml")
	writeDefs(t, path, `sequences: []`)

	w, err := NewWatcher(path, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	w.Stop()
	w.Stop()
}
