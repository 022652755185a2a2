package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_WatchesExistingDirs(t *testing.T) {
	dir := t.TempDir()
	lhs := filepath.Join(dir, "old.txt")
	rhs := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(lhs, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(rhs, []byte("b\n"), 0o644))

	w, err := New(DefaultConfig(lhs, rhs))
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}

func TestNew_MissingDirFails(t *testing.T) {
	_, err := New(Config{
		Paths:       []string{"/nonexistent-dir-xyz/file.txt"},
		DebounceDur: time.Millisecond,
	})
	require.Error(t, err)
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	lhs := filepath.Join(dir, "old.txt")
	rhs := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(lhs, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(rhs, []byte("b\n"), 0o644))

	w, err := New(Config{
		Paths:       []string{lhs, rhs},
		DebounceDur: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()

	changes := w.Start()
	require.NoError(t, os.WriteFile(rhs, []byte("changed\n"), 0o644))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(target, []byte("a\n"), 0o644))

	w, err := New(Config{
		Paths:       []string{target},
		DebounceDur: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()

	changes := w.Start()
	for i := range 5 {
		require.NoError(t, os.WriteFile(target, []byte{byte('a' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	// The burst collapses into a single notification.
	select {
	case <-changes:
		t.Fatal("burst should have been debounced into one signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "file.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(target, []byte("a\n"), 0o644))

	w, err := New(Config{
		Paths:       []string{target},
		DebounceDur: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()

	changes := w.Start()
	require.NoError(t, os.WriteFile(other, []byte("noise\n"), 0o644))

	select {
	case <-changes:
		t.Fatal("unrelated file must not trigger a notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("a", "b")
	require.Equal(t, []string{"a", "b"}, cfg.Paths)
	require.Equal(t, 300*time.Millisecond, cfg.DebounceDur)
}
