package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNew_RequiresFiles(t *testing.T) {
	_, err := New([]string{"", ""}, time.Millisecond, func(context.Context) error { return nil }, quiet())
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "Acme.yaml")
	w, err := New([]string{meta}, time.Millisecond, func(context.Context) error { return nil }, quiet())
	require.NoError(t, err)

	assert.True(t, w.relevant(fsnotify.Event{Name: meta, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: meta, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: meta, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}))
}

func TestRun_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	meta := filepath.Join(dir, "Acme.yaml")
	require.NoError(t, os.WriteFile(meta, []byte("a"), 0o600))

	var runs atomic.Int32
	w, err := New([]string{meta}, 150*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	}, quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for i := range 3 {
		require.NoError(t, os.WriteFile(meta, []byte{byte('b' + i)}, 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "a burst of writes runs the action once")

	cancel()
	require.NoError(t, <-done)
}
