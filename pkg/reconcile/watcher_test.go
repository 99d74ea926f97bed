package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "families.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestWatcher_CallsBackOnWrite(t *testing.T) {
	path := writeSchema(t, "families: []\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() { calls.Add(1) })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x"), 0644))
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte("families:\n  - id: cf1\n"), 0644))
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, <-done)
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	for range 5 {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
