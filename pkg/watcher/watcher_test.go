package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDetectsFileWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(dir))

	target := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))

	select {
	case <-eventChan(w):
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestOverflowDropsRatherThanBlocks(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	// Feed more events than the queue can hold directly through the
	// internal channel, simulating a burst of OS notifications without
	// depending on filesystem timing.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 250; i++ {
			select {
			case w.events <- "/x":
			default:
				w.dropped.Add(1)
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("feeding events deadlocked")
	}

	delivered := 0
	for {
		select {
		case <-w.events:
			delivered++
		default:
			goto doneDraining
		}
	}
doneDraining:
	assert.LessOrEqual(t, delivered, QueueCapacity)
	assert.GreaterOrEqual(t, delivered, 100)
	assert.Greater(t, int(w.dropped.Load()), 0)
}

func TestUnwatchStopsDelivery(t *testing.T) {
	dir := t.TempDir()
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(dir))
	require.NoError(t, w.Unwatch(dir))

	target := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))

	select {
	case p := <-eventChan(w):
		t.Fatalf("unexpected event after unwatch: %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func eventChan(w *Watcher) <-chan string {
	return w.events
}

func TestDropHookFiresWhenQueueFull(t *testing.T) {
	var drops int
	w, err := New(WithDropHook(func() { drops++ }))
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < QueueCapacity+5; i++ {
		select {
		case w.events <- "/x":
		default:
			w.dropped.Add(1)
			w.onDrop()
		}
	}

	assert.Greater(t, drops, 0)
}
