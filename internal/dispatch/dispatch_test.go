package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

func newDispatcher(t *testing.T) (*Dispatcher, *fxtest.Lifecycle) {
	t.Helper()
	lc := fxtest.NewLifecycle(t)
	d := New(Params{Log: zaptest.NewLogger(t)}, lc)
	lc.RequireStart()
	return d, lc
}

func TestDispatcherExecutesTasks(t *testing.T) {
	d, lc := newDispatcher(t)

	var mu sync.Mutex
	var keys []string
	done := make(chan struct{})

	ok := d.Enqueue(Task{
		Key:  "task-1",
		Name: "test.task",
		Run: func(ctx context.Context) error {
			mu.Lock()
			keys = append(keys, "task-1")
			mu.Unlock()
			close(done)
			return nil
		},
	})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never executed")
	}

	mu.Lock()
	assert.Equal(t, []string{"task-1"}, keys)
	mu.Unlock()

	lc.RequireStop()
}

func TestDispatcherAssignsKeys(t *testing.T) {
	d, lc := newDispatcher(t)
	defer lc.RequireStop()

	assert.True(t, d.Enqueue(Task{Name: "keyless", Run: func(ctx context.Context) error { return nil }}))
	assert.False(t, d.Enqueue(Task{Name: "no-run"}))
}

func TestDispatcherSurvivesPanicsAndFailures(t *testing.T) {
	d, lc := newDispatcher(t)

	done := make(chan struct{})
	require.True(t, d.Enqueue(Task{
		Name: "panics",
		Run: func(ctx context.Context) error {
			panic("boom")
		},
	}))
	require.True(t, d.Enqueue(Task{
		Name: "fails",
		Run: func(ctx context.Context) error {
			return errors.New("side effect failed")
		},
	}))
	require.True(t, d.Enqueue(Task{
		Name: "still-running",
		Run: func(ctx context.Context) error {
			close(done)
			return nil
		},
	}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not survive earlier failures")
	}

	lc.RequireStop()
}

func TestDispatcherDropsAfterStop(t *testing.T) {
	d, lc := newDispatcher(t)
	lc.RequireStop()

	ok := d.Enqueue(Task{Name: "late", Run: func(ctx context.Context) error { return nil }})
	assert.False(t, ok)
}
