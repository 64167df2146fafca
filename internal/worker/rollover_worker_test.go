package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralis-app/astralis/internal/testing/leaktest"
)

type stubSweeper struct {
	calls chan struct{}
	reset int
}

func (s *stubSweeper) SweepRollover(context.Context) (int, error) {
	s.calls <- struct{}{}
	return s.reset, nil
}

func TestRolloverWorker_ExecuteSweepRunsSweeper(t *testing.T) {
	sweeper := &stubSweeper{calls: make(chan struct{}, 1), reset: 2}
	w := NewRolloverWorker(sweeper, nil)

	w.executeSweep()

	select {
	case <-sweeper.calls:
	case <-time.After(time.Second):
		t.Fatal("sweep never ran")
	}

	require.NoError(t, w.Shutdown(context.Background()))
}

func TestRolloverWorker_ShutdownCancelsTimer(t *testing.T) {
	sweeper := &stubSweeper{calls: make(chan struct{}, 1)}
	w := NewRolloverWorker(sweeper, nil)
	w.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	// Shutdown is idempotent
	require.NoError(t, w.Shutdown(ctx))
}

func TestRolloverWorker_ShutdownLeavesNoGoroutines(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		sweeper := &stubSweeper{calls: make(chan struct{}, 1)}
		w := NewRolloverWorker(sweeper, nil)
		w.Start()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, w.Shutdown(ctx))
	})
}

func TestTimeUntilNextHour(t *testing.T) {
	d := timeUntilNextHour()
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, time.Hour)
}
