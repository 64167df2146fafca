// Package worker runs the background usage rollover sweep.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/logger"
)

// Sweeper resets usage records whose day has turned.
type Sweeper interface {
	SweepRollover(ctx context.Context) (int, error)
}

// RolloverWorker sweeps usage records at the top of every hour. Limits can
// carry different reset hours, so an hourly sweep catches each one within an
// hour of its boundary; reads still roll over lazily in between.
type RolloverWorker struct {
	limits    Sweeper
	publisher *event.ResilientPublisher
	timer     *time.Timer
	shutdown  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
}

// NewRolloverWorker creates a new RolloverWorker
func NewRolloverWorker(limits Sweeper, publisher *event.ResilientPublisher) *RolloverWorker {
	return &RolloverWorker{
		limits:    limits,
		publisher: publisher,
		shutdown:  make(chan struct{}),
	}
}

// Start schedules the first sweep
func (w *RolloverWorker) Start() {
	w.scheduleNext()
}

// scheduleNext arms the timer for the next top of the hour.
func (w *RolloverWorker) scheduleNext() {
	duration := timeUntilNextHour()
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		// Jitter protection: if the timer fired early, reschedule for the
		// remaining time instead of sweeping twice.
		rem := timeUntilNextHour()
		if rem > 10*time.Second && rem < 59*time.Minute {
			w.scheduleNext()
			return
		}

		w.executeSweep()
		w.scheduleNext()
	})
	w.mu.Unlock()

	log.Info("Usage rollover sweep scheduled", "next_sweep_at", time.Now().Add(duration))
}

// executeSweep runs the rollover in a tracked goroutine
func (w *RolloverWorker) executeSweep() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)

		reset, err := w.limits.SweepRollover(ctx)
		if err != nil {
			log.Error("Usage rollover sweep failed", "error", err)
			return
		}

		log.Info("Usage rollover sweep completed", "records_affected", reset)

		if w.publisher != nil && reset > 0 {
			w.publisher.PublishWithRetry(ctx, event.NewUsageResetEvent(time.Now().UTC(), reset))
		}
	}()
}

// Shutdown cancels the pending timer and waits for any in-flight sweep.
func (w *RolloverWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down rollover worker")

	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Rollover worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Rollover worker shutdown timeout, a sweep may still be running")
		return ctx.Err()
	}
}

// timeUntilNextHour calculates the duration until the next top of the hour.
func timeUntilNextHour() time.Duration {
	now := time.Now()
	next := now.Truncate(time.Hour).Add(time.Hour)
	return next.Sub(now)
}
