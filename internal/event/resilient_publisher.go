package event

import (
	"context"
	"sync"
	"time"

	"github.com/astralis-app/astralis/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// ResilientPublisher wraps an Event Bus to add retry logic and dead letter queuing.
// Publish failures never propagate to the caller: the event is retried in the
// background and eventually dead-lettered, because reward/session flow must not
// stall on a misbehaving subscriber.
type ResilientPublisher struct {
	inner    Bus
	config   ResilientConfig
	dlw      *DeadLetterWriter
	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryInitialDelay
	}
	return &ResilientPublisher{
		inner:    inner,
		config:   config,
		dlw:      NewDeadLetterWriter(config.DeadLetterPath),
		shutdown: make(chan struct{}),
	}
}

// PublishWithRetry attempts to publish an event, retrying in the background on
// failure. Always returns immediately.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	if err := p.inner.Publish(ctx, event); err == nil {
		return
	} else {
		logger.Warn(LogMsgEventPublishFailed,
			"event_type", event.Type,
			"error", err,
			"retries", p.config.MaxRetries)
	}

	p.wg.Add(1)
	go p.retryLoop(event)
}

func (p *ResilientPublisher) retryLoop(event Event) {
	defer p.wg.Done()

	// Detached context: the original request context may already be cancelled.
	ctx := context.Background()

	var lastErr error
	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		select {
		case <-p.shutdown:
			p.writeDeadLetter(event, attempt-1, lastErr)
			return
		case <-time.After(CalculateRetryDelay(p.config.RetryDelay, attempt)):
		}

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			logger.Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", attempt)
			return
		}

		logger.Warn("Event retry failed",
			"event_type", event.Type,
			"attempt", attempt,
			"error", lastErr)
	}

	logger.Warn(LogMsgEventRetryExhausted, "event_type", event.Type)
	p.writeDeadLetter(event, p.config.MaxRetries, lastErr)
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, lastErr error) {
	if err := p.dlw.Write(event, attempts, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterFailed, "error", err)
	}
}

// Shutdown stops accepting retries and waits for in-flight loops to settle.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
