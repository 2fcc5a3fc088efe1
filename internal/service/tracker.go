package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize = 256
	trackTimeout     = 5 * time.Second
	drainTimeout     = 10 * time.Second
)

// ClickRepository is the slice of the store the tracker needs.
type ClickRepository interface {
	IncrementClicks(ctx context.Context, slug string) error
}

// Tracker is a bounded background queue that records clicks after the
// redirect response has been flushed. Failures are logged and swallowed;
// they never reach the request path.
type Tracker struct {
	repo      ClickRepository
	logger    *slog.Logger
	queue     chan string
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewTracker starts the worker goroutine and returns the tracker.
// queueSize <= 0 falls back to the default capacity.
func NewTracker(repo ClickRepository, logger *slog.Logger, queueSize int) *Tracker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	t := &Tracker{
		repo:   repo,
		logger: logger,
		queue:  make(chan string, queueSize),
		done:   make(chan struct{}),
	}

	go t.run()

	return t
}

// Track schedules a click increment for slug. It never blocks: when the
// queue is full the click is dropped, which is an accepted loss for a
// best-effort counter.
func (t *Tracker) Track(slug string) {
	if t.closed.Load() {
		return
	}

	select {
	case t.queue <- slug:
	default:
		t.logger.Warn("click dropped, tracker queue is full", slog.String("slug", slug))
	}
}

func (t *Tracker) run() {
	const op = "service.Tracker.run"

	defer close(t.done)

	for slug := range t.queue {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)

		if err := t.repo.IncrementClicks(ctx, slug); err != nil {
			t.logger.Error(
				"failed to record click",
				slog.Group(op, slog.String("slug", slug), slog.Any("err", err)),
			)
		}

		cancel()
	}
}

// Close stops accepting clicks and waits for the queue to drain, bounded by
// a fixed timeout so shutdown cannot hang on a stuck store.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		close(t.queue)
	})

	select {
	case <-t.done:
	case <-time.After(drainTimeout):
		t.logger.Warn("tracker close timed out before queue drained")
	}
}
