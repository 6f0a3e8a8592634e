package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// WeekWarmer is the part of ActivityService the warmer drives.
type WeekWarmer interface {
	WarmWeek(ctx context.Context) (int, error)
}

// BackgroundWarmer periodically refreshes the roster's weekly commits so dashboard
// requests hit a warm cache.
// Follows Single Responsibility Principle - only handles background refreshing.
type BackgroundWarmer struct {
	warmer       WeekWarmer
	interval     time.Duration
	initialDelay time.Duration
	logger       logrus.FieldLogger
	stopChan     chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
	running      bool
}

// NewBackgroundWarmer creates a new background warmer.
func NewBackgroundWarmer(warmer WeekWarmer, interval time.Duration, logger logrus.FieldLogger) *BackgroundWarmer {
	return &BackgroundWarmer{
		warmer:       warmer,
		interval:     interval,
		initialDelay: 2 * time.Second,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start begins periodic warming. Non-blocking; the loop ends when ctx is done or Stop is called.
func (w *BackgroundWarmer) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Infof("Starting with %v interval", w.interval)

	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop gracefully stops the warmer and waits for a running refresh to finish.
func (w *BackgroundWarmer) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	w.logger.Infof("Stopped")
}

func (w *BackgroundWarmer) loop(ctx context.Context) {
	defer w.wg.Done()

	// Give the server a moment to come up before the first round of upstream calls.
	select {
	case <-time.After(w.initialDelay):
	case <-ctx.Done():
		return
	case <-w.stopChan:
		return
	}
	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		}
	}
}

func (w *BackgroundWarmer) warm(ctx context.Context) {
	start := time.Now()

	count, err := w.warmer.WarmWeek(ctx)
	if err != nil {
		w.logger.Errorf("Failed to warm weekly commits: %v", err)
		return
	}

	w.logger.Infof("Warmed %d member/project weeks in %v", count, time.Since(start).Round(time.Millisecond))
}
