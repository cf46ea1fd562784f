package worker

import (
	"context"
	"sync"
	"time"

	"github.com/trade-journal/internal/logging"
	"github.com/trade-journal/internal/service"
)

// Refresher reloads the economic calendar
type Refresher interface {
	Refresh(ctx context.Context) (*service.RefreshResult, error)
}

// NewsWorker refreshes the economic calendar on startup and then on a
// fixed interval until stopped
type NewsWorker struct {
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewNewsWorker creates a new economic calendar worker
func NewNewsWorker(refresher Refresher, interval time.Duration) *NewsWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &NewsWorker{
		refresher: refresher,
		interval:  interval,
		timeout:   time.Minute,
		stopChan:  make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs one refresh immediately and then blocks in the ticker loop
func (w *NewsWorker) Start() {
	logging.LogInfo("News worker started with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh()
	for {
		select {
		case <-ticker.C:
			w.refresh()
		case <-w.stopChan:
			logging.LogInfo("News worker stopped")
			return
		}
	}
}

// Stop stops the loop and aborts an in-flight refresh. It is safe to call
// more than once.
func (w *NewsWorker) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		close(w.stopChan)
	})
}

func (w *NewsWorker) refresh() {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	result, err := w.refresher.Refresh(ctx)
	if err != nil {
		logging.LogError("News worker: refresh failed: %v", err)
		return
	}
	logging.LogDebug("News worker: %d events from %s", result.Events, result.Source)
}
