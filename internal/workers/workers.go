package workers

import (
	"context"
	"fmt"
	"sync"
)

type Workers struct {
	mu      sync.Mutex
	workers []Worker
	started []Worker
}

func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Start starts every worker in order. If one fails, the workers already
// started are stopped again and the error is returned.
func (w *Workers) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, worker := range w.workers {
		if err := worker.Start(ctx); err != nil {
			w.stopLocked()
			return fmt.Errorf("start %s: %w", worker.Name(), err)
		}
		w.started = append(w.started, worker)
	}

	return nil
}

// Stop stops the started workers in reverse order. Calling it again is a
// no-op until the next Start.
func (w *Workers) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
}

func (w *Workers) stopLocked() {
	for i := len(w.started) - 1; i >= 0; i-- {
		w.started[i].Stop()
	}
	w.started = nil
}
