package client

import (
	"context"
	"sync"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
)

// realtimeWorker keeps one realtime reconciliation session alive.
type realtimeWorker struct {
	service     service.RealtimeService
	collections []string

	mu     sync.Mutex
	handle *service.RealtimeHandle
}

func (w *realtimeWorker) Name() string { return "realtime" }

func (w *realtimeWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle != nil {
		return nil
	}

	handle, err := w.service.Start(ctx, w.collections)
	if err != nil {
		return err
	}
	w.handle = handle
	return nil
}

func (w *realtimeWorker) running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle != nil
}

func (w *realtimeWorker) Stop() {
	w.mu.Lock()
	handle := w.handle
	w.handle = nil
	w.mu.Unlock()

	if handle != nil {
		handle.Stop()
	}
}

// jobWorker runs the periodic full sync.
type jobWorker struct {
	job      service.SyncJob
	interval time.Duration

	mu     sync.Mutex
	handle *service.JobHandle
}

func (w *jobWorker) Name() string { return "sync-job" }

func (w *jobWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle == nil {
		w.handle = w.job.Start(ctx, w.interval)
	}
	return nil
}

func (w *jobWorker) running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle != nil
}

func (w *jobWorker) Stop() {
	w.mu.Lock()
	handle := w.handle
	w.handle = nil
	w.mu.Unlock()

	if handle != nil {
		handle.Stop()
	}
}
