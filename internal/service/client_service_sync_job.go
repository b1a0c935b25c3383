package service

import (
	"context"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const defaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	syncService SyncService
	collections []string
	onResult    func(models.SyncResult, error)
}

// NewClientSyncJob creates a job that calls syncService.SyncAll on a ticker.
// onResult, if not nil, receives the outcome of every run.
func NewClientSyncJob(syncService SyncService, collections []string, onResult func(models.SyncResult, error)) SyncJob {
	return &clientSyncJob{
		syncService: syncService,
		collections: collections,
		onResult:    onResult,
	}
}

// JobHandle stops one running job.
type JobHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the job and blocks until its goroutine has exited. Safe to
// call more than once.
func (h *JobHandle) Stop() {
	h.cancel()
	<-h.done
}

// Start implements SyncJob. The goroutine exits when ctx is cancelled or
// the handle is stopped.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) *JobHandle {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	jobCtx, cancel := context.WithCancel(ctx)
	handle := &JobHandle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(handle.done)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx)
			}
		}
	}()

	return handle
}

func (j *clientSyncJob) run(ctx context.Context) {
	result, err := j.syncService.SyncAll(ctx, j.collections, nil)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSyncJob.run").Msg("periodic sync failed")
	}
	if j.onResult != nil {
		j.onResult(result, err)
	}
}
