package client

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/adapter"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/tui"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/workers"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

type App struct {
	services *service.ClientServices
	remote   adapter.RemoteStore
	cfg      config.ClientConfig

	realtime *realtimeWorker
	job      *jobWorker
	workers  *workers.Workers

	// principalMu is held for writing while the principal changes and for
	// reading by on-demand syncs, so no sync straddles a token swap.
	principalMu sync.RWMutex

	out    io.Writer
	logger *logger.Logger
}

func NewApp(services *service.ClientServices, remote adapter.RemoteStore, cfg config.ClientConfig, out io.Writer, logger *logger.Logger) *App {
	realtime := &realtimeWorker{service: services.RealtimeService, collections: cfg.Sync.Collections}
	job := &jobWorker{job: services.SyncJob, interval: cfg.Workers.SyncInterval}

	return &App{
		services: services,
		remote:   remote,
		cfg:      cfg,
		realtime: realtime,
		job:      job,
		workers:  workers.New(realtime, job),
		out:      out,
		logger:   logger,
	}
}

// Run performs the initial full sync and, unless the client is configured
// to sync once, keeps realtime reconciliation and the periodic job running
// until ctx is cancelled.
//
// A failed initial sync is only fatal in sync-once mode or when it was
// aborted by a configuration error.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	result, err := a.SyncNow(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Workers.SyncOnce {
		if !result.Success {
			return fmt.Errorf("%w: %v", ErrPartialSync, result.FailedCollections)
		}
		return nil
	}

	if err = a.workers.Start(ctx); err != nil {
		return fmt.Errorf("start background workers: %w", err)
	}
	a.logger.Info().Str("principal", a.remote.Principal()).Msg("client is running")

	<-ctx.Done()

	a.workers.Stop()
	a.logger.Info().Msg("client stopped")
	return nil
}

// SyncNow runs one full sync with progress output and prints the summary.
func (a *App) SyncNow(ctx context.Context) (models.SyncResult, error) {
	a.principalMu.RLock()
	defer a.principalMu.RUnlock()

	progress := tui.NewProgressPrinter(a.out)

	result, err := a.services.SyncService.SyncAll(ctx, a.cfg.Sync.Collections, progress.Report)
	_, _ = fmt.Fprintln(a.out, tui.RenderSummary(result, err))

	return result, err
}

// SwitchPrincipal replaces the bearer token. Realtime reconciliation and the
// periodic job are stopped first and waited for, so nothing read under the
// old principal is written with the new token. The local replica is
// partitioned by principal; after the swap every operation sees only the new
// principal's items. Workers that were running are restarted unless the new
// token is empty.
func (a *App) SwitchPrincipal(ctx context.Context, token string) error {
	a.principalMu.Lock()
	defer a.principalMu.Unlock()

	realtimeRunning := a.realtime.running()
	jobRunning := a.job.running()

	a.realtime.Stop()
	a.job.Stop()

	if err := a.remote.SetToken(token); err != nil {
		return fmt.Errorf("switch principal: %w", err)
	}
	if token == "" {
		a.logger.Info().Msg("signed out, background sync stays stopped")
		return nil
	}

	if realtimeRunning {
		if err := a.realtime.Start(ctx); err != nil {
			return fmt.Errorf("restart realtime: %w", err)
		}
	}
	if jobRunning {
		if err := a.job.Start(ctx); err != nil {
			return fmt.Errorf("restart sync job: %w", err)
		}
	}

	a.logger.Info().Str("principal", a.remote.Principal()).Msg("principal switched")
	return nil
}
