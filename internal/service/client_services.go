package service

import (
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/adapter"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// ClientServices groups the sync engine of the client. SyncService and
// RealtimeService share one set of collection locks and one notifier.
type ClientServices struct {
	SyncService     SyncService
	RealtimeService RealtimeService
	SyncJob         SyncJob
	Notifier        ChangeNotifier
}

// ClientServiceOptions carries optional callbacks.
type ClientServiceOptions struct {
	// OnRealtimeError receives reconciliation failures.
	OnRealtimeError ErrorSink
	// OnJobResult receives the outcome of every periodic sync.
	OnJobResult func(models.SyncResult, error)
}

func NewClientServices(
	localStore store.LocalStore,
	remote adapter.RemoteStore,
	mapper *collection.Mapper,
	cfg config.ClientSync,
	opts ClientServiceOptions,
) *ClientServices {
	locks := NewCollectionLocks()
	notifier := NewChangeNotifier(cfg.NotifyThrottle)
	syncSvc := NewClientSyncService(localStore, remote, mapper, locks, notifier, cfg)

	return &ClientServices{
		SyncService:     syncSvc,
		RealtimeService: NewClientRealtimeService(localStore, remote, mapper, locks, notifier, cfg, opts.OnRealtimeError),
		SyncJob:         NewClientSyncJob(syncSvc, cfg.Collections, opts.OnJobResult),
		Notifier:        notifier,
	}
}
