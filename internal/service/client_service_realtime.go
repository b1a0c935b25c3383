package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/adapter"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/merge"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// ErrorSink receives reconciliation failures.
type ErrorSink func(models.CollectionError)

// clientRealtimeService is the Realtime Reconciler.
type clientRealtimeService struct {
	local    store.LocalStore
	remote   adapter.RemoteStore
	mapper   *collection.Mapper
	locks    *CollectionLocks
	notifier ChangeNotifier
	onError  ErrorSink

	collectionTimeout time.Duration
}

// NewClientRealtimeService builds the reconciler. onError may be nil.
func NewClientRealtimeService(
	local store.LocalStore,
	remote adapter.RemoteStore,
	mapper *collection.Mapper,
	locks *CollectionLocks,
	notifier ChangeNotifier,
	cfg config.ClientSync,
	onError ErrorSink,
) RealtimeService {
	timeout := cfg.CollectionTimeout
	if timeout <= 0 {
		timeout = defaultCollectionTimeout
	}

	return &clientRealtimeService{
		local:             local,
		remote:            remote,
		mapper:            mapper,
		locks:             locks,
		notifier:          notifier,
		onError:           onError,
		collectionTimeout: timeout,
	}
}

// RealtimeHandle owns the subscriptions opened by one Start call.
type RealtimeHandle struct {
	cancel context.CancelFunc
	subs   []adapter.Subscription
	wg     sync.WaitGroup
	once   sync.Once
}

// Stop detaches every subscription and waits for reconciliations already in
// flight to finish. It is idempotent.
func (h *RealtimeHandle) Stop() {
	h.once.Do(func() {
		h.cancel()
		for _, sub := range h.subs {
			_ = sub.Close()
		}
	})
	h.wg.Wait()
}

// Subscriptions returns the number of subscriptions the handle owns.
func (h *RealtimeHandle) Subscriptions() int {
	return len(h.subs)
}

// Start implements RealtimeService.
//
// Configuration errors (unmapped collection, missing or rejected credentials)
// close whatever was opened and fail Start. Any other subscribe failure is
// reported to the error sink and that collection is left to the periodic
// full sync.
func (r *clientRealtimeService) Start(ctx context.Context, collections []string) (*RealtimeHandle, error) {
	log := logger.FromContext(ctx)

	if len(collections) == 0 {
		collections = r.mapper.LocalNames()
	}

	runCtx, cancel := context.WithCancel(ctx)
	handle := &RealtimeHandle{cancel: cancel}

	for _, local := range collections {
		remote, err := r.mapper.ToRemote(local)
		if err != nil {
			handle.Stop()
			return nil, err
		}

		sub, err := r.remote.Subscribe(runCtx, remote)
		if err != nil {
			if isFatal(err) {
				handle.Stop()
				return nil, fmt.Errorf("subscribe %s: %w", local, err)
			}
			log.Err(err).Str("func", "clientRealtimeService.Start").Str("collection", local).Msg("failed to subscribe")
			r.report(local, err)
			continue
		}

		handle.subs = append(handle.subs, sub)
		handle.wg.Add(1)
		go func() {
			defer handle.wg.Done()
			r.consume(runCtx, local, remote, sub)
		}()
	}

	log.Info().Int("subscriptions", len(handle.subs)).Msg("realtime reconciliation started")
	return handle, nil
}

// consume applies snapshots until the subscription ends. A reconciliation
// that already started runs to completion even if the handle is stopped.
func (r *clientRealtimeService) consume(ctx context.Context, local, remote string, sub adapter.Subscription) {
	for items := range sub.Snapshots() {
		applyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.collectionTimeout)
		if err := r.Reconcile(applyCtx, local, remote, items); err != nil {
			r.report(local, err)
		}
		cancel()
	}
}

// Reconcile applies one remote snapshot to the local collection.
//
// Remote items that win the merge are written locally without re-triggering a
// push. Local tombstones the remote has not yet observed are pushed back.
// Nothing else is pushed.
func (r *clientRealtimeService) Reconcile(ctx context.Context, local, remote string, snapshot []models.Item) error {
	log := logger.FromContext(ctx).With().
		Str("func", "clientRealtimeService.Reconcile").
		Str("collection", local).
		Logger()

	unlock := r.locks.Lock(local)
	defer unlock()

	localItems, err := r.local.GetAllIncludingDeleted(ctx, local)
	if err != nil {
		log.Err(err).Msg("failed to read local items")
		return fmt.Errorf("read local: %w", err)
	}

	result := merge.Merge(localItems, snapshot)

	var (
		errs    []error
		applied bool
	)
	if len(result.ToLocal) > 0 {
		if err = r.local.PutBatchLocalOnly(ctx, local, result.ToLocal); err != nil {
			log.Err(err).Int("items", len(result.ToLocal)).Msg("failed to apply snapshot")
			errs = append(errs, fmt.Errorf("apply local: %w", err))
		} else {
			applied = true
		}
	}

	if tombstones := result.Tombstones(); len(tombstones) > 0 {
		if err = r.remote.BatchWrite(ctx, remote, tombstones); err != nil {
			log.Err(err).Int("items", len(tombstones)).Msg("failed to push tombstones")
			errs = append(errs, fmt.Errorf("push tombstones: %w", err))
		} else {
			log.Debug().Int("items", len(tombstones)).Msg("tombstones pushed")
		}
	}

	if applied {
		r.notifier.Notify(local)
	}

	return errors.Join(errs...)
}

func (r *clientRealtimeService) report(local string, err error) {
	if r.onError != nil {
		r.onError(models.CollectionError{Collection: local, Message: err.Error()})
	}
}
