// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/adapter"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/merge"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const (
	defaultBatchWidth        = 4
	defaultCollectionTimeout = 30 * time.Second
)

// clientSyncService is the Sync Orchestrator. It owns the on-demand full sync
// path and delegates conflict resolution to merge.Merge.
type clientSyncService struct {
	local    store.LocalStore
	remote   adapter.RemoteStore
	mapper   *collection.Mapper
	locks    *CollectionLocks
	notifier ChangeNotifier

	batchWidth        int
	collectionTimeout time.Duration
}

// collectionOutcome is the result of one collection, kept by request index.
type collectionOutcome struct {
	local string
	stats models.CollectionStats
	err   error
}

// NewClientSyncService builds the orchestrator. Zero tuning values fall back
// to a batch width of 4 and a 30s per-collection timeout.
func NewClientSyncService(
	local store.LocalStore,
	remote adapter.RemoteStore,
	mapper *collection.Mapper,
	locks *CollectionLocks,
	notifier ChangeNotifier,
	cfg config.ClientSync,
) SyncService {
	batchWidth := cfg.BatchWidth
	if batchWidth <= 0 {
		batchWidth = defaultBatchWidth
	}
	timeout := cfg.CollectionTimeout
	if timeout <= 0 {
		timeout = defaultCollectionTimeout
	}

	return &clientSyncService{
		local:             local,
		remote:            remote,
		mapper:            mapper,
		locks:             locks,
		notifier:          notifier,
		batchWidth:        batchWidth,
		collectionTimeout: timeout,
	}
}

// SyncAll implements SyncService.
//
// Collections are processed in batches of batchWidth; a batch completes
// before the next one starts. Per-collection failures are isolated. A
// configuration error observed by any collection stops scheduling further
// batches.
func (s *clientSyncService) SyncAll(ctx context.Context, collections []string, progress ProgressFunc) (models.SyncResult, error) {
	log := logger.FromContext(ctx)

	if len(collections) == 0 {
		collections = s.mapper.LocalNames()
	}

	remotes := make([]string, len(collections))
	for idx, name := range collections {
		remote, err := s.mapper.ToRemote(name)
		if err != nil {
			log.Err(err).Str("func", "clientSyncService.SyncAll").Str("collection", name).Msg("unmapped collection")
			return failedResult(name, err), err
		}
		remotes[idx] = remote
	}

	if s.remote.Token() == "" {
		return models.SyncResult{}, adapter.ErrNotAuthenticated
	}

	outcomes := make([]*collectionOutcome, len(collections))
	var fatal error

	for start := 0; start < len(collections) && fatal == nil; start += s.batchWidth {
		end := min(start+s.batchWidth, len(collections))

		var g errgroup.Group
		for idx := start; idx < end; idx++ {
			if progress != nil {
				progress(models.SyncProgress{Collection: collections[idx], Index: idx, Total: len(collections)})
			}

			g.Go(func() error {
				stats, err := s.syncCollection(ctx, collections[idx], remotes[idx])
				outcomes[idx] = &collectionOutcome{local: collections[idx], stats: stats, err: err}
				return nil
			})
		}
		_ = g.Wait()

		for idx := start; idx < end; idx++ {
			if err := outcomes[idx].err; err != nil && isFatal(err) {
				fatal = err
				break
			}
		}
	}

	result := buildResult(outcomes)
	if fatal != nil {
		result.Success = false
		log.Err(fatal).Str("func", "clientSyncService.SyncAll").Msg("sync aborted")
		return result, fmt.Errorf("sync aborted: %w", fatal)
	}

	log.Info().
		Bool("success", result.Success).
		Int("items", result.TotalItemsSynced).
		Strs("failed", result.FailedCollections).
		Msg("full sync finished")

	return result, nil
}

// syncCollection runs one merge-and-apply step under the collection lock.
func (s *clientSyncService) syncCollection(ctx context.Context, local, remote string) (models.CollectionStats, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "clientSyncService.syncCollection").
		Str("collection", local).
		Logger()
	stats := models.CollectionStats{Collection: local}

	unlock := s.locks.Lock(local)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.collectionTimeout)
	defer cancel()

	localItems, err := s.local.GetAllIncludingDeleted(ctx, local)
	if err != nil {
		log.Err(err).Msg("failed to read local items")
		return stats, fmt.Errorf("read local: %w", err)
	}

	remoteItems, err := s.remote.FetchAll(ctx, remote)
	if err != nil {
		log.Err(err).Msg("failed to fetch remote items")
		return stats, fmt.Errorf("fetch remote: %w", err)
	}

	result := merge.Merge(localItems, remoteItems)

	if len(result.ToLocal) > 0 {
		if err = s.local.PutBatchLocalOnly(ctx, local, result.ToLocal); err != nil {
			log.Err(err).Int("items", len(result.ToLocal)).Msg("failed to apply pulled items")
			return stats, fmt.Errorf("apply local: %w", err)
		}
		stats.Pulled = len(result.ToLocal)
	}

	var pushErr error
	if len(result.ToRemote) > 0 {
		if pushErr = s.remote.BatchWrite(ctx, remote, result.ToRemote); pushErr != nil {
			log.Err(pushErr).Int("items", len(result.ToRemote)).Msg("failed to push items")
			pushErr = fmt.Errorf("push remote: %w", pushErr)
		} else {
			stats.Pushed = len(result.ToRemote)
		}
	}

	if stats.Pulled > 0 {
		s.notifier.Notify(local)
	}

	log.Debug().Int("pulled", stats.Pulled).Int("pushed", stats.Pushed).Msg("collection synced")
	return stats, pushErr
}

func buildResult(outcomes []*collectionOutcome) models.SyncResult {
	result := models.SyncResult{Success: true}

	for _, o := range outcomes {
		if o == nil {
			continue
		}
		if o.err != nil {
			result.Success = false
			result.FailedCollections = append(result.FailedCollections, o.local)
			result.Errors = append(result.Errors, models.CollectionError{Collection: o.local, Message: o.err.Error()})
			// a pull applied before the push failed still counts
			if o.stats.Total() == 0 {
				continue
			}
		}
		result.TotalItemsSynced += o.stats.Total()
		result.Collections = append(result.Collections, o.stats)
	}

	return result
}

func failedResult(name string, err error) models.SyncResult {
	return models.SyncResult{
		FailedCollections: []string{name},
		Errors:            []models.CollectionError{{Collection: name, Message: err.Error()}},
	}
}

// isFatal reports configuration errors, which stop the whole operation
// instead of failing a single collection.
func isFatal(err error) bool {
	return errors.Is(err, collection.ErrUnmappedCollection) ||
		errors.Is(err, adapter.ErrNotAuthenticated) ||
		errors.Is(err, adapter.ErrUnauthorized)
}
