package service

import (
	"context"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// ProgressFunc receives a report as each collection begins syncing.
type ProgressFunc func(models.SyncProgress)

// SyncService drives full bidirectional syncs.
type SyncService interface {
	// SyncAll syncs the given local collections, or every mapped collection
	// when none are given. Collections run in bounded parallel batches; a
	// failing collection is recorded in the result and does not stop the
	// others. The returned error is non-nil only for configuration errors
	// (unmapped collection, missing or rejected credentials), which stop the
	// operation; the partial result is returned alongside it.
	SyncAll(ctx context.Context, collections []string, progress ProgressFunc) (models.SyncResult, error)
}

// RealtimeService applies remote snapshots to the local replica as they
// arrive.
type RealtimeService interface {
	// Start opens one subscription per local collection (every mapped
	// collection when none are given). The returned handle is the only way
	// to stop them.
	Start(ctx context.Context, collections []string) (*RealtimeHandle, error)
}

// ChangeNotifier tells view layers that a local collection changed,
// at most once per throttle window per collection.
type ChangeNotifier interface {
	// Notify fires listeners for collection unless the collection fired
	// within the throttle window. It reports whether listeners were called.
	Notify(collection string) bool

	// Listen registers fn and returns a function that unregisters it.
	Listen(fn func(models.ChangeEvent)) (stop func())
}

// SyncJob runs SyncAll periodically in the background.
type SyncJob interface {
	// Start launches the job. It syncs every interval, defaulting to
	// 5 minutes if interval is zero or negative.
	Start(ctx context.Context, interval time.Duration) *JobHandle
}
