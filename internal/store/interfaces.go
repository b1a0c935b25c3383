package store

import (
	"context"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalStore is the device-local replica, keyed by collection and item id.
//
// Collections are identified by their local names. Items are never
// physically removed; Delete writes a tombstone. The replica is partitioned
// by principal and every call sees only the current principal's items.
type LocalStore interface {
	// GetAll returns the live items of a collection, tombstones excluded.
	GetAll(ctx context.Context, collection string) ([]models.Item, error)

	// GetAllIncludingDeleted returns every item of a collection, tombstones
	// included. Used by the sync engine.
	GetAllIncludingDeleted(ctx context.Context, collection string) ([]models.Item, error)

	// Get returns a single item or ErrItemNotFound.
	Get(ctx context.Context, collection, id string) (models.Item, error)

	// Put upserts a single item and then runs the configured ChangeHook.
	Put(ctx context.Context, collection string, item models.Item) error

	// PutBatchLocalOnly upserts items in one transaction without running the
	// ChangeHook. The sync engine uses it to apply pulled items without
	// re-triggering a push.
	PutBatchLocalOnly(ctx context.Context, collection string, items []models.Item) error

	// Delete tombstones an item and then runs the configured ChangeHook.
	// Deleting an existing tombstone is a no-op that keeps its deletedAt.
	// Returns ErrItemNotFound when the item does not exist.
	Delete(ctx context.Context, collection, id string) error
}

// ChangeHook observes caller-originated local writes. It runs after the
// write is durable; its error is logged and never fails the write.
type ChangeHook func(ctx context.Context, change models.LocalChange) error

// ItemRepository is the multi-tenant remote replica. Every call is scoped
// to a principal (userID) and a remote collection name.
type ItemRepository interface {
	// GetAll returns every item of the collection, tombstones included.
	GetAll(ctx context.Context, userID, collection string) ([]models.Item, error)

	// Upsert stores items. An incoming item replaces the stored one unless
	// the stored one has a strictly newer effective timestamp.
	Upsert(ctx context.Context, userID, collection string, items ...models.Item) error

	// SoftDelete tombstones an item at the given time and returns it. A live
	// item whose effective timestamp is newer than at, or an existing
	// tombstone, is left unchanged and returned as stored.
	// Returns ErrItemNotFound when the item does not exist.
	SoftDelete(ctx context.Context, userID, collection, id string, at time.Time) (models.Item, error)
}

// ErrorClassificator decides whether a failed database operation may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
