// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote multi-tenant store.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// with websocket change subscriptions ([NewHTTPRemoteStore]).
//
// Every call is scoped to the principal carried by the bearer token. Calls
// made without a token fail with [ErrNotAuthenticated] before touching the
// network. Error values defined in errors.go are mapped from HTTP status
// codes by mapHTTPError so that callers can use [errors.Is] for
// transport-agnostic error handling.
package adapter

import (
	"context"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the remote store.
// Collections are identified by their remote names.
type RemoteStore interface {
	// SetToken stores the bearer token attached to every subsequent request
	// and extracts its principal. An empty token signs the adapter out.
	SetToken(token string) error

	// Token returns the current bearer token, or an empty string.
	Token() string

	// Principal returns the principal of the current token, or an empty string.
	Principal() string

	// FetchAll returns every item of the collection, tombstones included.
	// Malformed items are skipped with a warning.
	FetchAll(ctx context.Context, collection string) ([]models.Item, error)

	// BatchWrite upserts items in a single request. An empty batch is a no-op.
	BatchWrite(ctx context.Context, collection string, items []models.Item) error

	// PushOne upserts a single item.
	PushOne(ctx context.Context, collection string, item models.Item) error

	// DeleteOne tombstones an item on the remote.
	DeleteOne(ctx context.Context, collection, id string) error

	// Subscribe opens a change subscription. The returned [Subscription]
	// delivers the full item array of the collection on every remote change.
	Subscribe(ctx context.Context, collection string) (Subscription, error)
}

// Subscription is a cancellable stream of collection snapshots.
type Subscription interface {
	// Snapshots yields the full current item array per remote change.
	// The channel is closed once the subscription ends.
	Snapshots() <-chan []models.Item

	// Close detaches the subscription. It is idempotent and returns only after
	// the producer has stopped, so no snapshot is delivered after it returns.
	Close() error
}
