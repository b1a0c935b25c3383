// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Item is the unit of synchronization: an envelope carrying the sync metadata
// shared by every entity kind plus the kind-specific payload in Body.
//
// Items are keyed by ID within a collection. ID uniqueness is not global:
// two collections may hold items with the same ID.
//
// Deletion never removes an Item. It sets Deleted and stamps DeletedAt, and
// the resulting tombstone keeps its original ID so that other replicas can
// match it against a live copy.
type Item struct {
	// ID identifies the item inside its collection.
	ID string `json:"id"`

	// Kind selects the entity type stored in Body.
	Kind Kind `json:"kind"`

	// UpdatedAt and LastEdited are the mutation timestamps. Entity types use
	// one or the other; both participate in the effective timestamp.
	UpdatedAt  *Timestamp `json:"updatedAt,omitempty"`
	LastEdited *Timestamp `json:"lastEdited,omitempty"`

	// SyncedAt records the last push or pull involving this item.
	SyncedAt *Timestamp `json:"syncedAt,omitempty"`

	// Deleted marks the item as a tombstone.
	Deleted bool `json:"deleted"`

	// DeletedAt is the time of deletion. Only meaningful when Deleted is true.
	DeletedAt *Timestamp `json:"deletedAt,omitempty"`

	// Body is the JSON-encoded entity of type Kind.
	Body json.RawMessage `json:"body,omitempty"`
}

// SyncID returns the item's identity key.
func (i Item) SyncID() string {
	return i.ID
}

// IsDeleted reports whether the item is a tombstone.
func (i Item) IsDeleted() bool {
	return i.Deleted
}

// EffectiveMillis returns the effective timestamp in Unix milliseconds:
// the maximum of UpdatedAt, LastEdited and SyncedAt, plus DeletedAt when the
// item is a tombstone. Timestamps before 1970 stay negative. Items without
// any timestamp sort at the Unix epoch.
func (i Item) EffectiveMillis() int64 {
	var (
		effective int64
		found     bool
	)

	candidates := []*Timestamp{i.UpdatedAt, i.LastEdited, i.SyncedAt}
	if i.Deleted {
		candidates = append(candidates, i.DeletedAt)
	}

	for _, ts := range candidates {
		if ts == nil || ts.IsZero() {
			continue
		}
		if ms := ts.UnixMilli(); !found || ms > effective {
			effective, found = ms, true
		}
	}

	return effective
}

// EffectiveTime returns [Item.EffectiveMillis] as a UTC time.
func (i Item) EffectiveTime() time.Time {
	return time.UnixMilli(i.EffectiveMillis()).UTC()
}

// Validate checks the item once at a store boundary: it must carry an id, a
// registered kind and, when present, a body that decodes into that kind.
func (i Item) Validate() error {
	if i.ID == "" {
		return ErrMissingID
	}

	if _, err := i.Entity(); err != nil {
		return err
	}

	return nil
}

// Entity decodes Body into the concrete entity registered for Kind.
// An empty body yields the zero value of the entity.
func (i Item) Entity() (Entity, error) {
	factory, ok := entityRegistry[i.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, i.Kind)
	}

	entity := factory()
	if len(i.Body) == 0 {
		return entity, nil
	}

	if err := json.Unmarshal(i.Body, entity); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return entity, nil
}

// Tombstone returns a copy of the item marked as deleted at t.
func (i Item) Tombstone(t time.Time) Item {
	i.Deleted = true
	i.DeletedAt = NewTimestamp(t)
	return i
}

// NewItem wraps entity into an Item with a fresh UpdatedAt.
func NewItem(id string, entity Entity, updatedAt time.Time) (Item, error) {
	body, err := json.Marshal(entity)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return Item{
		ID:        id,
		Kind:      entity.Kind(),
		UpdatedAt: NewTimestamp(updatedAt),
		Body:      body,
	}, nil
}

// ItemRejection describes an item that failed boundary validation.
type ItemRejection struct {
	Index int
	ID    string
	Err   error
}

// DecodeItem decodes a single raw JSON item and validates it.
func DecodeItem(raw json.RawMessage) (Item, error) {
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return Item{}, err
	}

	if err := item.Validate(); err != nil {
		return item, err
	}

	return item, nil
}

// DecodeItems decodes raws, skipping malformed entries.
// Valid items are returned in input order; every skipped entry is reported
// in the rejection list so the caller can log it.
func DecodeItems(raws []json.RawMessage) ([]Item, []ItemRejection) {
	items := make([]Item, 0, len(raws))
	var rejected []ItemRejection

	for idx, raw := range raws {
		item, err := DecodeItem(raw)
		if err != nil {
			rejected = append(rejected, ItemRejection{Index: idx, ID: item.ID, Err: err})
			continue
		}
		items = append(items, item)
	}

	return items, rejected
}

// EncodeItems marshals items into raw JSON entries.
func EncodeItems(items []Item) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode item %q: %w", item.ID, err)
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
