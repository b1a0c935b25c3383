// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package merge implements whole-item last-write-wins conflict resolution
// between a local and a remote snapshot of one collection.
//
// Merge is a pure function: it performs no I/O, never fails and is shared by
// the full sync path and the realtime path so that both resolve conflicts
// with the same policy.
package merge

// Syncable is the capability every synchronised item provides.
type Syncable interface {
	// SyncID is the identity key inside a collection.
	SyncID() string
	// IsDeleted reports whether the item is a tombstone.
	IsDeleted() bool
	// EffectiveMillis is the single ordering key for conflict resolution.
	EffectiveMillis() int64
}

// Result is the outcome of merging two snapshots.
type Result[T Syncable] struct {
	// Merged holds exactly one item per id present in either input.
	Merged []T
	// ToLocal holds items the local replica must write.
	ToLocal []T
	// ToRemote holds items the remote replica must write.
	ToRemote []T
}

// Empty reports whether neither side needs an update.
func (r Result[T]) Empty() bool {
	return len(r.ToLocal) == 0 && len(r.ToRemote) == 0
}

// Tombstones returns the subset of ToRemote that are deletions.
func (r Result[T]) Tombstones() []T {
	var out []T
	for _, item := range r.ToRemote {
		if item.IsDeleted() {
			out = append(out, item)
		}
	}
	return out
}

// Merge resolves local against remote.
//
//   - id only in local: merged and pushed, tombstones included, since the
//     remote has never observed it.
//   - id only in remote: merged and pulled, except tombstones, which stay in
//     merged but are not pulled because there is no local copy to delete.
//   - id in both: the strictly greater effective timestamp wins and the
//     losing side is scheduled for update. On a tie the remote version is
//     kept and nothing is scheduled.
//
// Merged preserves local order followed by remote-only items in remote order.
// Inputs should hold at most one item per id; when they do not, the newest
// occurrence is used.
func Merge[T Syncable](local, remote []T) Result[T] {
	localIndex, localOrder := index(local)
	remoteIndex, remoteOrder := index(remote)

	res := Result[T]{
		Merged: make([]T, 0, len(localOrder)+len(remoteOrder)),
	}

	// ── Pass 1: ids known locally ───────────────────────────────────────────
	for _, id := range localOrder {
		l := localIndex[id]
		r, onRemote := remoteIndex[id]

		if !onRemote {
			res.Merged = append(res.Merged, l)
			res.ToRemote = append(res.ToRemote, l)
			continue
		}

		lt, rt := l.EffectiveMillis(), r.EffectiveMillis()
		switch {
		case lt > rt:
			res.Merged = append(res.Merged, l)
			res.ToRemote = append(res.ToRemote, l)
		case rt > lt:
			res.Merged = append(res.Merged, r)
			res.ToLocal = append(res.ToLocal, r)
		default:
			res.Merged = append(res.Merged, r)
		}
	}

	// ── Pass 2: remote-only ids ─────────────────────────────────────────────
	for _, id := range remoteOrder {
		if _, onLocal := localIndex[id]; onLocal {
			continue
		}

		r := remoteIndex[id]
		res.Merged = append(res.Merged, r)
		if !r.IsDeleted() {
			res.ToLocal = append(res.ToLocal, r)
		}
	}

	return res
}

// index keys items by id, keeping the newest item for repeated ids and the
// position of the first occurrence.
func index[T Syncable](items []T) (map[string]T, []string) {
	byID := make(map[string]T, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		id := item.SyncID()
		prev, seen := byID[id]
		if !seen {
			order = append(order, id)
			byID[id] = item
			continue
		}
		if item.EffectiveMillis() > prev.EffectiveMillis() {
			byID[id] = item
		}
	}

	return byID, order
}
