package models

import "time"

// SyncResult is the aggregate outcome of a full bidirectional sync.
type SyncResult struct {
	// Success is true only when no collection failed.
	Success bool `json:"success"`

	// TotalItemsSynced is the sum of pulled and pushed items over all
	// collections that completed.
	TotalItemsSynced int `json:"totalItemsSynced"`

	// FailedCollections lists the local names of collections that failed,
	// in the order they were requested.
	FailedCollections []string `json:"failedCollections"`

	// Errors carries one entry per failed collection.
	Errors []CollectionError `json:"errors"`

	// Collections holds the stats of every collection that completed,
	// in the order they were requested.
	Collections []CollectionStats `json:"collections"`
}

// CollectionError records why a single collection failed to sync.
type CollectionError struct {
	Collection string `json:"collection"`
	Message    string `json:"message"`
}

// CollectionStats is the per-collection outcome of one merge-and-apply step.
type CollectionStats struct {
	Collection string `json:"collection"`
	Pulled     int    `json:"pulled"`
	Pushed     int    `json:"pushed"`
}

// Total returns Pulled + Pushed.
func (s CollectionStats) Total() int {
	return s.Pulled + s.Pushed
}

// SyncProgress is reported as each collection begins syncing.
type SyncProgress struct {
	Collection string
	Index      int
	Total      int
}

// ChangeEvent tells view layers that a local collection changed.
type ChangeEvent struct {
	Collection string
	At         time.Time
}

// ChangeOp is the kind of local mutation reported to a change hook.
type ChangeOp int

const (
	// OpPut is a single-item upsert.
	OpPut ChangeOp = iota + 1
	// OpDelete is a logical delete.
	OpDelete
)

// String implements fmt.Stringer.
func (o ChangeOp) String() string {
	switch o {
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// LocalChange describes a caller-originated local write. It is not emitted
// for batch writes made by the sync engine itself.
type LocalChange struct {
	// Principal owns the replica partition the write landed in.
	Principal  string
	Collection string
	Item       Item
	Op         ChangeOp
}
