package models

import (
	"encoding/json"
	"time"
)

// BatchWriteRequest is the body of a batched upsert against a remote collection.
//
// Items are kept raw so that the server can skip malformed entries one by
// one instead of rejecting the whole request.
type BatchWriteRequest struct {
	Items  []json.RawMessage `json:"items"`
	Length int               `json:"length"`
}

// BatchWriteResponse reports how many items were stored and how many skipped.
type BatchWriteResponse struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// ItemsResponse is returned when listing a remote collection.
type ItemsResponse struct {
	Collection string            `json:"collection"`
	Items      []json.RawMessage `json:"items"`
}

// SnapshotMessage is pushed over a subscription whenever the collection
// changes. It always carries the full current item array.
type SnapshotMessage struct {
	Collection string            `json:"collection"`
	Items      []json.RawMessage `json:"items"`
	At         time.Time         `json:"at"`
}
