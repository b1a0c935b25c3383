package client

import "errors"

// ErrPartialSync is returned in sync-once mode when at least one collection
// failed.
var ErrPartialSync = errors.New("sync finished with failed collections")
