// Package workers runs the background workers of the sync client as one
// unit: they start in order and stop in reverse order.
package workers

import "context"

// Worker is a background activity with an explicit lifecycle.
//
// Start must return once the worker is running; the work itself happens in
// goroutines the worker owns. Stop must block until those goroutines have
// exited and must be safe to call on a worker whose Start failed.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
	Stop()
}
