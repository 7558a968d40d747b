// Package workers runs the long-lived background loops of a process as one
// unit: the connectivity prober, the sync job and the relay server.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is canceled or the
// worker fails. A nil return after cancellation is a clean stop.
//
// Example implementation:
//
//	type ticker struct{}
//
//	func (t *ticker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
