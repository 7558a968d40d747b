package server

import "context"

// Server defines the lifecycle contract of the relay transport.
type Server interface {
	// RunServer serves until SIGTERM, SIGINT or SIGQUIT and then shuts down
	// gracefully.
	RunServer() error

	// Run serves until ctx is canceled. It satisfies workers.Worker.
	Run(ctx context.Context) error
}
