package server

// Server defines the lifecycle contract of the remote store server.
//
// RunServer blocks until a termination signal arrives or the listener
// fails. Shutdown stops the server and frees its resources.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
