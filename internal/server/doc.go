// Package server runs the remote store HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown. Shutdown also ends open subscription websockets, which the
// standard [http.Server.Shutdown] does not track once hijacked.
package server
