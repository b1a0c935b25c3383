// Package http implements the HTTP transport of the remote store server.
//
// It exposes route wiring, item handlers, the websocket subscribe endpoint
// and middleware. Authentication, request tracing, access logging and
// response compression are handled here before requests are delegated to
// the service layer.
package http
