// Package server wires and runs the sync server's transport layer.
//
// It provides the HTTP server lifecycle (startup, signal handling, graceful
// shutdown) and the in-process hub that fans confirmed document changes out
// to the websocket watch subscriptions.
package server
