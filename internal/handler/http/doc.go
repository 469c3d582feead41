// Package http implements the HTTP transport layer of the sync server.
// It provides middleware, route handlers, and request/response utilities
// for the REST API and the websocket watch endpoint. Authentication,
// logging and tracing concerns are all handled at this layer before
// requests reach the document repository.
package http
