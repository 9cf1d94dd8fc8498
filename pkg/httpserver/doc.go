// Package httpserver wraps net/http.Server with graceful shutdown, signal
// handling and structured logging hooks.
package httpserver
