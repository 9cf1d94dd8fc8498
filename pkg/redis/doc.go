// Package redis connects to a Redis server with retries and exposes a
// healthcheck helper. The application uses Redis for short-lived OAuth
// state tokens.
package redis
