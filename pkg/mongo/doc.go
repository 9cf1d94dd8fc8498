// Package mongo connects to a MongoDB deployment and exposes a healthcheck
// helper. Configuration comes from environment variables via the Config
// struct; the connection is retried so the service survives a database that
// comes up slightly later than the application.
package mongo
