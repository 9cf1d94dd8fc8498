// Package logger builds configured log/slog loggers and provides attribute
// helpers for the keys used across the application.
//
// The factory supports two output formats: human-readable text for
// development and JSON for production log aggregation. Configuration comes
// from environment variables via the Config struct or from functional
// options.
package logger
