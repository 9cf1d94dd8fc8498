// Package notifications records like and comment events for post authors
// and serves them back, newest first. Recording is best-effort: a failed
// notification write is logged and never propagated to the triggering
// request.
package notifications
