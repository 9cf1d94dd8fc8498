// Package redisstore keeps the short-lived one-time values the OAuth flow
// needs in Redis. State tokens expire on their own via TTL and are removed
// atomically on first use, so a replayed callback finds nothing.
package redisstore
