// Package jwt implements a minimal JWT codec using HMAC-SHA256.
//
// The Service signs and verifies compact tokens carrying arbitrary
// JSON-serializable claims. Verification distinguishes malformed tokens,
// invalid signatures and expired tokens through dedicated sentinel errors so
// callers can report them separately.
//
// The clock used for temporal claim validation is injectable via WithClock,
// which keeps expiry behavior deterministic in tests.
package jwt
