// Package cookie manages HTTP cookies with consistent transport attributes.
//
// A Manager carries default attributes (path, lifetime, HttpOnly, Secure,
// SameSite) applied to every cookie it writes. Delete emits an expired
// cookie with exactly the same attributes as Set; some browsers refuse to
// clear a cookie whose clearing attributes differ from the ones it was set
// with.
package cookie
