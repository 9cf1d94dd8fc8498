// Package mongostore persists users, posts, comments and notifications in
// MongoDB. Each store owns one collection and converts between the
// ObjectID-keyed documents and the string-keyed domain types.
//
// Uniqueness of user email and nickname is enforced by unique indexes
// (see EnsureIndexes); the stores translate duplicate-key write errors
// into the domain conflict sentinels, which makes the index the
// authoritative duplicate check under concurrent writes.
package mongostore
