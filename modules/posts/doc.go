// Package posts implements blog post management: creation with an optional
// cover image, paginated listing, title search, author-only editing and
// deletion, and per-user like toggling.
//
// Posts are stored as single MongoDB documents; the likes array is mutated
// with atomic array operators, so a like toggle needs no locking. Comment
// counts are derived at read time from the comments collection.
package posts
