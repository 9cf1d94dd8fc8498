// Package comments implements post comments: creation, per-post listing,
// and author-only editing and deletion. Creating a comment notifies the
// post author unless they commented on their own post.
package comments
