// Package users aggregates a member's public profile (their posts,
// comments and liked posts) and handles profile updates. Nickname changes
// propagate to the denormalized author fields on posts and comments.
package users
