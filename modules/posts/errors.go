package posts

import "errors"

var (
	// ErrPostNotFound indicates no post exists with the given id.
	ErrPostNotFound = errors.New("post not found")
	// ErrNotAuthor indicates the caller does not own the post.
	ErrNotAuthor = errors.New("not the post author")
	// ErrInvalidInput indicates a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCover indicates the uploaded cover is not an accepted image.
	ErrInvalidCover = errors.New("invalid cover image")
)
