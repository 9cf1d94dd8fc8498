package comments

import "errors"

var (
	// ErrCommentNotFound indicates no comment exists with the given id.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotAuthor indicates the caller does not own the comment.
	ErrNotAuthor = errors.New("not the comment author")
	// ErrInvalidInput indicates a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
)
