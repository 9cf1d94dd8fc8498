package users

import "errors"

// ErrInvalidInput indicates a missing or malformed request field.
var ErrInvalidInput = errors.New("invalid input")
