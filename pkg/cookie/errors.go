package cookie

import "errors"

var (
	// ErrCookieNotFound is returned when the named cookie is absent from the request.
	ErrCookieNotFound = errors.New("cookie not found")
)
