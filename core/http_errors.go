package core

import "net/http"

// HTTPError is an error carrying the status code and client-safe message
// it should render with.
type HTTPError struct {
	Code    int    // HTTP status code
	Message string // client-facing message
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTP error with the given status code and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Message: "authentication required"}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden, Message: "forbidden"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "not found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Message: "conflict"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
)
