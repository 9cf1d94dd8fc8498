package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the unified failure envelope.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the unified plain-success envelope.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a {"message": ...} success response.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}

// Error renders err as an {"error": ...} response.
//
// HTTPError values render with their own status and message; everything
// else becomes a generic 500 so storage and upstream failures never leak
// details to clients.
func Error(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		JSON(w, httpErr.Code, ErrorBody{Error: httpErr.Message})
		return
	}
	JSON(w, http.StatusInternalServerError, ErrorBody{Error: ErrInternalServerError.Message})
}
