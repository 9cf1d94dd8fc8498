package notifications

import "errors"

var (
	// ErrNotificationNotFound indicates no notification exists with the given id.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNotRecipient indicates the caller does not own the notification.
	ErrNotRecipient = errors.New("not the notification recipient")
)
