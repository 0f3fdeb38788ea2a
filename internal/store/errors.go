// File: internal/store/errors.go
package store

import "errors"

var (
	// ErrNotFound is returned by operations addressed to a conversation
	// id that does not exist. Point lookups return (nil, nil) instead;
	// delete is idempotent and never returns this.
	ErrNotFound = errors.New("conversation not found")

	// ErrNotOpen is returned by every operation issued after Close and
	// before a new Open.
	ErrNotOpen = errors.New("store is not open")

	// ErrStorageUnavailable wraps failures to create or open the
	// underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
