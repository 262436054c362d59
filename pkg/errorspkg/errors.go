// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrStoreUnavailable indicates that the persistence layer could not
	// complete an operation (I/O failure, timeout).
	ErrStoreUnavailable = errors.New("store unavailable")
)
