// Package sentinel holds infrastructure errors that stores and adapters return
// (possibly wrapped). Services translate them into domain errors; input
// validation belongs in pkg/domain-errors.
package sentinel

import "errors"

var (
	// ErrNotFound means the record does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means a backing service did not answer.
	ErrUnavailable = errors.New("unavailable")
)
