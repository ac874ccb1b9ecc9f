package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource is returned when the caller requests a document or
	// email category that does not exist or does not belong to them.
	// Distinct from "no evidence", which is not an error at all.
	ErrInvalidSource = errors.New("invalid source selection")

	// ErrRetrievalUnavailable is returned when both retrieval channels
	// failed and no answer can be attempted.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)

// InvalidSourceError wraps ErrInvalidSource with the offending selection.
type InvalidSourceError struct {
	Scope SearchScope
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source selection: %s %q", e.Scope.Type, e.Scope.ID)
}

func (e *InvalidSourceError) Unwrap() error {
	return ErrInvalidSource
}
