package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrCollectionNotConfigured means a required collection identifier is
// missing from the environment. Fatal, no retry.
var ErrCollectionNotConfigured = errors.New("collection identifier not configured")

// ErrStoreUnavailable marks a failed record-store query or mutation. Read
// paths propagate it unchanged; only the comparison-period fetch in the
// analytics aggregator downgrades it to a zero fallback.
var ErrStoreUnavailable = errors.New("record store unavailable")

// ErrUnsupportedReportKind is returned before any store query is issued.
var ErrUnsupportedReportKind = errors.New("unsupported report kind")

// ValidationError rejects malformed input (remittance amount, date range)
// before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func StoreError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
