package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteSubmission is returned when a meal submission carries
	// neither an analysis result nor manual macros.
	ErrIncompleteSubmission = errors.New("meal submission has neither analysis result nor manual macros")

	// ErrNotFound is returned when a referenced entity does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when the analysis collaborator
	// timed out or returned an unusable payload. Callers recover by falling
	// back to manual entry.
	ErrUpstreamUnavailable = errors.New("analysis service unavailable")
)

// ValidationError represents malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a persistence failure. The engine surfaces these as-is;
// retry policy belongs to the storage layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
