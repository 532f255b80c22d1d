package ic

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrUnreadableDocument is returned when no orientation of the image
	// produced recognizable text.
	ErrUnreadableDocument = errors.New("could not process image at any orientation")

	// ErrNoTextLines is returned when extraction is invoked with no text.
	ErrNoTextLines = errors.New("no text lines to extract from")
)

// ExtractionError wraps errors with context about the extraction failure.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "Process", "Extract").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ic: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ic: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExtractionError creates an ExtractionError with the given operation and cause.
func NewExtractionError(op string, err error, details string) *ExtractionError {
	return &ExtractionError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapExtractionError wraps an error as an ExtractionError if it isn't already one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return err // Already wrapped
	}

	return NewExtractionError(op, err, details)
}
