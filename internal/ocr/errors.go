package ocr

import (
	"errors"
	"fmt"
)

// Common recognition errors
var (
	// ErrUnknownEngine is returned when an unrecognized engine name is requested.
	ErrUnknownEngine = errors.New("unknown OCR engine")

	// ErrRecognitionFailed is returned when the backend fails to process the image.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrInvalidImage is returned when the image cannot be encoded for the backend.
	ErrInvalidImage = errors.New("invalid or unsupported image")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrMissingProcessor is returned when the documentai engine is selected
	// without a processor configured.
	ErrMissingProcessor = errors.New("missing Document AI processor: set GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID")

	// ErrContextCanceled is returned when the context is canceled during processing.
	ErrContextCanceled = errors.New("text recognition was canceled")
)

// OCRError wraps errors with additional context about the recognition failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "Recognize", "NewVisionEngine").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}
