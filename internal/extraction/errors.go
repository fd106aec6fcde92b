package extraction

import (
	"errors"
	"fmt"
)

// Attempt-level failure kinds. They trigger a corrective retry and only
// escape the loop wrapped in a *FailedError.
var (
	ErrNoJSONFound      = errors.New("no valid JSON object found in the response")
	ErrMalformedJSON    = errors.New("response is not valid JSON")
	ErrSchemaValidation = errors.New("response does not match the schema")
)

// ErrExtractionFailed is matched by every *FailedError.
var ErrExtractionFailed = errors.New("extraction failed")

// AttemptError describes why a single attempt was rejected.
type AttemptError struct {
	Attempt int
	Kind    error
	Cause   error
}

func (e *AttemptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	}
	return e.Kind.Error()
}

func (e *AttemptError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// FailedError is returned when every attempt was rejected.
type FailedError struct {
	Attempts int
	Last     *AttemptError
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("failed to extract valid data after %d attempts: %v", e.Attempts, e.Last)
}

func (e *FailedError) Unwrap() []error {
	return []error{ErrExtractionFailed, e.Last}
}
