package parsing

import (
	"errors"
	"fmt"

	"github.com/jonathan/bestintern/internal/llm"
)

// APICallError represents a failure to reach the model
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a document that could not be read or extracted
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents missing or invalid parser input
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// classify wraps an extraction error so callers can tell model outages
// from unusable answers.
func classify(source string, err error) error {
	var transport *llm.TransportError
	if errors.As(err, &transport) {
		return &APICallError{Message: fmt.Sprintf("model %s unavailable while parsing %s", transport.Model, source), Cause: err}
	}
	return &ParseError{Message: fmt.Sprintf("failed to extract %s", source), Cause: err}
}
