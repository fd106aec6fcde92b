package llm

import "fmt"

// TransportError is returned when a model could not be reached or refused the
// request. It is never produced for well-formed but unusable responses.
type TransportError struct {
	Model Model
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model %s: transport failure: %v", e.Model, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
