// Package extraction turns unstructured text into schema-valid structured data
// by prompting a language model and repairing its output with corrective retries.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/jonathan/bestintern/internal/prompts"
	"github.com/jonathan/bestintern/internal/schemas"
)

// DefaultMaxAttempts is the number of model calls made before giving up.
const DefaultMaxAttempts = 2

const promptFile = "extraction.json"

var validate = validator.New()

// Options configures an extraction call.
type Options struct {
	MaxAttempts int
}

// Option mutates Options.
type Option func(*Options)

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		o.MaxAttempts = n
	}
}

// Attempt records one model call.
type Attempt struct {
	Number   int
	Prompt   string
	Response string
	Err      error
}

// Result is a validated extraction. Data always satisfies the schema.
type Result[T any] struct {
	Data T `json:"data"`
	// Missing holds top-level fields the model could not fill.
	Missing  []string  `json:"not_found"`
	Attempts []Attempt `json:"-"`
}

// ExtractType extracts a T using the schema generated from T.
func ExtractType[T any](ctx context.Context, text string, model llm.Client, opts ...Option) (*Result[T], error) {
	schema, err := schemas.For[T]()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	return Extract[T](ctx, text, schema, model, opts...)
}

// Extract asks model to fill schema from text and decodes the answer into T.
//
// Each rejected answer (no JSON object, malformed JSON, schema violation)
// appends a correction to the prompt and tries again; corrections accumulate.
// Errors from the model itself are returned immediately. When all attempts
// are rejected the error is a *FailedError.
func Extract[T any](ctx context.Context, text string, schema *schemas.Schema, model llm.Client, opts ...Option) (*Result[T], error) {
	options := Options{MaxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", options.MaxAttempts)
	}

	prompt, err := BuildPrompt(text, schema)
	if err != nil {
		return nil, err
	}

	log := logger.Component("extraction").With().
		Str("model", string(model.Model())).
		Str("schema", schema.Title).
		Logger()

	var attempts []Attempt
	var last *AttemptError
	for n := 1; n <= options.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debug().Int("attempt", n).Int("prompt_chars", len(prompt)).Msg("invoking model")
		response, err := model.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", n, err)
		}

		value, data, err := decode[T](response, schema)
		attempts = append(attempts, Attempt{Number: n, Prompt: prompt, Response: response})
		if err == nil {
			missing := MissingFields(schema, data)
			log.Debug().Int("attempt", n).Strs("missing", missing).Msg("extraction succeeded")
			return &Result[T]{Data: value, Missing: missing, Attempts: attempts}, nil
		}

		var attemptErr *AttemptError
		if !errors.As(err, &attemptErr) {
			return nil, err
		}
		attemptErr.Attempt = n
		attempts[len(attempts)-1].Err = attemptErr
		last = attemptErr
		log.Warn().Int("attempt", n).Err(attemptErr).Msg("model output rejected")

		if n < options.MaxAttempts {
			correction, err := Correction(attemptErr)
			if err != nil {
				return nil, err
			}
			prompt += "\n\n" + correction
		}
	}

	return nil, &FailedError{Attempts: options.MaxAttempts, Last: last}
}

// BuildPrompt renders the initial extraction prompt.
func BuildPrompt(text string, schema *schemas.Schema) (string, error) {
	return prompts.Render(promptFile, "extract-data", map[string]string{
		"FieldsInfo": schemas.Summarize(schema).String(),
		"Text":       text,
	})
}

// Correction renders the text appended to the prompt after a rejected attempt.
func Correction(reason error) (string, error) {
	return prompts.Render(promptFile, "correction", map[string]string{
		"Reason": strings.TrimSpace(reason.Error()),
	})
}

// decode parses, validates and constructs the typed value. It returns the raw
// parsed map alongside so missing fields can be computed before defaults apply.
// Rejections of the model output are *AttemptError; anything else is a setup error.
func decode[T any](response string, schema *schemas.Schema) (T, map[string]any, error) {
	var value T

	data, span, err := ParseResponse(response)
	if err != nil {
		return value, nil, err
	}

	if err := schemas.ValidateDocument(schema, data); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return value, nil, err
		}
		return value, nil, &AttemptError{Kind: ErrSchemaValidation, Cause: err}
	}

	if err := json.Unmarshal([]byte(span), &value); err != nil {
		return value, nil, &AttemptError{Kind: ErrSchemaValidation, Cause: err}
	}
	if isStruct(value) {
		if err := validate.Struct(value); err != nil {
			return value, nil, &AttemptError{Kind: ErrSchemaValidation, Cause: err}
		}
	}
	return value, data, nil
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}
