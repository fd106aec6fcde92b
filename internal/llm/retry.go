package llm

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jonathan/bestintern/internal/logger"
)

type retryingClient struct {
	Client
	numRetries int
	delay      time.Duration
}

// WithRetry wraps a client so that transport failures are retried numRetries
// times. Other errors and context cancellation are returned immediately.
func WithRetry(c Client, numRetries int, delay time.Duration) Client {
	if numRetries <= 0 {
		return c
	}
	return &retryingClient{Client: c, numRetries: numRetries, delay: delay}
}

func (r *retryingClient) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := retry.Do(
		func() error {
			text, err := r.Client.Generate(ctx, prompt)
			if err != nil {
				return err
			}
			out = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.numRetries+1)),
		retry.Delay(r.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var te *TransportError
			return errors.As(err, &te) && ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.Logger.Warn().Err(err).
				Str("model", string(r.Model())).
				Uint("retry", n+1).
				Msg("retrying model call")
		}),
	)
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) && ctx.Err() != nil {
			err = &TransportError{Model: r.Model(), Cause: err}
		}
		return "", err
	}
	return out, nil
}

// Unwrap returns the client being retried.
func (r *retryingClient) Unwrap() Client {
	return r.Client
}

// AsEmbedder returns c, or a client it wraps, as an Embedder.
func AsEmbedder(c Client) (Embedder, bool) {
	for c != nil {
		if e, ok := c.(Embedder); ok {
			return e, true
		}
		inner, ok := c.(interface{ Unwrap() Client })
		if !ok {
			return nil, false
		}
		c = inner.Unwrap()
	}
	return nil, false
}
