package provider

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls the exponential backoff applied around provider calls
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns bounded exponential backoff defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// permanentError marks an error as non-retryable
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent wraps an error so retry wrappers fail immediately instead of
// retrying. Use it for errors where another attempt cannot succeed, like
// invalid credentials or malformed input.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether an error was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// retry runs op with exponential backoff until it succeeds, the attempts
// are exhausted, the error is permanent or the context is cancelled
func retry(ctx context.Context, config RetryConfig, op func(ctx context.Context) error) error {
	delay := config.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		if attempt == config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return lastErr
}

// RetryEmbedder wraps an Embedder with bounded exponential backoff.
// The core retrieval engine never retries; transient provider failures
// are handled here at the adapter boundary.
type RetryEmbedder struct {
	inner  Embedder
	config RetryConfig
}

// NewRetryEmbedder wraps the given embedder with retry behaviour
func NewRetryEmbedder(inner Embedder, config RetryConfig) *RetryEmbedder {
	return &RetryEmbedder{inner: inner, config: config}
}

func (e *RetryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	err := retry(ctx, e.config, func(ctx context.Context) error {
		var opErr error
		embedding, opErr = e.inner.Embed(ctx, text)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return embedding, nil
}

func (e *RetryEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

// RetryGenerator wraps a Generator with bounded exponential backoff
type RetryGenerator struct {
	inner  Generator
	config RetryConfig
}

// NewRetryGenerator wraps the given generator with retry behaviour
func NewRetryGenerator(inner Generator, config RetryConfig) *RetryGenerator {
	return &RetryGenerator{inner: inner, config: config}
}

func (g *RetryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var response string
	err := retry(ctx, g.config, func(ctx context.Context) error {
		var opErr error
		response, opErr = g.inner.Generate(ctx, prompt)
		return opErr
	})
	if err != nil {
		return "", err
	}
	return response, nil
}
