package provider

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// RetryCompleter wraps a Completer with exponential backoff on transient
// failures. Non-retryable errors (bad key, bad request) surface immediately.
type RetryCompleter struct {
	inner      Completer
	maxRetries int
	baseDelay  time.Duration
}

func WithRetry(c Completer, maxRetries int) *RetryCompleter {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryCompleter{inner: c, maxRetries: maxRetries, baseDelay: 500 * time.Millisecond}
}

func (r *RetryCompleter) ModelName() string { return r.inner.ModelName() }

func (r *RetryCompleter) Complete(ctx context.Context, msgs []Message, params Params) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		text, err := r.inner.Complete(ctx, msgs, params)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}
		if err := r.backoff(ctx, attempt); err != nil {
			break
		}
	}
	return "", lastErr
}

func isRetryable(err error) bool {
	var ce *CallError
	if errors.As(err, &ce) {
		switch ce.StatusCode {
		case 429, 500, 502, 503, 529:
			return true
		}
	}
	msg := err.Error()
	for _, s := range []string{"connection refused", "timed out", "deadline exceeded", "closed unexpectedly", "reset by server"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (r *RetryCompleter) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
