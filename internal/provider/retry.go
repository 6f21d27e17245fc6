package provider

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Retry wraps a live backend with bounded retry and exponential backoff on
// transient transport failures only. Credential, quota, malformed-output, and
// context errors fail fast: retrying those cannot succeed and would hide the
// real problem.
type Retry struct {
	inner    Generator
	attempts int
	base     time.Duration
}

// NewRetry wraps gen. attempts is the total number of tries (minimum 1);
// base is the first backoff interval, doubled after each failed try.
func NewRetry(gen Generator, attempts int, base time.Duration) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	return &Retry{inner: gen, attempts: attempts, base: base}
}

// transientHints are substrings of transport-level failures worth retrying.
var transientHints = []string{
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"unavailable",
	"network",
	"i/o",
	"eof",
	"status 502",
	"status 503",
	"status 504",
}

// isTransient reports whether a failure is worth another try.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCredentialMissing) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var quota *QuotaError
	var malformed *MalformedOutputError
	if errors.As(err, &quota) || errors.As(err, &malformed) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, h := range transientHints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}

// backoff waits base<<attempt or until the context is done.
func (r *Retry) backoff(ctx context.Context, attempt int) error {
	shift := attempt
	if shift > 10 {
		shift = 10
	}
	t := time.NewTimer(r.base * time.Duration(1<<shift))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Retry) GenerateStructured(ctx context.Context, model, systemInstruction, userPrompt string, schema map[string]interface{}) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			if err := r.backoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}
		out, err := r.inner.GenerateStructured(ctx, model, systemInstruction, userPrompt, schema)
		if err == nil {
			return out, nil
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *Retry) GenerateText(ctx context.Context, model, systemInstruction, userPrompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			if err := r.backoff(ctx, attempt-1); err != nil {
				return "", err
			}
		}
		out, err := r.inner.GenerateText(ctx, model, systemInstruction, userPrompt)
		if err == nil {
			return out, nil
		}
		if !isTransient(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
