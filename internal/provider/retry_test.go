package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// flaky fails n times with err before succeeding.
type flaky struct {
	failures int
	err      error
	calls    int
}

func (f *flaky) GenerateStructured(context.Context, string, string, string, map[string]interface{}) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []byte(`{}`), nil
}

func (f *flaky) GenerateText(context.Context, string, string, string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "ok", nil
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	inner := &flaky{failures: 2, err: errors.New("dial tcp: connection refused")}
	r := NewRetry(inner, 3, time.Millisecond)

	out, err := r.GenerateStructured(context.Background(), "m", "", "", nil)
	require.NoError(t, err)
	require.Equal(t, `{}`, string(out))
	require.Equal(t, 3, inner.calls)
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	inner := &flaky{failures: 10, err: errors.New("request timed out")}
	r := NewRetry(inner, 3, time.Millisecond)

	_, err := r.GenerateText(context.Background(), "m", "", "")
	require.Error(t, err)
	require.Equal(t, 3, inner.calls)
}

func TestRetryFailsFastOnTerminalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"credential", ErrCredentialMissing},
		{"quota", &QuotaError{Provider: NameOpenAI, Detail: "out"}},
		{"malformed", &MalformedOutputError{Provider: NameGemini, Detail: "bad"}},
		{"logic error", errors.New("model not found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &flaky{failures: 10, err: tt.err}
			r := NewRetry(inner, 3, time.Millisecond)
			_, err := r.GenerateStructured(context.Background(), "m", "", "", nil)
			require.Error(t, err)
			require.Equal(t, 1, inner.calls, "terminal errors must not be retried")
		})
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &flaky{failures: 10, err: errors.New("connection reset by peer")}
	r := NewRetry(inner, 5, 10*time.Second)

	_, err := r.GenerateText(ctx, "m", "", "")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, inner.calls, "backoff must observe cancellation before the next try")
}

func TestIsTransient(t *testing.T) {
	if isTransient(nil) {
		t.Error("nil is not transient")
	}
	if !isTransient(errors.New("unexpected EOF")) {
		t.Error("EOF should be transient")
	}
	if !isTransient(errors.New("openai API returned status 503: upstream")) {
		t.Error("503 should be transient")
	}
	if isTransient(context.DeadlineExceeded) {
		t.Error("deadline exceeded is terminal for the invocation")
	}
}
