// Package provider abstracts structured and narrative text generation over
// interchangeable backends: a deterministic offline fixture, Google Gemini via
// the genai SDK, and OpenAI via its REST API. The variant is chosen once per
// process from configuration and injected into the pipeline; it is never
// renegotiated per call, and no variant retries or falls back to another.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator is the capability every backend must expose. GenerateStructured
// returns the raw JSON payload (already stripped of markdown fences) for the
// caller to parse against its schema; GenerateText returns trimmed prose.
type Generator interface {
	GenerateStructured(ctx context.Context, model, systemInstruction, userPrompt string, schema map[string]interface{}) ([]byte, error)
	GenerateText(ctx context.Context, model, systemInstruction, userPrompt string) (string, error)
}

// Known provider names.
const (
	NameOffline = "offline"
	NameGemini  = "gemini"
	NameOpenAI  = "openai"
)

// Options selects and credentials a backend.
type Options struct {
	// Provider is the variant name. Empty selects offline, the documented
	// zero-cost default. Anything unrecognized is an error, never a silent
	// fallback.
	Provider string

	GeminiAPIKey string
	OpenAIAPIKey string
}

// Live backends get bounded retry on transient transport failures; see Retry
// for what is and is not retried.
const (
	liveRetryAttempts = 3
	liveRetryBase     = 500 * time.Millisecond
)

// New constructs the single Generator instance for this process. Live
// variants are constructed even without a credential; they fail fast with
// ErrCredentialMissing on first use, before any network I/O.
func New(opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case NameOffline, "":
		return NewOffline(), nil
	case NameGemini:
		return NewRetry(NewGemini(opts.GeminiAPIKey), liveRetryAttempts, liveRetryBase), nil
	case NameOpenAI:
		return NewRetry(NewOpenAI(opts.OpenAIAPIKey), liveRetryAttempts, liveRetryBase), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: offline, gemini, openai)", ErrUnknownProvider, opts.Provider)
	}
}
