package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors. The caller-facing layer maps each kind to different
// remediation text, so they must stay distinguishable with errors.Is/As.
var (
	// ErrCredentialMissing means the selected live backend has no API key.
	// Raised before any network call is attempted.
	ErrCredentialMissing = errors.New("API key is not set for the selected provider")

	// ErrUnknownProvider means configuration names a variant that is not
	// implemented. Fatal for the invocation; there is no silent default.
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// QuotaError reports a quota or rate-limit rejection from a live backend.
type QuotaError struct {
	Provider string
	Detail   string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %s", e.Provider, e.Detail)
}

// MalformedOutputError reports backend output that is not parseable JSON.
// Schema-level breaches are the schema package's ValidationError instead.
type MalformedOutputError struct {
	Provider string
	Detail   string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s returned malformed output: %s", e.Provider, e.Detail)
}
