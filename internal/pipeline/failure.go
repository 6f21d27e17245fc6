package pipeline

import (
	"errors"

	"decisionmap/internal/campaign"
	"decisionmap/internal/provider"
	"decisionmap/internal/schema"
	"decisionmap/internal/store"
)

// Failure is the closed classification of pipeline errors. Each class maps to
// distinct user-facing remediation text; nothing is retried automatically.
type Failure int

const (
	FailureUnknown Failure = iota
	FailureInvalidInput
	FailureCredentialMissing
	FailureQuotaExceeded
	FailureMalformedOutput
	FailureValidation
	FailureUnknownProvider
	FailureStorage
)

// String names the failure class.
func (f Failure) String() string {
	switch f {
	case FailureInvalidInput:
		return "invalid-input"
	case FailureCredentialMissing:
		return "credential-missing"
	case FailureQuotaExceeded:
		return "quota-exceeded"
	case FailureMalformedOutput:
		return "malformed-output"
	case FailureValidation:
		return "validation-failed"
	case FailureUnknownProvider:
		return "unknown-provider"
	case FailureStorage:
		return "storage-io"
	default:
		return "unknown"
	}
}

// Classify maps an error from Run onto exactly one failure class.
func Classify(err error) Failure {
	var (
		missingField *campaign.MissingFieldError
		templateErr  *campaign.TemplateError
		quotaErr     *provider.QuotaError
		malformed    *provider.MalformedOutputError
		validation   *schema.ValidationError
		storageErr   *store.IOError
	)
	switch {
	case err == nil:
		return FailureUnknown
	case errors.As(err, &missingField), errors.As(err, &templateErr):
		return FailureInvalidInput
	case errors.Is(err, provider.ErrCredentialMissing):
		return FailureCredentialMissing
	case errors.Is(err, provider.ErrUnknownProvider):
		return FailureUnknownProvider
	case errors.As(err, &quotaErr):
		return FailureQuotaExceeded
	case errors.As(err, &malformed):
		return FailureMalformedOutput
	case errors.As(err, &validation):
		return FailureValidation
	case errors.As(err, &storageErr):
		return FailureStorage
	default:
		return FailureUnknown
	}
}

// Remediation is the single place pipeline and configuration errors are
// translated into short, actionable text. No other layer rewrites messages.
func Remediation(err error) string {
	switch Classify(err) {
	case FailureInvalidInput:
		return "Fix the campaign input and resubmit: " + err.Error()
	case FailureCredentialMissing:
		return "API key missing for the selected provider.\nNo-pay workaround: set LLM_PROVIDER=offline."
	case FailureQuotaExceeded:
		return "LLM quota is not available for the current API key.\nNo-pay workaround: set LLM_PROVIDER=offline."
	case FailureMalformedOutput:
		return "The model returned output that could not be parsed. Re-run the request; output is not retried automatically."
	case FailureValidation:
		return "The model output did not satisfy the decision map contract: " + err.Error()
	case FailureUnknownProvider:
		return "Unrecognized LLM_PROVIDER value. Valid values: offline, gemini, openai."
	case FailureStorage:
		return "The case library could not be written; the run was not recorded. Check the database path and permissions."
	default:
		return err.Error()
	}
}
