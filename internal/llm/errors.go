package llm

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// RateLimitedError indicates the provider rejected the request because the
// caller is sending too many requests. Retrying later may succeed.
type RateLimitedError struct {
	Cause error
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("llm provider rate limited the request: %v", e.Cause)
}

func (e *RateLimitedError) Unwrap() error {
	return e.Cause
}

// QuotaExhaustedError indicates the provider account has no remaining
// credit or quota. Retrying will not help until the account is topped up.
type QuotaExhaustedError struct {
	Cause error
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("llm provider quota exhausted: %v", e.Cause)
}

func (e *QuotaExhaustedError) Unwrap() error {
	return e.Cause
}

// UpstreamError covers every other provider failure: transport errors,
// 5xx responses, malformed or empty completions.
type UpstreamError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm provider error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// FieldError is a single schema violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

// SchemaViolationError indicates the provider produced a completion, but
// its payload does not conform to the requested response schema.
type SchemaViolationError struct {
	Schema     string
	Message    string
	Violations []FieldError
	Cause      error
}

func (e *SchemaViolationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "response violates %s schema: %s", e.Schema, e.Message)
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, "\n  %s: %s", v.Field, v.Message)
	}
	return sb.String()
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}

// classifyUpstream maps a provider error onto the package error taxonomy
// using the HTTP status of the underlying googleapi error when present.
func classifyUpstream(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return &RateLimitedError{Cause: err}
		case 402:
			return &QuotaExhaustedError{Cause: err}
		default:
			return &UpstreamError{StatusCode: apiErr.Code, Message: apiErr.Message, Cause: err}
		}
	}
	return &UpstreamError{Message: err.Error(), Cause: err}
}
