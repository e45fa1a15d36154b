package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates no chat model backend is configured.
	// The assistant can still serve spreadsheet commands without one.
	ErrLLMUnavailable = errors.New("chat model unavailable")

	// ErrSheetsUnavailable indicates the Drive/Sheets client is not
	// configured, usually because credential resolution failed.
	// Chat-only features keep working in this degraded state.
	ErrSheetsUnavailable = errors.New("google sheets unavailable")

	// Credential pipeline errors.

	// ErrSourceNotFound indicates no credential source is present in the
	// environment or the local keys directory. Not an error by itself,
	// only a precondition failure for the downstream stages.
	ErrSourceNotFound = errors.New("no credential source found")

	// ErrCredentialInvalid indicates a credential parsed but failed
	// semantic validation. The InvalidReason carries the detail.
	ErrCredentialInvalid = errors.New("credential invalid")
)

// NormalizationCode distinguishes the two normalizer failure modes.
type NormalizationCode string

// Normalizer failure codes.
const (
	// InvalidFormat means the payload is neither JSON nor decodable base64.
	InvalidFormat NormalizationCode = "invalid_format"

	// InvalidEncoding means the payload decoded but is not valid text/JSON.
	InvalidEncoding NormalizationCode = "invalid_encoding"
)

// NormalizationError reports a payload that could not be decoded into a
// credential object. The message and hint are display-safe; the payload
// itself is never included.
type NormalizationError struct {
	Code NormalizationCode

	// Hint is an optional remediation suggestion, e.g. a truncated
	// base64 warning when the length is not a multiple of 4.
	Hint string
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	if e.Code == InvalidEncoding {
		return "payload is not valid text/JSON"
	}
	return "cannot parse credential payload"
}

// IsNormalizationError extracts a NormalizationError from an error chain.
func IsNormalizationError(err error) (*NormalizationError, bool) {
	var nerr *NormalizationError
	ok := errors.As(err, &nerr)
	return nerr, ok
}

// ValidationError wraps an InvalidReason as an error so callers can use
// errors.Is(err, ErrCredentialInvalid).
type ValidationError struct {
	Reason InvalidReason
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCredentialInvalid.Error(), e.Reason.String())
}

// Unwrap supports errors.Is matching against ErrCredentialInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrCredentialInvalid
}
