package domain

import "fmt"

// SourceKind identifies where a candidate credential payload was found.
type SourceKind string

// Credential source kinds, in locator priority order.
const (
	// SourceEnvJSON is inline JSON (or base64 JSON) in GOOGLE_SERVICE_ACCOUNT_JSON.
	SourceEnvJSON SourceKind = "env_json"

	// SourceEnvFile is a file path in GOOGLE_SERVICE_ACCOUNT_FILE.
	SourceEnvFile SourceKind = "env_file"

	// SourceLocalFile is a .json file found under the local keys directory.
	SourceLocalFile SourceKind = "local_file"
)

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// CredentialSource is a located candidate credential payload.
// It is immutable once constructed and carries only the raw bytes;
// nothing here has been parsed or validated yet.
type CredentialSource struct {
	// Kind records which locator strategy produced this source.
	Kind SourceKind

	// Origin is a human-readable label for diagnostics: the environment
	// variable name or the file path. Never contains payload content.
	Origin string

	// Payload is the raw credential material as found.
	Payload []byte
}

// ServiceAccountCredential is a parsed Google service account key.
// The private key is held only long enough to construct API clients
// and must never appear in logs, diagnostics, or rendered output.
type ServiceAccountCredential struct {
	// Type must be "service_account" for a valid credential.
	Type string

	// ProjectID is the owning GCP project.
	ProjectID string

	// ClientEmail is the service account identity. This is the only
	// field safe to display.
	ClientEmail string

	// PrivateKey is the PEM-encoded key material. Sensitive.
	PrivateKey string

	// Fields preserves the full decoded object opaquely, including
	// pass-through fields this code does not interpret (token_uri,
	// private_key_id, ...). Needed to rebuild the JSON for the
	// Google client constructor.
	Fields map[string]any

	raw []byte
}

// NewServiceAccountCredential constructs a credential from the decoded
// field map and the canonical JSON bytes it was decoded from.
func NewServiceAccountCredential(fields map[string]any, raw []byte) *ServiceAccountCredential {
	cred := &ServiceAccountCredential{
		Fields: fields,
		raw:    raw,
	}
	cred.Type, _ = fields["type"].(string)
	cred.ProjectID, _ = fields["project_id"].(string)
	cred.ClientEmail, _ = fields["client_email"].(string)
	cred.PrivateKey, _ = fields["private_key"].(string)
	return cred
}

// JSON returns the canonical JSON bytes for the Google API client
// constructor. Callers must not log or display the result.
func (c *ServiceAccountCredential) JSON() []byte {
	return c.raw
}

// String implements fmt.Stringer with the private key redacted, so an
// accidental %v of the record cannot leak key material.
func (c *ServiceAccountCredential) String() string {
	return fmt.Sprintf("ServiceAccountCredential{type=%s project_id=%s client_email=%s private_key=***redacted***}",
		c.Type, c.ProjectID, c.ClientEmail)
}

// GoString implements fmt.GoStringer so %#v is redacted as well.
func (c *ServiceAccountCredential) GoString() string {
	return c.String()
}

// DiagnosticStatus classifies a credential diagnostic outcome.
type DiagnosticStatus string

// Diagnostic statuses.
const (
	// StatusOK means a valid credential was found.
	StatusOK DiagnosticStatus = "ok"

	// StatusWarning means the credential is suspect but may still work.
	StatusWarning DiagnosticStatus = "warning"

	// StatusError means no usable credential is available.
	StatusError DiagnosticStatus = "error"
)

// DiagnosticResult is the redacted, display-safe outcome of a credential
// check. It never carries the credential record itself: Ok results hold
// only the client email, failures hold a message and a remediation hint.
type DiagnosticResult struct {
	Status DiagnosticStatus

	// ClientEmail is set only when Status is StatusOK.
	ClientEmail string

	// Message is a short human-readable status line.
	Message string

	// Hint suggests how to fix the problem. Empty on success.
	Hint string
}

// DiagnosticOK builds a success result carrying only the service account email.
func DiagnosticOK(clientEmail string) DiagnosticResult {
	return DiagnosticResult{
		Status:      StatusOK,
		ClientEmail: clientEmail,
		Message:     "credentials valid",
	}
}

// DiagnosticWarning builds a warning result.
func DiagnosticWarning(message, hint string) DiagnosticResult {
	return DiagnosticResult{Status: StatusWarning, Message: message, Hint: hint}
}

// DiagnosticError builds an error result.
func DiagnosticError(message, hint string) DiagnosticResult {
	return DiagnosticResult{Status: StatusError, Message: message, Hint: hint}
}

// IsOK returns true when a valid credential is available.
func (r DiagnosticResult) IsOK() bool {
	return r.Status == StatusOK
}

// String renders the result as a one-line status.
func (r DiagnosticResult) String() string {
	switch r.Status {
	case StatusOK:
		return fmt.Sprintf("ok: service account %s", r.ClientEmail)
	case StatusWarning:
		return fmt.Sprintf("warning: %s", r.Message)
	default:
		return fmt.Sprintf("error: %s", r.Message)
	}
}

// ReasonCode is the closed set of semantic validation failures.
type ReasonCode string

// Validation failure codes.
const (
	// ReasonMissingField means a required field is absent or empty.
	ReasonMissingField ReasonCode = "missing_field"

	// ReasonWrongType means the type field is not "service_account".
	ReasonWrongType ReasonCode = "wrong_type"

	// ReasonMalformedKey means the private key lacks a recognisable PEM header.
	ReasonMalformedKey ReasonCode = "malformed_key"
)

// InvalidReason describes why a parsed credential failed validation.
// It carries field names only, never field values.
type InvalidReason struct {
	Code ReasonCode

	// Field is the offending field name for ReasonMissingField.
	Field string
}

// String returns a display-safe description of the failure.
func (r InvalidReason) String() string {
	switch r.Code {
	case ReasonMissingField:
		return fmt.Sprintf("missing field %s", r.Field)
	case ReasonWrongType:
		return "unexpected credential type"
	case ReasonMalformedKey:
		return "private key header not recognised"
	default:
		return string(r.Code)
	}
}
