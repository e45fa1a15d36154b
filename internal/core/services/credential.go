package services

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driving"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// Environment variables consulted by the locator, in priority order.
const (
	// EnvCredentialJSON holds the service account key inline, either as
	// raw JSON or base64-encoded JSON.
	EnvCredentialJSON = "GOOGLE_SERVICE_ACCOUNT_JSON"

	// EnvCredentialFile holds a filesystem path to the key file.
	EnvCredentialFile = "GOOGLE_SERVICE_ACCOUNT_FILE"
)

// emailPattern is a basic shape check, not RFC 5322 validation. Service
// account emails are machine-generated so this only guards against
// obviously broken values.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// pemKeyPattern matches the header of any PEM private key flavour
// (PKCS#8 "PRIVATE KEY", PKCS#1 "RSA PRIVATE KEY", ...). The key is
// only pattern-checked, never parsed or used here.
var pemKeyPattern = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)

// PipelineConfig is the explicit input of the credential pipeline. The
// environment is injected as a snapshot rather than read ambiently so
// the pipeline is a pure function of its inputs and unit-testable
// without process environment mutation.
type PipelineConfig struct {
	// Env is the environment snapshot, typically EnvSnapshot().
	Env map[string]string

	// FallbackDir is the local directory searched for *.json key files
	// when neither environment variable is set.
	FallbackDir string
}

// CredentialService resolves the Google service account credential and
// produces redacted diagnostics. Each call re-runs the full pipeline;
// no credential material is cached between runs.
type CredentialService struct {
	cfg PipelineConfig
}

// NewCredentialService creates a credential service for one environment
// snapshot.
func NewCredentialService(cfg PipelineConfig) *CredentialService {
	return &CredentialService{cfg: cfg}
}

// EnvSnapshot captures the process environment as a map for injection
// into PipelineConfig.
func EnvSnapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Locate finds the first available credential source in strict priority
// order: inline env JSON, env file path, then any .json file under the
// fallback directory (lexicographic filename order for determinism).
// Returns domain.ErrSourceNotFound when nothing matches. Read-only.
func (s *CredentialService) Locate() (*domain.CredentialSource, error) {
	if v := s.cfg.Env[EnvCredentialJSON]; v != "" {
		logger.Debug("credentials: using inline payload from %s (len=%d)", EnvCredentialJSON, len(v))
		return &domain.CredentialSource{
			Kind:    domain.SourceEnvJSON,
			Origin:  EnvCredentialJSON,
			Payload: []byte(v),
		}, nil
	}

	if path := s.cfg.Env[EnvCredentialFile]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s=%s: %w", EnvCredentialFile, path, err)
		}
		logger.Debug("credentials: read key file from %s", path)
		return &domain.CredentialSource{
			Kind:    domain.SourceEnvFile,
			Origin:  path,
			Payload: data,
		}, nil
	}

	if s.cfg.FallbackDir != "" {
		if src, err := locateFallbackFile(s.cfg.FallbackDir); err != nil {
			return nil, err
		} else if src != nil {
			return src, nil
		}
	}

	return nil, domain.ErrSourceNotFound
}

// locateFallbackFile picks the lexicographically first .json file in dir.
// A missing directory is treated the same as an empty one.
func locateFallbackFile(dir string) (*domain.CredentialSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read keys dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	path := filepath.Join(dir, names[0])
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}
	logger.Debug("credentials: using fallback key file %s", path)
	return &domain.CredentialSource{
		Kind:    domain.SourceLocalFile,
		Origin:  path,
		Payload: data,
	}, nil
}

// Normalize decodes a located payload into a structured credential.
// Input shapes are auto-detected in order: raw JSON object, JSON with
// escaped newlines, base64-encoded JSON. No semantic validation happens
// here; that is Validate's job.
func Normalize(src *domain.CredentialSource) (*domain.ServiceAccountCredential, error) {
	if src == nil || len(src.Payload) == 0 {
		return nil, domain.ErrSourceNotFound
	}

	text := strings.TrimSpace(string(src.Payload))

	// 1) Raw JSON object.
	if fields, ok := parseJSONObject(text); ok {
		return domain.NewServiceAccountCredential(fields, []byte(text)), nil
	}

	// 2) JSON with literal \n escapes where real newlines belong.
	// Secret stores commonly mangle the private_key this way.
	if strings.Contains(text, `\n`) {
		repaired := strings.ReplaceAll(text, `\n`, "\n")
		if fields, ok := parseJSONObject(repaired); ok {
			logger.Debug("credentials: repaired escaped newlines in payload")
			return domain.NewServiceAccountCredential(fields, []byte(repaired)), nil
		}
	}

	// 3) Base64-encoded JSON.
	return normalizeBase64(text)
}

// parseJSONObject parses text as a JSON object. Non-object JSON (a bare
// string, array, number) does not count.
func parseJSONObject(text string) (map[string]any, bool) {
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// normalizeBase64 handles the base64 input shape: strip whitespace,
// auto-fix missing padding, decode, then parse the decoded bytes. The
// truncation hint fires when the cleaned length is not a multiple of 4
// or decoding fails on padding.
func normalizeBase64(text string) (*domain.ServiceAccountCredential, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, text)

	truncated := len(cleaned)%4 != 0
	padded := cleaned
	if pad := (-len(cleaned)) % 4; pad < 0 {
		pad += 4
		padded = cleaned + strings.Repeat("=", pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(padded)
	if err != nil {
		return nil, &domain.NormalizationError{
			Code: domain.InvalidFormat,
			Hint: base64Hint(truncated),
		}
	}
	if truncated {
		logger.Debug("credentials: auto-fixed base64 padding (len=%d)", len(cleaned))
	}

	if !utf8.Valid(decoded) {
		return nil, &domain.NormalizationError{
			Code: domain.InvalidEncoding,
			Hint: "decoded payload is not UTF-8 text; re-encode with base64(json)",
		}
	}

	fields, ok := parseJSONObject(strings.TrimSpace(string(decoded)))
	if !ok {
		if truncated {
			// Padding repair let the decode through, but the tail of
			// the JSON is still missing.
			return nil, &domain.NormalizationError{
				Code: domain.InvalidFormat,
				Hint: base64Hint(true),
			}
		}
		return nil, &domain.NormalizationError{
			Code: domain.InvalidEncoding,
			Hint: "decoded payload is not a JSON object",
		}
	}

	trimmed := strings.TrimSpace(string(decoded))
	return domain.NewServiceAccountCredential(fields, []byte(trimmed)), nil
}

func base64Hint(truncated bool) string {
	if truncated {
		return "looks like truncated base64; check base64 padding"
	}
	return "check base64 padding"
}

// Validate checks the semantic invariants of a parsed credential:
// type is "service_account", client_email has a basic email shape, and
// private_key carries a recognisable PEM header. On success it returns
// the client email - the only value safe to surface downstream.
func Validate(cred *domain.ServiceAccountCredential) (string, *domain.InvalidReason) {
	if cred.Type == "" {
		return "", &domain.InvalidReason{Code: domain.ReasonMissingField, Field: "type"}
	}
	if cred.Type != "service_account" {
		return "", &domain.InvalidReason{Code: domain.ReasonWrongType}
	}

	if cred.ClientEmail == "" {
		return "", &domain.InvalidReason{Code: domain.ReasonMissingField, Field: "client_email"}
	}
	if !emailPattern.MatchString(cred.ClientEmail) {
		return "", &domain.InvalidReason{Code: domain.ReasonMissingField, Field: "client_email"}
	}

	if cred.PrivateKey == "" {
		return "", &domain.InvalidReason{Code: domain.ReasonMissingField, Field: "private_key"}
	}
	if !pemKeyPattern.MatchString(cred.PrivateKey) {
		return "", &domain.InvalidReason{Code: domain.ReasonMalformedKey}
	}

	return cred.ClientEmail, nil
}

// Load runs locate/normalize/validate and returns the credential for
// API client construction. Callers hold the result only as long as it
// takes to build the clients.
func (s *CredentialService) Load() (*domain.ServiceAccountCredential, error) {
	src, err := s.Locate()
	if err != nil {
		return nil, err
	}
	cred, err := Normalize(src)
	if err != nil {
		return nil, err
	}
	if _, reason := Validate(cred); reason != nil {
		return nil, &domain.ValidationError{Reason: *reason}
	}
	return cred, nil
}

// Diagnose composes the pipeline stages into a display-safe result.
// The reporter only ever sees the extracted client email and the reason
// enums - never the raw credential record - so no path can leak the
// private key.
func (s *CredentialService) Diagnose() domain.DiagnosticResult {
	logger.Section("credential check")

	src, err := s.Locate()
	if err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			return domain.DiagnosticError(
				"no credential source found",
				"set "+EnvCredentialJSON+" or "+EnvCredentialFile+", or add keys/*.json")
		}
		// A source is configured but cannot be read (bad path, permissions).
		return domain.DiagnosticError(
			err.Error(),
			"check that the configured key file path exists and is readable")
	}

	cred, err := Normalize(src)
	if err != nil {
		if nerr, ok := domain.IsNormalizationError(err); ok {
			return domain.DiagnosticError(nerr.Error(), nerr.Hint)
		}
		return domain.DiagnosticError("cannot parse credential payload", "check base64 padding")
	}

	email, reason := Validate(cred)
	if reason != nil {
		switch reason.Code {
		case domain.ReasonWrongType:
			return domain.DiagnosticWarning(reason.String(), "expected type \"service_account\"; re-download the key")
		case domain.ReasonMalformedKey:
			return domain.DiagnosticError(reason.String(), "the private_key must be PEM with a BEGIN PRIVATE KEY header")
		default:
			return domain.DiagnosticError(reason.String(), "re-download service account JSON")
		}
	}

	return domain.DiagnosticOK(email)
}
