package driving

import "github.com/alpha-insights/alphy-cli/internal/core/domain"

// CredentialService resolves, validates, and diagnoses the Google
// service account credential. Each diagnostic run re-reads the injected
// environment snapshot and filesystem; nothing is cached across sessions,
// so one tenant's key material can never surface in another's view.
type CredentialService interface {
	// Diagnose runs the full locate/normalize/validate pipeline and
	// returns a redacted, display-safe result. It never fails: every
	// problem maps to a Warning or Error result.
	Diagnose() domain.DiagnosticResult

	// Load returns the validated credential for API client construction.
	// Errors: domain.ErrSourceNotFound, *domain.NormalizationError,
	// *domain.ValidationError.
	Load() (*domain.ServiceAccountCredential, error)
}
