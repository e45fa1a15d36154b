package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCredsCheck_OK(t *testing.T) {
	oldCreds := credentialService
	credentialService = &mockCredentialService{
		result: domain.DiagnosticOK("svc@proj.iam.gserviceaccount.com"),
	}
	defer func() { credentialService = oldCreds }()

	out, err := execute(t, "creds", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "credentials valid")
	assert.Contains(t, out, "svc@proj.iam.gserviceaccount.com")
}

func TestCredsCheck_ErrorSetsExitStatus(t *testing.T) {
	oldCreds := credentialService
	credentialService = &mockCredentialService{
		result: domain.DiagnosticError("no credential source found",
			"set GOOGLE_SERVICE_ACCOUNT_JSON or add a key file under keys/"),
	}
	defer func() { credentialService = oldCreds }()

	out, err := execute(t, "creds", "check")

	require.Error(t, err)
	assert.Contains(t, out, "no credential source found")
	assert.Contains(t, out, "hint:")
}

func TestCredsCheck_VerboseListsSources(t *testing.T) {
	oldCreds := credentialService
	credentialService = &mockCredentialService{
		result: domain.DiagnosticOK("svc@proj.iam.gserviceaccount.com"),
	}
	defer func() { credentialService = oldCreds }()
	t.Cleanup(func() {
		verboseFlag = false
		logger.SetVerbose(false)
	})

	out, err := execute(t, "creds", "check", "--verbose")

	require.NoError(t, err)
	assert.Contains(t, out, "Sources tried:")
	assert.Contains(t, out, "GOOGLE_SERVICE_ACCOUNT_JSON")
}

func TestCredsCheck_WarningSucceeds(t *testing.T) {
	oldCreds := credentialService
	credentialService = &mockCredentialService{
		result: domain.DiagnosticWarning("unexpected credential type",
			"expected type \"service_account\""),
	}
	defer func() { credentialService = oldCreds }()

	out, err := execute(t, "creds", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "unexpected credential type")
}

func TestCredsCheck_NotConfigured(t *testing.T) {
	oldCreds := credentialService
	credentialService = nil
	defer func() { credentialService = oldCreds }()

	_, err := execute(t, "creds", "check")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
