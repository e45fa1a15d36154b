package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/services"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage Google service account credentials",
	Long: `Inspect the Google service account credential used for Drive and
Sheets access. Output is always redacted: the private key never appears,
whatever state the credential is in.`,
	RunE: runCredsCheck,
}

var credsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose the configured credential",
	Long: `Runs the credential pipeline (locate, normalise, validate) and reports
the outcome. Sources are tried in priority order:

  1. GOOGLE_SERVICE_ACCOUNT_JSON (inline JSON or base64)
  2. GOOGLE_SERVICE_ACCOUNT_FILE (path to a key file)
  3. *.json files under the keys directory

Exit status is 0 for ok or warning results, 1 for errors.`,
	RunE: runCredsCheck,
}

var credsWatchFlag bool

func init() {
	credsCheckCmd.Flags().BoolVarP(&credsWatchFlag, "watch", "w", false,
		"re-run the check whenever a key file changes")
	credsCmd.AddCommand(credsCheckCmd)
	rootCmd.AddCommand(credsCmd)
}

func runCredsCheck(cmd *cobra.Command, _ []string) error {
	if credentialService == nil {
		return errors.New("credential service not configured")
	}

	if logger.IsVerbose() {
		cmd.Printf("Sources tried: %s, %s, %s/*.json\n",
			services.EnvCredentialJSON, services.EnvCredentialFile, appSettings.Sheets.KeysDir)
	}

	result := credentialService.Diagnose()
	printDiagnostic(cmd, result)

	if credsWatchFlag {
		return watchCreds(cmd)
	}

	if result.Status == domain.StatusError {
		return fmt.Errorf("credential check failed")
	}
	return nil
}

// watchCreds re-runs the diagnostic on key file changes until interrupted.
func watchCreds(cmd *cobra.Command) error {
	watcher, err := services.NewCredentialWatcher(appSettings.Sheets.KeysDir)
	if err != nil {
		return fmt.Errorf("watch keys directory: %w", err)
	}
	defer watcher.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	cmd.Printf("Watching %s for key changes (ctrl-c to stop)...\n", appSettings.Sheets.KeysDir)
	for {
		select {
		case <-stop:
			return nil
		case <-watcher.Events():
			printDiagnostic(cmd, credentialService.Diagnose())
		}
	}
}

func printDiagnostic(cmd *cobra.Command, result domain.DiagnosticResult) {
	switch result.Status {
	case domain.StatusOK:
		cmd.Printf("✓ credentials valid\n  service account: %s\n", result.ClientEmail)
	case domain.StatusWarning:
		cmd.Printf("! %s\n", result.Message)
	default:
		cmd.Printf("✗ %s\n", result.Message)
	}
	if result.Hint != "" {
		cmd.Printf("  hint: %s\n", result.Hint)
	}
}
