// Package cli implements the alphy command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driving"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute. Commands check for nil and
// report a configuration problem instead of panicking.
var (
	credentialService  driving.CredentialService
	chatService        driving.ChatService
	spreadsheetService driving.SpreadsheetService
	configStore        driven.ConfigStore
	appSettings        domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "alphy",
	Short: "Alpha Insights spreadsheet analytics assistant",
	Long: `Alphy answers questions about the spreadsheets your Google service
account can see, streams replies from the configured chat model, and
diagnoses credential problems without ever printing key material.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	RunE: runChatInteractive,
}

var verboseFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging to stderr")
}

// Configure injects the application services. Call once from main
// before Execute.
func Configure(
	creds driving.CredentialService,
	chat driving.ChatService,
	sheets driving.SpreadsheetService,
	store driven.ConfigStore,
	settings domain.Settings,
) {
	credentialService = creds
	chatService = chat
	spreadsheetService = sheets
	configStore = store
	appSettings = settings
}

// SetVersion overrides the reported version (set from ldflags in main).
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
