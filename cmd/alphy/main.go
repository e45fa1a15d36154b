// Command alphy is the Alpha Insights assistant: it diagnoses Google
// service account credentials, browses form-response spreadsheets in
// Drive, and chats about the data through a configurable LLM backend.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alpha-insights/alphy-cli/internal/adapters/driven/ai"
	"github.com/alpha-insights/alphy-cli/internal/adapters/driven/config/file"
	"github.com/alpha-insights/alphy-cli/internal/adapters/driving/cli"
	"github.com/alpha-insights/alphy-cli/internal/connectors/google"
	googlesheets "github.com/alpha-insights/alphy-cli/internal/connectors/google/sheets"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
	"github.com/alpha-insights/alphy-cli/internal/core/services"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logClose, err := logger.InitFromEnv()
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	if logClose != nil {
		defer logClose.Close()
	}

	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settings := services.LoadSettings(configStore, services.EnvSnapshot())

	credentialService := services.NewCredentialService(services.PipelineConfig{
		Env:         services.EnvSnapshot(),
		FallbackDir: settings.Sheets.KeysDir,
	})

	// Sheets access is best effort: a broken credential degrades the
	// spreadsheet service instead of blocking the CLI, so 'alphy creds
	// check' stays available to diagnose the problem.
	var gateway driven.SheetsGateway
	if cred, err := credentialService.Load(); err == nil {
		drv, derr := google.NewDriveService(ctx, cred)
		shs, serr := google.NewSheetsService(ctx, cred)
		if derr == nil && serr == nil {
			gateway = googlesheets.NewGateway(drv, shs)
		} else {
			logger.Warn("Google services unavailable: drive=%v sheets=%v", derr, serr)
		}
	} else {
		logger.Debug("credential not loaded: %v", err)
	}

	spreadsheetService := services.NewSpreadsheetService(gateway, settings.Sheets)

	model, err := ai.CreateChatModel(ctx, &settings.LLM)
	if err != nil {
		// Chat still works for spreadsheet commands without a model.
		logger.Warn("chat model unavailable: %v", err)
		model = nil
	}
	if model != nil {
		defer model.Close()
	}

	chatService := services.NewChatService(
		model,
		spreadsheetService,
		settings.Chat,
		settings.LLM.Temperature,
	)

	if prompts, perr := file.NewPromptStore(""); perr == nil {
		chatService.SetPromptStore(prompts)
	} else {
		logger.Debug("prompt store unavailable: %v", perr)
	}

	cli.SetVersion(version)
	cli.Configure(credentialService, chatService, spreadsheetService, configStore, settings)
	return cli.Execute()
}
