package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the chat model, spreadsheet discovery, and other
options. Settings persist to the config file; API keys can also come
from the environment (ROUTELLM_API_KEY, GEMINI_API_KEY).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the chat model provider",
	Long: `Configure the chat model interactively.

Available providers:
  routellm - Abacus RouteLLM (OpenAI-compatible routing proxy)
  gemini   - Google Gemini`,
	RunE: runSettingsLLM,
}

var settingsSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Configure spreadsheet discovery",
	RunE:  runSettingsSheets,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsSheetsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", appSettings.LLM.Provider)
	cmd.Printf("  Model: %s\n", orDash(appSettings.LLM.Model))
	if appSettings.LLM.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(appSettings.LLM.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Temperature: %.1f\n", appSettings.LLM.Temperature)
	status := "configured"
	if !appSettings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Sheets]")
	cmd.Printf("  Keys directory: %s\n", appSettings.Sheets.KeysDir)
	cmd.Printf("  Folder filter: %s\n", orDash(appSettings.Sheets.FolderID))
	cmd.Printf("  Include Excel: %t\n", appSettings.Sheets.IncludeExcel)
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  History window: %d messages\n", appSettings.Chat.HistoryWindow)

	if configStore != nil {
		cmd.Println()
		cmd.Printf("Config file: %s\n", configStore.Path())
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	provider, err := promptLine(cmd, reader, fmt.Sprintf("Provider [routellm/gemini] (%s): ", appSettings.LLM.Provider))
	if err != nil {
		return err
	}
	if provider == "" {
		provider = appSettings.LLM.Provider.String()
	}
	if !domain.LLMProvider(provider).IsValid() {
		return fmt.Errorf("unknown provider %q", provider)
	}

	model, err := promptLine(cmd, reader, fmt.Sprintf("Model (%s): ", orDash(appSettings.LLM.Model)))
	if err != nil {
		return err
	}

	apiKey, err := promptSecret(cmd, "API key (leave empty to keep current): ")
	if err != nil {
		return err
	}

	if err := configStore.Set("llm.provider", provider); err != nil {
		return fmt.Errorf("save provider: %w", err)
	}
	if model != "" {
		if err := configStore.Set("llm.model", model); err != nil {
			return fmt.Errorf("save model: %w", err)
		}
	}
	if apiKey != "" {
		if err := configStore.Set("llm.api_key", apiKey); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
	}

	cmd.Println("LLM settings saved. Restart alphy to apply.")
	return nil
}

func runSettingsSheets(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	keysDir, err := promptLine(cmd, reader, fmt.Sprintf("Keys directory (%s): ", appSettings.Sheets.KeysDir))
	if err != nil {
		return err
	}
	folderID, err := promptLine(cmd, reader, fmt.Sprintf("Drive folder filter (%s): ", orDash(appSettings.Sheets.FolderID)))
	if err != nil {
		return err
	}

	if keysDir != "" {
		if err := configStore.Set("sheets.keys_dir", keysDir); err != nil {
			return fmt.Errorf("save keys dir: %w", err)
		}
	}
	if folderID != "" {
		if err := configStore.Set("sheets.folder_id", folderID); err != nil {
			return fmt.Errorf("save folder id: %w", err)
		}
	}

	cmd.Println("Sheets settings saved. Restart alphy to apply.")
	return nil
}

func promptLine(cmd *cobra.Command, reader *bufio.Reader, prompt string) (string, error) {
	cmd.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a value without echoing when stdin is a terminal,
// falling back to a plain read otherwise (tests, pipes).
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimSpace(line), nil
}

// maskAPIKey shows only the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
