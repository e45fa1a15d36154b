package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpha-insights/alphy-cli/internal/adapters/driving/tui"
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with Alphy about your spreadsheet data",
	Long: `Ask a one-shot question, or start the interactive chat when no message
is given. Replies stream as they are generated.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runChatInteractive(cmd, args)
	}
	return runChatOneShot(cmd, strings.Join(args, " "))
}

// runChatOneShot sends one message and streams the reply to stdout.
func runChatOneShot(cmd *cobra.Command, message string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	stream, err := chatService.Send(cmd.Context(), message)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return errors.New("no chat model configured; set ROUTELLM_API_KEY or GEMINI_API_KEY")
		}
		return fmt.Errorf("chat: %w", err)
	}

	for chunk := range stream {
		if chunk.Err != nil {
			cmd.Println()
			return fmt.Errorf("chat: %w", chunk.Err)
		}
		cmd.Print(chunk.Content)
	}
	cmd.Println()
	return nil
}

// runChatInteractive starts the terminal UI. It is also the root
// command's default action.
func runChatInteractive(_ *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	return tui.Run(tui.Config{
		Chat:        chatService,
		Credentials: credentialService,
		KeysDir:     appSettings.Sheets.KeysDir,
		Version:     version,
	})
}
