package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driving"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// maxCommandRows limits how many response rows a built-in command renders.
const maxCommandRows = 3

// maxContextSheets limits how many catalog entries the system prompt lists.
const maxContextSheets = 20

// ChatService runs one chat session: it answers built-in spreadsheet
// commands directly and forwards everything else to the chat model with
// the spreadsheet catalog baked into the system prompt.
type ChatService struct {
	model        driven.ChatModel
	spreadsheets driving.SpreadsheetService
	settings     domain.ChatSettings
	temperature  float64
	history      *domain.Conversation
	promptStore  driven.PromptStore
}

// NewChatService creates a chat session. model may be nil (built-in
// commands only); spreadsheets may be nil (chat only).
func NewChatService(
	model driven.ChatModel,
	spreadsheets driving.SpreadsheetService,
	settings domain.ChatSettings,
	temperature float64,
) *ChatService {
	return &ChatService{
		model:        model,
		spreadsheets: spreadsheets,
		settings:     settings,
		temperature:  temperature,
		history:      domain.NewConversation(),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses the hardcoded default system prompt.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// History returns the session's messages in order.
func (s *ChatService) History() []domain.Message {
	return s.history.Messages()
}

// Clear discards the session history.
func (s *ChatService) Clear() {
	s.history.Clear()
}

// ModelName names the configured backend model.
func (s *ChatService) ModelName() string {
	if s.model == nil {
		return ""
	}
	return s.model.ModelName()
}

// Send submits a user message and streams the assistant reply.
func (s *ChatService) Send(ctx context.Context, text string) (<-chan driven.StreamChunk, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidInput
	}

	if handled, reply := s.runCommand(ctx, text); handled {
		s.append(domain.RoleUser, text)
		s.append(domain.RoleAssistant, reply)
		out := make(chan driven.StreamChunk, 1)
		out <- driven.StreamChunk{Content: reply}
		close(out)
		return out, nil
	}

	if s.model == nil {
		return nil, domain.ErrLLMUnavailable
	}

	s.append(domain.RoleUser, text)
	messages := s.buildModelMessages(ctx)

	stream, err := s.model.ChatStream(ctx, messages, driven.ChatOptions{
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat model: %w", err)
	}

	// Relay chunks while accumulating the reply for the history.
	out := make(chan driven.StreamChunk)
	go func() {
		defer close(out)
		var reply strings.Builder
		for chunk := range stream {
			if chunk.Err == nil {
				reply.WriteString(chunk.Content)
			}
			out <- chunk
		}
		if reply.Len() > 0 {
			s.append(domain.RoleAssistant, reply.String())
		}
	}()
	return out, nil
}

func (s *ChatService) append(role domain.Role, content string) {
	s.history.Append(domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// buildModelMessages assembles the system prompt plus the rolling
// history window.
func (s *ChatService) buildModelMessages(ctx context.Context) []driven.ChatMessage {
	messages := []driven.ChatMessage{{
		Role:    string(domain.RoleSystem),
		Content: s.systemPrompt(ctx),
	}}
	for _, msg := range s.history.Window(s.settings.HistoryWindow) {
		messages = append(messages, driven.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return messages
}

// defaultSystemPrompt is used when no PromptStore is configured.
const defaultSystemPrompt = "You are Alphy, the data analysis assistant of Alpha Insights. " +
	"You help the user analyse spreadsheet data, answer questions about it, " +
	"and produce insights and reports. Be objective and professional."

// systemPrompt describes the assistant and embeds the spreadsheet
// catalog so the model can ground its answers.
func (s *ChatService) systemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(s.loadPrompt(driven.PromptChatSystem, defaultSystemPrompt))
	b.WriteString("\n")
	b.WriteString(s.catalogContext(ctx))
	return b.String()
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (s *ChatService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// catalogContext renders the visible spreadsheets for the system
// prompt. Catalog failures degrade to an empty context rather than
// failing the chat turn.
func (s *ChatService) catalogContext(ctx context.Context) string {
	if s.spreadsheets == nil {
		return ""
	}
	sheets, err := s.spreadsheets.Catalog(ctx, false)
	if err != nil || len(sheets) == 0 {
		if err != nil {
			logger.Warn("chat: catalog unavailable: %v", err)
		}
		return ""
	}

	var b strings.Builder
	b.WriteString("\nSpreadsheets available in Google Drive:\n")
	for i, sheet := range sheets {
		if i == maxContextSheets {
			break
		}
		label := ""
		if !sheet.IsGoogleSheet() {
			label = " [Excel]"
		}
		fmt.Fprintf(&b, "- %s%s (ID: %s)\n", sheet.Name, label, sheet.ID)
	}
	return b.String()
}

// runCommand intercepts built-in spreadsheet commands before model
// dispatch. Returns (true, reply) when the message was handled.
func (s *ChatService) runCommand(ctx context.Context, text string) (bool, string) {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "list spreadsheets", "list the spreadsheets", "show spreadsheets", "available spreadsheets"):
		return true, s.listCommand(ctx)
	case containsAny(lower, "spreadsheet responses", "show responses", "show the responses", "form responses"):
		return true, s.responsesCommand(ctx)
	}
	return false, ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (s *ChatService) listCommand(ctx context.Context) string {
	if s.spreadsheets == nil {
		return "Google Drive is not configured; check credentials with 'alphy creds check'."
	}
	sheets, err := s.spreadsheets.Catalog(ctx, false)
	if err != nil {
		return fmt.Sprintf("Could not list spreadsheets: %v", err)
	}
	if len(sheets) == 0 {
		return "No spreadsheets found in Google Drive."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d spreadsheet(s) in Google Drive:\n\n", len(sheets))
	for i, sheet := range sheets {
		label := ""
		if !sheet.IsGoogleSheet() {
			label = " [Excel]"
		}
		fmt.Fprintf(&b, "%d. %s%s\n   ID: %s\n   Modified: %s\n", i+1, sheet.Name, label, sheet.ID, orNA(sheet.ModifiedTime))
	}
	return b.String()
}

func (s *ChatService) responsesCommand(ctx context.Context) string {
	if s.spreadsheets == nil {
		return "Google Drive is not configured; check credentials with 'alphy creds check'."
	}
	sheets, err := s.spreadsheets.Catalog(ctx, false)
	if err != nil {
		return fmt.Sprintf("Could not list spreadsheets: %v", err)
	}
	if len(sheets) == 0 {
		return "No spreadsheets found in Google Drive."
	}

	// Prefer a native Google Sheet; fall back to the first file, which
	// Responses will convert on demand.
	candidate := sheets[0]
	for _, sheet := range sheets {
		if sheet.IsGoogleSheet() {
			candidate = sheet
			break
		}
	}

	rows, err := s.spreadsheets.Responses(ctx, candidate)
	if err != nil {
		if errors.Is(err, domain.ErrSheetsUnavailable) {
			return "Google Drive is not configured; check credentials with 'alphy creds check'."
		}
		return fmt.Sprintf("Could not read responses: %v", err)
	}
	if len(rows) == 0 {
		return fmt.Sprintf("No responses found in %q.", candidate.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Responses from %q - %d total:\n\n", candidate.Name, len(rows))
	for i, row := range rows {
		if i == maxCommandRows {
			fmt.Fprintf(&b, "... and %d more response(s).\n", len(rows)-maxCommandRows)
			break
		}
		fmt.Fprintf(&b, "Response %d:\n", i+1)
		for _, key := range row.Columns() {
			fmt.Fprintf(&b, "- %s: %s\n", key, row[key])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
