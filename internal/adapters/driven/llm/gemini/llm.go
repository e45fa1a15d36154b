// Package gemini provides a chat model adapter for Google's Gemini API
// via the official genai SDK.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

// Ensure ChatModel implements the interface.
var _ driven.ChatModel = (*ChatModel)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash-exp"

// Config holds configuration for the Gemini chat model.
type Config struct {
	// APIKey is the Google AI API key (required).
	APIKey string

	// Model is the Gemini model to use (default: gemini-2.0-flash-exp).
	Model string
}

// ChatModel talks to the Gemini API.
type ChatModel struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini chat model.
func New(ctx context.Context, cfg Config) (*ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &ChatModel{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Chat conducts a multi-turn conversation and returns the full reply.
func (m *ChatModel) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	contents, config := m.buildRequest(messages, opts)

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// ChatStream conducts a conversation and streams the reply as it is
// generated.
func (m *ChatModel) ChatStream(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (<-chan driven.StreamChunk, error) {
	contents, config := m.buildRequest(messages, opts)

	out := make(chan driven.StreamChunk)
	go func() {
		defer close(out)

		for resp, err := range m.client.Models.GenerateContentStream(ctx, m.model, contents, config) {
			if err != nil {
				select {
				case out <- driven.StreamChunk{Err: fmt.Errorf("gemini: stream: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case out <- driven.StreamChunk{Content: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// buildRequest converts conversation messages into genai contents.
// System messages become the system instruction; Gemini does not accept
// a system role inside the turn list.
func (m *ChatModel) buildRequest(messages []driven.ChatMessage, opts driven.ChatOptions) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}

	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			config.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents, config
}

// ModelName returns the name of the model being used.
func (m *ChatModel) ModelName() string {
	return m.model
}

// Close releases the underlying client.
// genai.Client has no Close method; there is nothing to release.
func (m *ChatModel) Close() error {
	return nil
}
