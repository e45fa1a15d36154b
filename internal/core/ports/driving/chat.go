package driving

import (
	"context"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

// ChatService drives a single chat session: history, built-in commands,
// and model dispatch with spreadsheet context.
type ChatService interface {
	// Send submits a user message and streams the assistant reply.
	// Built-in spreadsheet commands are answered directly as a single
	// chunk without reaching the model. The user message and the
	// finished reply are appended to the session history.
	Send(ctx context.Context, text string) (<-chan driven.StreamChunk, error)

	// History returns the session's messages in order.
	History() []domain.Message

	// Clear discards the session history.
	Clear()

	// ModelName names the configured backend model, or "" when chat is
	// running without a model (spreadsheet commands only).
	ModelName() string
}
