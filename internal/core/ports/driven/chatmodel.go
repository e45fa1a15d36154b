package driven

import "context"

// ChatModel is a conversational LLM backend.
//
// Implementations may include:
//   - RouteLLM (OpenAI-compatible routing proxy)
//   - Gemini (Google AI)
type ChatModel interface {
	// Chat conducts a multi-turn conversation and returns the full reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatStream conducts a conversation and streams the reply as it is
	// generated. The channel is closed when the reply is complete; a
	// chunk with a non-nil Err terminates the stream.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions) (<-chan StreamChunk, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// StreamChunk is one increment of a streamed reply.
type StreamChunk struct {
	// Content is the text delta. Empty on the terminal error chunk.
	Content string

	// Err is non-nil when the stream failed; no further chunks follow.
	Err error
}
