package driven

// Prompt names used with PromptStore.
const (
	// PromptChatSystem is the system prompt for the analytics chat.
	PromptChatSystem = "chat_system"
)

// PromptStore provides access to user-customisable LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads.
	Reload()
}
