package domain

// LLMProvider identifies a chat model backend.
type LLMProvider string

// Supported backends.
const (
	// ProviderRouteLLM is an OpenAI-compatible routing proxy
	// (Abacus RouteLLM).
	ProviderRouteLLM LLMProvider = "routellm"

	// ProviderGemini is the Google Gemini API.
	ProviderGemini LLMProvider = "gemini"
)

// IsValid returns true if the provider is recognised.
func (p LLMProvider) IsValid() bool {
	switch p {
	case ProviderRouteLLM, ProviderGemini:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p LLMProvider) String() string {
	return string(p)
}

// LLMSettings configures the chat model backend.
type LLMSettings struct {
	Provider    LLMProvider
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
}

// IsConfigured returns true when enough is set to construct a backend.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.APIKey != ""
}

// SheetsSettings configures spreadsheet discovery.
type SheetsSettings struct {
	// KeysDir is the local fallback directory searched for
	// service account .json files.
	KeysDir string

	// FolderID optionally limits the catalog to one Drive folder.
	FolderID string

	// IncludeExcel also lists Excel/CSV files alongside native sheets.
	IncludeExcel bool

	// MaxResults caps how many files the catalog fetches.
	MaxResults int64
}

// ChatSettings configures conversation behaviour.
type ChatSettings struct {
	// HistoryWindow is how many recent messages accompany each model call.
	HistoryWindow int
}

// Settings is the aggregate application configuration.
type Settings struct {
	LLM    LLMSettings
	Sheets SheetsSettings
	Chat   ChatSettings
}

// DefaultSettings returns the baseline configuration before the config
// file and environment overrides are applied.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			Provider:    ProviderGemini,
			Model:       "gemini-2.0-flash-exp",
			Temperature: 0.7,
		},
		Sheets: SheetsSettings{
			KeysDir:      "keys",
			IncludeExcel: true,
			MaxResults:   100,
		},
		Chat: ChatSettings{
			HistoryWindow: 10,
		},
	}
}
