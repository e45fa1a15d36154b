package services

import (
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

// Environment variables that override configured LLM credentials. The
// Abacus and Google variants are aliases kept for users migrating from
// the hosted deployment.
const (
	EnvRouteLLMKey      = "ROUTELLM_API_KEY"
	EnvRouteLLMKeyAlias = "ABACUS_API_KEY"
	EnvGeminiKey        = "GEMINI_API_KEY"
	EnvGeminiKeyAlias   = "GOOGLE_API_KEY"
)

// LoadSettings builds the application settings from three layers, each
// overriding the previous: built-in defaults, the config store, and the
// process environment.
//
// store may be nil (defaults plus environment only). env is usually
// EnvSnapshot(); passing it explicitly keeps the function testable.
func LoadSettings(store driven.ConfigStore, env map[string]string) domain.Settings {
	settings := domain.DefaultSettings()

	if store != nil {
		applyStore(&settings, store)
	}
	applyEnv(&settings, env)

	return settings
}

func applyStore(settings *domain.Settings, store driven.ConfigStore) {
	if v := store.GetString("llm.provider"); v != "" {
		settings.LLM.Provider = domain.LLMProvider(v)
	}
	if v := store.GetString("llm.model"); v != "" {
		settings.LLM.Model = v
	}
	if v := store.GetString("llm.api_key"); v != "" {
		settings.LLM.APIKey = v
	}
	if v := store.GetString("llm.base_url"); v != "" {
		settings.LLM.BaseURL = v
	}
	if v := store.GetFloat("llm.temperature"); v > 0 {
		settings.LLM.Temperature = v
	}

	if v := store.GetString("sheets.keys_dir"); v != "" {
		settings.Sheets.KeysDir = v
	}
	if v := store.GetString("sheets.folder_id"); v != "" {
		settings.Sheets.FolderID = v
	}
	if _, ok := store.Get("sheets.include_excel"); ok {
		settings.Sheets.IncludeExcel = store.GetBool("sheets.include_excel")
	}
	if v := store.GetInt("sheets.max_results"); v > 0 {
		settings.Sheets.MaxResults = int64(v)
	}

	if v := store.GetInt("chat.history_window"); v > 0 {
		settings.Chat.HistoryWindow = v
	}
}

// applyEnv lets API keys come from the environment so they never need
// to live in the config file. The configured provider's own variable
// wins; when no key is configured at all, whichever variable is set
// selects its provider.
func applyEnv(settings *domain.Settings, env map[string]string) {
	envKeys := map[domain.LLMProvider]string{
		domain.ProviderRouteLLM: firstSet(env[EnvRouteLLMKey], env[EnvRouteLLMKeyAlias]),
		domain.ProviderGemini:   firstSet(env[EnvGeminiKey], env[EnvGeminiKeyAlias]),
	}

	if key := envKeys[settings.LLM.Provider]; key != "" {
		settings.LLM.APIKey = key
		return
	}
	if settings.LLM.APIKey != "" {
		return
	}

	for _, provider := range []domain.LLMProvider{domain.ProviderRouteLLM, domain.ProviderGemini} {
		if key := envKeys[provider]; key != "" {
			settings.LLM.Provider = provider
			settings.LLM.APIKey = key
			settings.LLM.Model = ""
			return
		}
	}
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
