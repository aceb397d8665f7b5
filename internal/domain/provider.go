package domain

import (
	"strings"
)

// Provider identifies an AI backend that can generate code.
type Provider string

// Supported providers. The values are the display names callers pass in.
const (
	ProviderBlackbox    Provider = "BlackboxAI"
	ProviderGemini      Provider = "Google Gemini"
	ProviderHuggingFace Provider = "Hugging Face"
)

// providerAliases maps lower-cased names and slugs onto providers.
var providerAliases = map[string]Provider{
	"blackboxai":    ProviderBlackbox,
	"blackbox":      ProviderBlackbox,
	"google gemini": ProviderGemini,
	"gemini":        ProviderGemini,
	"hugging face":  ProviderHuggingFace,
	"huggingface":   ProviderHuggingFace,
	"hf":            ProviderHuggingFace,
}

// AllProviders returns the supported providers in display order.
func AllProviders() []Provider {
	return []Provider{ProviderBlackbox, ProviderGemini, ProviderHuggingFace}
}

// ParseProvider resolves a display name or slug to a Provider.
// The second return value is false for unknown names.
func ParseProvider(name string) (Provider, bool) {
	p, ok := providerAliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// String returns the display name.
func (p Provider) String() string {
	return string(p)
}

// Slug returns a short lower-case identifier suitable for URLs, metric labels
// and cache keys.
func (p Provider) Slug() string {
	switch p {
	case ProviderBlackbox:
		return "blackbox"
	case ProviderGemini:
		return "gemini"
	case ProviderHuggingFace:
		return "huggingface"
	default:
		return strings.ToLower(strings.ReplaceAll(string(p), " ", "-"))
	}
}
