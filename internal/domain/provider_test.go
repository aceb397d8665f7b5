package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Provider
		ok    bool
	}{
		{"BlackboxAI", ProviderBlackbox, true},
		{"blackbox", ProviderBlackbox, true},
		{"Google Gemini", ProviderGemini, true},
		{" GEMINI ", ProviderGemini, true},
		{"Hugging Face", ProviderHuggingFace, true},
		{"huggingface", ProviderHuggingFace, true},
		{"UnknownAI", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseProvider(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProviderSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "blackbox", ProviderBlackbox.Slug())
	assert.Equal(t, "gemini", ProviderGemini.Slug())
	assert.Equal(t, "huggingface", ProviderHuggingFace.Slug())
	assert.Equal(t, "unknown-ai", Provider("Unknown AI").Slug())
	assert.Len(t, AllProviders(), 3)
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	profiles := DefaultProfiles()

	assert.Equal(t, []Language{
		LanguageGo, LanguageJava, LanguageJavaScript, LanguagePython, LanguageRust, LanguageTypeScript,
	}, profiles.Languages())

	python, ok := profiles.Lookup(LanguagePython)
	require.True(t, ok)
	assert.Equal(t, ".py", python.Extension)
	assert.Equal(t, []string{"Data Science", "Web Development", "Automation", "AI/ML"}, python.CommonUses)
	assert.Equal(t, []string{"Django", "Flask", "FastAPI", "TensorFlow", "PyTorch"}, python.Frameworks)

	// Returned profiles are copies.
	python.Frameworks[0] = "mutated"
	again, _ := profiles.Lookup(LanguagePython)
	assert.Equal(t, "Django", again.Frameworks[0])

	lang, ok := profiles.Parse("typescript")
	require.True(t, ok)
	assert.Equal(t, LanguageTypeScript, lang)

	_, ok = profiles.Parse("Haskell")
	assert.False(t, ok)

	_, ok = profiles.Lookup("Haskell")
	assert.False(t, ok)
}
