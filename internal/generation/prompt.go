package generation

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/codegen-api/internal/domain"
)

// DefaultPromptTemplate wraps the caller's task with the language context and
// a production-quality checklist.
const DefaultPromptTemplate = `
Generate {{.Language}} code for the following task.
Context:
- Language: {{.Language}}
- Common uses: {{join .CommonUses ", "}}
- Popular frameworks: {{join .Frameworks ", "}}

Task: {{.Task}}

Please provide production-ready code with:
- Proper error handling
- Input validation
- Clear variable names
- Necessary comments
- Best practices for {{.Language}}
`

// promptData is the template input.
type promptData struct {
	Language   string
	Extension  string
	CommonUses []string
	Frameworks []string
	Task       string
}

// PromptBuilder renders enriched prompts.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses text as the prompt template. An empty text selects
// DefaultPromptTemplate.
func NewPromptBuilder(text string) (*PromptBuilder, error) {
	if text == "" {
		text = DefaultPromptTemplate
	}
	tmpl, err := template.New("prompt").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// NewPromptBuilderFromFile loads the template at path. An empty path selects
// DefaultPromptTemplate.
func NewPromptBuilderFromFile(path string) (*PromptBuilder, error) {
	if path == "" {
		return NewPromptBuilder("")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			ErrInvalidConfig, path, err)
	}
	return NewPromptBuilder(string(content))
}

// Build renders the prompt for task in language.
func (b *PromptBuilder) Build(language domain.Language, profile domain.LanguageProfile, task string) (string, error) {
	data := promptData{
		Language:   string(language),
		Extension:  profile.Extension,
		CommonUses: profile.CommonUses,
		Frameworks: profile.Frameworks,
		Task:       task,
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
