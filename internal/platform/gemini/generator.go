package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-1.5-flash"

// Generator calls the Gemini API.
type Generator struct {
	logger          *slog.Logger
	client          *genai.Client
	maxOutputTokens int32
}

var _ generation.Provider = (*Generator)(nil)

// NewGenerator creates a Gemini adapter from the LLM configuration. An empty
// GeminiBaseURL selects the public endpoint.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxOutputTokens <= 0 {
		return nil, fmt.Errorf("%w: max output tokens must be positive", generation.ErrInvalidConfig)
	}

	httpOptions := genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		httpOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:          logger.With("component", "gemini"),
		client:          client,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

// Name returns domain.ProviderGemini.
func (g *Generator) Name() domain.Provider { return domain.ProviderGemini }

// Generate sends the prompt as a single user turn and returns the text of the
// first candidate.
func (g *Generator) Generate(ctx context.Context, req generation.ProviderRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: g.maxOutputTokens,
	}

	g.logger.DebugContext(ctx, "sending generateContent request",
		"model", model,
		"request_id", req.RequestID,
		"prompt_length", len(req.Prompt))

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", generation.ErrProviderFailure, err)
	}

	switch {
	case resp == nil || len(resp.Candidates) == 0:
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s", generation.ErrSemanticFailure, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrSemanticFailure)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrSemanticFailure)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrSemanticFailure)
	}
	return text, nil
}

// Models lists the model identifiers visible to the API key, without the
// "models/" resource prefix.
func (g *Generator) Models(ctx context.Context) ([]string, error) {
	var models []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("%w: gemini: %v", generation.ErrProviderFailure, err)
		}
		models = append(models, strings.TrimPrefix(m.Name, "models/"))
	}
	return models, nil
}
