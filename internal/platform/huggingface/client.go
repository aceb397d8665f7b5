// Package huggingface implements generation.Provider for the Hugging Face
// Inference API text-generation task.
package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
	"github.com/phrazzld/codegen-api/internal/platform/httpjson"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "bigcode/starcoder2-15b"

// DefaultModels are the code models offered to callers. The Inference API
// has no listing endpoint scoped to a token.
var DefaultModels = []string{
	"bigcode/starcoder2-15b",
	"codellama/CodeLlama-34b-Instruct-hf",
	"Qwen/Qwen2.5-Coder-32B-Instruct",
	"deepseek-ai/deepseek-coder-33b-instruct",
}

type parameters struct {
	Temperature    float64 `json:"temperature"`
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type inferenceRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type generated struct {
	GeneratedText string `json:"generated_text"`
}

// Client calls the Hugging Face Inference API.
type Client struct {
	logger    *slog.Logger
	http      *httpjson.Client
	baseURL   string
	token     string
	maxTokens int
}

var _ generation.Provider = (*Client)(nil)

// NewClient creates a Hugging Face adapter.
func NewClient(logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.HuggingFaceAPIKey == "" {
		return nil, fmt.Errorf("%w: Hugging Face API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.HuggingFaceBaseURL == "" {
		return nil, fmt.Errorf("%w: Hugging Face base url cannot be empty", generation.ErrInvalidConfig)
	}

	return &Client{
		logger:    logger.With("component", "huggingface"),
		http:      httpjson.New(cfg.RequestTimeout()),
		baseURL:   strings.TrimRight(cfg.HuggingFaceBaseURL, "/"),
		token:     cfg.HuggingFaceAPIKey,
		maxTokens: cfg.MaxOutputTokens,
	}, nil
}

// Name returns domain.ProviderHuggingFace.
func (c *Client) Name() domain.Provider { return domain.ProviderHuggingFace }

// Generate runs text generation on the requested model and returns only the
// continuation.
func (c *Client) Generate(ctx context.Context, req generation.ProviderRequest) (string, error) {
	model := strings.Trim(req.Model, "/")
	if model == "" {
		model = DefaultModel
	}

	body := inferenceRequest{
		Inputs: req.Prompt,
		Parameters: parameters{
			Temperature:    req.Temperature,
			MaxNewTokens:   c.maxTokens,
			ReturnFullText: false,
		},
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	c.logger.DebugContext(ctx, "sending inference request",
		"model", model,
		"request_id", req.RequestID,
		"prompt_length", len(req.Prompt))

	var raw json.RawMessage
	if err := c.http.Do(ctx, http.MethodPost, c.baseURL+"/models/"+model, header, body, &raw); err != nil {
		return "", fmt.Errorf("%w: huggingface: %v", generation.ErrProviderFailure, err)
	}

	return parseGenerated(raw)
}

// parseGenerated accepts a list of generations, a single generation object or
// an error object.
func parseGenerated(raw json.RawMessage) (string, error) {
	var list []generated
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 || strings.TrimSpace(list[0].GeneratedText) == "" {
			return "", fmt.Errorf("%w: empty generation", generation.ErrSemanticFailure)
		}
		return list[0].GeneratedText, nil
	}

	var obj struct {
		generated
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("%w: huggingface: failed to decode response: %v", generation.ErrProviderFailure, err)
	}
	if obj.Error != "" {
		return "", fmt.Errorf("%w: huggingface error: %s", generation.ErrSemanticFailure, obj.Error)
	}
	if strings.TrimSpace(obj.GeneratedText) == "" {
		return "", fmt.Errorf("%w: empty generation", generation.ErrSemanticFailure)
	}
	return obj.GeneratedText, nil
}

// Models returns DefaultModels.
func (c *Client) Models(context.Context) ([]string, error) {
	return append([]string(nil), DefaultModels...), nil
}
