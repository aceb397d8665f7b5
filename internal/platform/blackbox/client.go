// Package blackbox implements generation.Provider for BlackboxAI through its
// RapidAPI gateway, which speaks an OpenAI-style chat completions protocol.
package blackbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
	"github.com/phrazzld/codegen-api/internal/platform/httpjson"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "blackboxai"

// DefaultModels is reported when the gateway's model listing is empty or in
// an unrecognised shape.
var DefaultModels = []string{"blackboxai", "blackboxai-pro", "gpt-4o", "claude-sonnet-3.5", "gemini-pro"}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error json.RawMessage `json:"error,omitempty"`
}

// Client calls BlackboxAI via RapidAPI.
type Client struct {
	logger    *slog.Logger
	http      *httpjson.Client
	baseURL   string
	host      string
	apiKey    string
	maxTokens int
}

var _ generation.Provider = (*Client)(nil)

// NewClient creates a BlackboxAI adapter. The RapidAPI host header is taken
// from BlackboxBaseURL.
func NewClient(logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.RapidAPIKey == "" {
		return nil, fmt.Errorf("%w: RapidAPI key cannot be empty", generation.ErrInvalidConfig)
	}
	base, err := url.Parse(cfg.BlackboxBaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid blackbox base url %q", generation.ErrInvalidConfig, cfg.BlackboxBaseURL)
	}

	return &Client{
		logger:    logger.With("component", "blackbox"),
		http:      httpjson.New(cfg.RequestTimeout()),
		baseURL:   strings.TrimRight(cfg.BlackboxBaseURL, "/"),
		host:      base.Hostname(),
		apiKey:    cfg.RapidAPIKey,
		maxTokens: cfg.MaxOutputTokens,
	}, nil
}

// Name returns domain.ProviderBlackbox.
func (c *Client) Name() domain.Provider { return domain.ProviderBlackbox }

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("X-RapidAPI-Key", c.apiKey)
	h.Set("X-RapidAPI-Host", c.host)
	return h
}

// Generate posts a single-message chat completion.
func (c *Client) Generate(ctx context.Context, req generation.ProviderRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   c.maxTokens,
	}

	c.logger.DebugContext(ctx, "sending chat completion request",
		"model", model,
		"request_id", req.RequestID,
		"prompt_length", len(req.Prompt))

	var resp chatResponse
	if err := c.http.Do(ctx, http.MethodPost, c.baseURL+"/chat/completions", c.headers(), body, &resp); err != nil {
		return "", fmt.Errorf("%w: blackbox: %v", generation.ErrProviderFailure, err)
	}

	if len(resp.Error) > 0 && string(resp.Error) != "null" {
		return "", fmt.Errorf("%w: blackbox error: %s", generation.ErrSemanticFailure, string(resp.Error))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrSemanticFailure)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrSemanticFailure)
	}
	return text, nil
}

// Models queries GET {base}/models. Transport and status failures are
// returned so callers can detect an invalid key; an unrecognised or empty
// listing yields DefaultModels.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := c.http.Do(ctx, http.MethodGet, c.baseURL+"/models", c.headers(), nil, &raw); err != nil {
		return nil, fmt.Errorf("%w: blackbox: %v", generation.ErrProviderFailure, err)
	}

	if models := parseModels(raw); len(models) > 0 {
		return models, nil
	}
	c.logger.DebugContext(ctx, "model listing empty or unrecognised, using defaults")
	return append([]string(nil), DefaultModels...), nil
}

// parseModels accepts {"data":[{"id":...}]}, {"models":[...]} or a bare
// array of strings or objects with an id.
func parseModels(raw json.RawMessage) []string {
	var wrapped struct {
		Data   []json.RawMessage `json:"data"`
		Models []json.RawMessage `json:"models"`
	}
	items := []json.RawMessage(nil)
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		items = append(wrapped.Data, wrapped.Models...)
	} else {
		_ = json.Unmarshal(raw, &items)
	}

	var models []string
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil && name != "" {
			models = append(models, name)
			continue
		}
		var obj struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			switch {
			case obj.ID != "":
				models = append(models, obj.ID)
			case obj.Name != "":
				models = append(models, obj.Name)
			}
		}
	}
	return models
}
