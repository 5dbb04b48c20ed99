package judge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"coffee-tournament/internal/common/errors"
	commonhttp "coffee-tournament/internal/common/http"

	"google.golang.org/genai"
)

// Completer sends a prompt to a language model and returns its raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewCompleter builds the completer named by cfg.Provider. Provider "none"
// returns a nil Completer, which makes every battle use the fallback.
func NewCompleter(ctx context.Context, cfg Config, hc *http.Client) (Completer, error) {
	cfg = cfg.withDefaults()

	switch cfg.Provider {
	case ProviderNone:
		return nil, nil
	case ProviderHTTP:
		if cfg.BaseURL == "" {
			return nil, errors.NewConfigurationError("judge.base_url")
		}
		return NewHTTPCompleter(cfg, commonhttp.NewClientFromHTTP(hc)), nil
	case ProviderGemini, "":
		if cfg.APIKey == "" {
			return nil, errors.NewConfigurationError("JUDGE_API_KEY")
		}
		return NewGeminiCompleter(ctx, cfg, hc)
	default:
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("unknown judge provider %q", cfg.Provider))
	}
}

// GeminiCompleter calls the Gemini generateContent API.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiCompleter(ctx context.Context, cfg Config, hc *http.Client) (*GeminiCompleter, error) {
	cfg = cfg.withDefaults()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  hc,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, errors.NewProviderError("gemini", "failed to create client", err)
	}

	return &GeminiCompleter{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", errors.NewProviderError("gemini", "generate content failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.NewProviderError("gemini", "empty response", nil)
	}
	return text, nil
}

// HTTPCompleter posts the prompt to a generic text-generation endpoint at
// {base_url}/api/ai/generate.
type HTTPCompleter struct {
	http        *commonhttp.Client
	endpoint    string
	maxTokens   int
	temperature float64
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func NewHTTPCompleter(cfg Config, client *commonhttp.Client) *HTTPCompleter {
	cfg = cfg.withDefaults()
	return &HTTPCompleter{
		http:        client,
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/api/ai/generate",
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (h *HTTPCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	err := h.http.PostJSON(ctx, h.endpoint, generateRequest{
		Prompt:      prompt,
		MaxTokens:   h.maxTokens,
		Temperature: h.temperature,
	}, &out)
	if err != nil {
		return "", errors.NewProviderError("ai", "generate request failed", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", errors.NewProviderError("ai", "empty response", nil)
	}
	return out.Text, nil
}
