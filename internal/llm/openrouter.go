package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultOpenRouterBaseURL is the production OpenRouter API endpoint.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient implements Completer against the OpenRouter API,
// trying fallback models in order when the primary fails.
type OpenRouterClient struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	model          string
	fallbackModels []string
	maxTokens      int
	logger         *log.Logger
}

// NewOpenRouter creates an OpenRouter-backed completer. baseURL may be
// empty to use the production endpoint.
func NewOpenRouter(httpClient *http.Client, apiKey, baseURL, model string, fallbackModels []string, maxTokens int, logger *log.Logger) *OpenRouterClient {
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	return &OpenRouterClient{
		httpClient:     httpClient,
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		fallbackModels: fallbackModels,
		maxTokens:      maxTokens,
		logger:         logger,
	}
}

// GetCompletion tries the configured model, then each fallback model in
// order, returning the first successful reply.
func (c *OpenRouterClient) GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	models := make([]string, 0, 1+len(c.fallbackModels))
	models = append(models, c.model)
	models = append(models, c.fallbackModels...)

	var lastErr error
	for _, model := range models {
		c.logger.Debug("requesting completion", "backend", "openrouter", "model", model)
		reply, err := callChat(ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, chatRequest{
			Model:     model,
			MaxTokens: c.maxTokens,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
		})
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if len(models) > 1 {
			c.logger.Warn("model failed, trying next", "model", model, "error", err)
		}
	}

	return "", lastErr
}
