package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultOpenAIBaseURL is the production OpenAI API endpoint.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient implements Completer against the OpenAI
// chat-completions API.
type OpenAIClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	logger     *log.Logger
}

// NewOpenAI creates an OpenAI-backed completer. baseURL may be empty to
// use the production endpoint.
func NewOpenAI(httpClient *http.Client, apiKey, baseURL, model string, maxTokens int, logger *log.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

// GetCompletion sends the prompts as a two-message chat and returns the
// reply text.
func (c *OpenAIClient) GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.logger.Debug("requesting completion", "backend", "openai", "model", c.model)
	return callChat(ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, chatRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
}
