// Package llm is the text-completion capability boundary: a single
// GetCompletion operation with interchangeable chat-completions
// backends (OpenAI, OpenRouter).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Completer produces a text completion for a system prompt and a user
// prompt. Implementations are synchronous and may block on the network.
type Completer interface {
	GetCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callChat posts a chat-completions request and returns the first
// choice's content, trimmed of whitespace and stray quotes.
func callChat(ctx context.Context, client *http.Client, url, apiKey string, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return trimReply(chatResp.Choices[0].Message.Content), nil
}

// trimReply strips whitespace and the quoting models like to wrap
// single-token answers in.
func trimReply(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = strings.Trim(reply, `"'`)
	return strings.TrimSpace(reply)
}
