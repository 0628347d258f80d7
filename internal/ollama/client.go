// Package ollama talks to a local Ollama server through its OpenAI-compatible
// API. Only two capabilities are needed: chat completions for draft
// descriptions and model listing for validation.
package ollama

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fbschema/fbschema/internal/logger"
)

const (
	// DefaultHost is where a stock Ollama install listens.
	DefaultHost = "http://localhost:11434"
	// DefaultModel matches the fallback the annotation tooling always used.
	DefaultModel = "llama3"
)

// Client is a thin wrapper over the OpenAI-compatible endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a client for the given Ollama host and default model.
// Empty arguments fall back to the stock host and model.
func NewClient(host, model string) *Client {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}

	// Ollama ignores the API key but the client library requires one.
	config := openai.DefaultConfig("ollama")
	config.BaseURL = strings.TrimRight(host, "/") + "/v1"

	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
	}
}

// Model returns the default model the client completes with.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a single-turn prompt and returns the cleaned response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.Get()
	log.Debug("requesting completion", "model", c.model, "prompt_len", len(prompt))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return CleanResponse(resp.Choices[0].Message.Content), nil
}

// Models lists the model names the server has available.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// CleanResponse strips the noise models wrap answers in: surrounding
// whitespace and quoting.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, `'`)
	return strings.TrimSpace(s)
}
