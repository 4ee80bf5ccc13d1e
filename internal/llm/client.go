// Package llm wraps the chat-completions client used for index generation
// and the agent loop. The rest of the system treats it as a black-box
// request/response function.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Message aliases the chat message type so callers don't import the SDK for
// plain conversations.
type Message = openai.ChatCompletionMessage

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a chat client for the given model. The API key comes from
// OPENAI_API_KEY; baseURL may be empty for the default endpoint or point at
// any OpenAI-compatible server.
func New(baseURL, model string) (*Client, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}, nil
}

// Generate sends a conversation and returns the assistant's text response.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateWithTools sends a conversation along with tool declarations and
// returns the full assistant message, which may carry tool calls instead of
// (or in addition to) text.
func (c *Client) GenerateWithTools(ctx context.Context, messages []Message, tools []openai.Tool) (Message, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return Message{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Message{}, errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message, nil
}
