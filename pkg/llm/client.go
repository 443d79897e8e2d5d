package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the LLM collaborator used by the report generator and the
// protocol Q&A endpoint. The core engines never call it; it stays behind
// this interface so tests can stub the model out entirely.
type Client interface {
	// Summarize produces a short clinical summary for the given prompt.
	Summarize(ctx context.Context, prompt string) (string, error)
	// Complete answers a user prompt under a system instruction and
	// returns the raw model output.
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient calls an OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed client. An empty baseURL uses
// the default API endpoint, so any compatible gateway can be pointed at via
// config.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) Summarize(ctx context.Context, prompt string) (string, error) {
	return c.Complete(ctx,
		"You are a clinical summarizer. Write a single, professional summary paragraph from the facts you are given.",
		prompt)
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
