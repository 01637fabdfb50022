package llm

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the Client interface using OpenAI chat completions.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI-backed recommender.
// baseURL overrides the API endpoint (OpenAI-compatible servers, tests); empty keeps the default.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIClient) ProviderName() string { return "openai" }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) Recommend(ctx context.Context, seed string) (json.RawMessage, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You suggest wallpaper themes. Answer with a single word.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(seed),
			},
		},
		MaxTokens: 16,
	})
	if err != nil {
		return nil, fmt.Errorf("openai API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return wrapText(resp.Choices[0].Message.Content)
}
