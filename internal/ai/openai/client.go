package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/jhunter/agent/internal/ai"

	"go.uber.org/zap"
)

const (
	defaultModel = "gpt-4o"

	// OpenRouterBaseURL routes requests through OpenRouter's OpenAI-compatible
	// API. The same client serves both providers; only the base URL differs.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Client wraps the OpenAI chat-completion API behind the ai.Client contract.
type Client struct {
	client    *gopenai.Client
	modelName string
	logger    *zap.Logger
}

// New creates a Client. An empty baseURL targets the OpenAI API; pass
// OpenRouterBaseURL (or any compatible endpoint) to redirect requests.
func New(apiKey, model, baseURL string, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	cfg := gopenai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{client: gopenai.NewClientWithConfig(cfg), modelName: model, logger: logger}, nil
}

// Complete sends one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai client is not initialized")
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		return "", errors.New("prompt must not be empty")
	}

	messages := make([]gopenai.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, gopenai.ChatCompletionMessage{
			Role:    gopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, gopenai.ChatCompletionMessage{
		Role:    gopenai.ChatMessageRoleUser,
		Content: user,
	})

	resp, err := c.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       c.modelName,
		Temperature: 0,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	return output, nil
}

// CompleteBatch dispatches every request concurrently and waits for the
// whole batch. Result order matches request order.
func (c *Client) CompleteBatch(ctx context.Context, reqs []ai.Request) ([]ai.BatchResult, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("openai client is not initialized")
	}

	results := make([]ai.BatchResult, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req ai.Request) {
			defer wg.Done()
			text, err := c.Complete(ctx, req)
			results[i] = ai.BatchResult{Text: text, Err: err}
		}(i, req)
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	c.logger.Debug("openai batch completed",
		zap.Int("requests", len(reqs)),
		zap.Int("failed", failed),
	)

	return results, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}
