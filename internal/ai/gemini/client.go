package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/jhunter/agent/internal/ai"

	"go.uber.org/zap"
)

const defaultModel = "gemini-2.5-flash"

// Client wraps the Google GenAI client behind the ai.Client contract.
type Client struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{client: client, modelName: model, logger: logger}, nil
}

// Complete sends one request to Gemini and returns the first textual response.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		return "", errors.New("prompt must not be empty")
	}

	var cfg *genai.GenerateContentConfig
	if system := strings.TrimSpace(req.System); system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// CompleteBatch dispatches every request concurrently and waits for the
// whole batch. Result order matches request order.
func (c *Client) CompleteBatch(ctx context.Context, reqs []ai.Request) ([]ai.BatchResult, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("gemini client is not initialized")
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

	c.logger.Debug("gemini batch completed",
		zap.Int("requests", len(reqs)),
		zap.Int("failed", countFailed(results)),
	)

	return results, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

func countFailed(results []ai.BatchResult) int {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}
