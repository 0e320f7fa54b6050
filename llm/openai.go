package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrInvalidAPIKey     = errors.New("completion service rejected the API key")
	ErrInsufficientQuota = errors.New("completion service quota exhausted")
	ErrNoAnswer          = errors.New("completion service returned no answer")
)

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// Client sends one system and one user message to the chat completions
// endpoint and returns the first choice.
type Client struct {
	api         *openai.Client
	configured  bool
	model       string
	maxTokens   int
	temperature float32
}

func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		configured:  strings.TrimSpace(cfg.APIKey) != "",
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}
}

func (c *Client) Configured() bool {
	return c.configured
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("%w: OPENAI_API_KEY is not configured", ErrInvalidAPIKey)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoAnswer
	}
	answer := resp.Choices[0].Message.Content
	if strings.TrimSpace(answer) == "" {
		return "", ErrNoAnswer
	}
	return answer, nil
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	code := ""
	if s, ok := apiErr.Code.(string); ok {
		code = s
	}
	switch {
	case code == "insufficient_quota" || apiErr.HTTPStatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrInsufficientQuota, apiErr.Message)
	case code == "invalid_api_key" || apiErr.HTTPStatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErr.Message)
	default:
		return fmt.Errorf("completion request failed (%d): %w", apiErr.HTTPStatusCode, err)
	}
}
