package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const openAIDefaultTimeout = 120 * time.Second

// OpenAIClient implements Client for OpenAI chat completions and compatible servers.
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. SDK retries are disabled;
// retries are applied uniformly by WithRetry.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIDefaultTimeout}),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// Generate sends the prompt as a user message, preceded by the system prompt when set
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if c.config.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(c.config.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.config.Model.Name()),
		Messages:    messages,
		Temperature: openai.Float(float64(c.config.Temperature)),
	})
	if err != nil {
		return "", &TransportError{Model: c.config.Model, Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier
func (c *OpenAIClient) Model() Model {
	return c.config.Model
}

// Close is a no-op; the SDK holds no resources.
func (c *OpenAIClient) Close() error {
	return nil
}
