// Package llm provides model configuration and client abstractions for the language models
// used during extraction. Models are addressed as "<provider>/<name>" identifiers.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider, or any OpenAI-compatible endpoint
	ProviderOpenAI Provider = "openai"
)

// Model is a provider-qualified model identifier such as "gemini/gemini-1.5-flash".
type Model string

// Known models
const (
	ModelGeminiPro   Model = "gemini/gemini-pro"
	ModelGeminiFlash Model = "gemini/gemini-1.5-flash"
	ModelGPT4oMini   Model = "openai/gpt-4o-mini"
)

// DefaultEmbeddingModel is the Gemini model used for job description vectors.
const DefaultEmbeddingModel = "text-embedding-004"

// KnownModels lists the identifiers accepted without a warning by the CLI.
var KnownModels = []Model{ModelGeminiPro, ModelGeminiFlash, ModelGPT4oMini}

// Provider returns the provider prefix. Bare names default to Gemini.
func (m Model) Provider() Provider {
	if p, _, ok := strings.Cut(string(m), "/"); ok {
		return Provider(p)
	}
	return ProviderGemini
}

// Name returns the provider-side model name.
func (m Model) Name() string {
	if _, name, ok := strings.Cut(string(m), "/"); ok {
		return name
	}
	return string(m)
}

// Known reports whether m is one of KnownModels.
func (m Model) Known() bool {
	for _, k := range KnownModels {
		if k == m {
			return true
		}
	}
	return false
}

// Config holds the model configuration for a client
type Config struct {
	Model          Model
	EmbeddingModel string
	SystemPrompt   string
	Temperature    float32
	// NumRetries is the number of extra attempts made on transport failures.
	NumRetries int
	RetryDelay time.Duration
	// BaseURL overrides the OpenAI endpoint (compatible servers, tests).
	BaseURL string
}

// DefaultConfig returns the default configuration (Gemini Flash)
func DefaultConfig() *Config {
	return &Config{
		Model:          ModelGeminiFlash,
		EmbeddingModel: DefaultEmbeddingModel,
		Temperature:    0.1,
		NumRetries:     2,
		RetryDelay:     time.Second,
	}
}

// Validate checks that the configuration can build a client.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	switch c.Model.Provider() {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider %q in model %q", c.Model.Provider(), c.Model)
	}
	if c.NumRetries < 0 {
		return fmt.Errorf("num retries must be non-negative, got %d", c.NumRetries)
	}
	return nil
}

// WithModel returns a copy of the config using a different model
func (c *Config) WithModel(model Model) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}

// WithSystemPrompt returns a copy of the config using a different system prompt
func (c *Config) WithSystemPrompt(prompt string) *Config {
	newConfig := *c
	newConfig.SystemPrompt = prompt
	return &newConfig
}
