// Package llm wraps the text-completion service behind a prompt-in/text-out call.
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/justsurfingit/TalentScout-AI/internal/config"
)

// Client sends single prompts to a langchaingo model.
type Client struct {
	model       llms.Model
	modelName   string
	temperature float64
	cache       Cache
}

type Option func(*Client)

// WithCache stores successful completions in c.
func WithCache(c Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

func WithTemperature(t float64) Option {
	return func(cl *Client) { cl.temperature = t }
}

// NewClient wraps an already constructed model.
func NewClient(model llms.Model, modelName string, opts ...Option) *Client {
	c := &Client{model: model, modelName: modelName, temperature: 0.2}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewModel builds the langchaingo model for the configured provider.
func NewModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	switch cfg.LLMProvider {
	case "googleai":
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.New(opts...)
	case "ollama":
		return ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaURL),
		)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}
}

// Validator rejects a completion the caller cannot use. Rejected text is
// never cached.
type Validator func(text string) error

// Complete returns the raw completion text for prompt. An empty string is a
// valid return. Transport failures are returned wrapped; a validator error is
// returned as is, together with the text. Only non-empty text accepted by
// every validator is cached, so a rejected answer is asked for again next time.
func (c *Client) Complete(ctx context.Context, prompt string, validate ...Validator) (string, error) {
	key := c.cacheKey(prompt)
	if c.cache != nil {
		if text, ok, err := c.cache.Get(ctx, key); err != nil {
			log.Printf("[LLM] ⚠️ cache read failed, calling model: %v", err)
		} else if ok {
			if err := check(text, validate); err == nil {
				return text, nil
			}
			log.Println("[LLM] ⚠️ cached completion rejected, calling model")
		}
	}

	resp, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Choices) > 0 && resp.Choices[0] != nil {
		sb.WriteString(resp.Choices[0].Content)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	if err := check(text, validate); err != nil {
		return text, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, text); err != nil {
			log.Printf("[LLM] ⚠️ cache write failed: %v", err)
		}
	}
	return text, nil
}

func check(text string, validate []Validator) error {
	for _, v := range validate {
		if err := v(text); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(c.modelName + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
