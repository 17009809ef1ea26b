// Package openai implements ports.Generator against the OpenAI chat
// completion API. Any OpenAI-compatible endpoint works through WithBaseURL.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/domain"
	oai "github.com/sashabaranov/go-openai"
)

// Defaults applied when a request does not override them.
const (
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4096
)

// Gateway implements ports.Generator.
type Gateway struct {
	client      *oai.Client
	model       string
	temperature float32
	maxTokens   int
	log         *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(g *Gateway) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float32) Option {
	return func(g *Gateway) { g.temperature = t }
}

// WithMaxTokens sets the default completion budget.
func WithMaxTokens(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithLogger sets the gateway logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a gateway for the given API key.
func New(apiKey string, opts ...Option) *Gateway {
	return NewFromClient(oai.NewClient(apiKey), opts...)
}

// NewWithBaseURL creates a gateway against an OpenAI-compatible endpoint,
// e.g. a local inference server.
func NewWithBaseURL(apiKey, baseURL string, opts ...Option) *Gateway {
	cfg := oai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewFromClient(oai.NewClientWithConfig(cfg), opts...)
}

// NewFromClient creates a gateway from an existing client.
func NewFromClient(client *oai.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		log:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends one chat completion request and returns the text of the
// first choice.
func (g *Gateway) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	temperature := g.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := g.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	var messages []oai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, oai.ChatCompletionMessage{
			Role:    oai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, oai.ChatCompletionMessage{
		Role:    oai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		g.log.Error("chat completion failed", "model", g.model, "err", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: response has no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.log.Debug("chat completion done",
		"model", g.model,
		"duration", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return text, nil
}
