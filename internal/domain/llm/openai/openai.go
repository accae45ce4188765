// Package openai adapts the go-openai client to the llm.Provider
// interface. Any OpenAI-compatible endpoint works, including Gemini's
// compatibility layer, by pointing BaseURL at it.
package openai

import (
	"context"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/platform/config"
	"github.com/Divyendra-S/sasha/internal/platform/errors"
)

type Provider struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

func New(cfg config.ExtractionConfig) (*Provider, error) {
	const op = "openai.New"
	if cfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, op, "missing extraction API key")
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &Provider{
		client:      goopenai.NewClientWithConfig(clientConfig),
		model:       cfg.ModelName,
		temperature: float32(cfg.Temperature),
		maxTokens:   maxTokens,
	}, nil
}

// Complete implements llm.Provider with a single blocking completion.
func (p *Provider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	const op = "openai.Complete"

	chatMessages := make([]goopenai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    chatMessages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", errors.Wrap(errors.KindExtraction, op, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.KindExtraction, op, "empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
