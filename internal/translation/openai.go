package translation

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/breaker"
	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI translates through the OpenAI chat completions API
type OpenAI struct {
	config  Config
	breaker *breaker.Breaker
	logger  *zap.Logger
}

// NewOpenAI creates an OpenAI translator
func NewOpenAI(config Config, logger *zap.Logger) *OpenAI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAI{
		config:  config.withDefaults(DefaultOpenAIModel),
		breaker: breaker.New("OpenAI", breaker.DefaultSettings(), logger),
		logger:  logger,
	}
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return "OpenAI"
}

// Translate sends all regions in one prompt
func (o *OpenAI) Translate(ctx context.Context, regions []model.TextRegion, source, target, apiKey string) ([]model.TextRegion, error) {
	if apiKey == "" {
		return nil, model.NewConfigurationError("OpenAI API key not configured")
	}
	if len(regions) == 0 {
		return []model.TextRegion{}, nil
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.config.BaseURL != "" {
		cfg.BaseURL = o.config.BaseURL
	}
	if o.config.HTTPClient != nil {
		cfg.HTTPClient = o.config.HTTPClient
	}
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model: o.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(regions, source, target),
			},
		},
		MaxTokens:   o.config.MaxOutputTokens,
		Temperature: o.config.Temperature,
	}

	var reply string
	err := o.breaker.Do(func() error {
		resp, err := client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) > 0 {
			reply = resp.Choices[0].Message.Content
		}
		return nil
	})
	if err != nil {
		if model.KindOf(err) != "" {
			return nil, err
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, model.NewProviderError("OpenAI", apiErr.Message, err)
		}
		return nil, model.NewProviderError("OpenAI", err.Error(), err)
	}

	if strings.TrimSpace(reply) == "" {
		return nil, model.NewProviderError("OpenAI", "no translation returned", nil)
	}

	return ParseReply(reply, regions), nil
}
