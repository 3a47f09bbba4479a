package ocr

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/breaker"
	"codeberg.org/snonux/readitfortheplot/internal/imagesource"
	"codeberg.org/snonux/readitfortheplot/internal/model"
)

const (
	// DefaultBaseURL is the DeepSeek OpenAI compatible endpoint
	DefaultBaseURL = "https://api.deepseek.com/v1"
	// DefaultModel is the DeepSeek chat model
	DefaultModel = "deepseek-chat"

	providerName = "DeepSeek"
)

// Config configures the DeepSeek recognizer
type Config struct {
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	HTTPClient  *http.Client
}

// DefaultConfig returns the recognizer defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: 0.1,
		MaxTokens:   2000,
	}
}

// DeepSeek recognizes text through the DeepSeek chat completions API
type DeepSeek struct {
	config  Config
	breaker *breaker.Breaker
	logger  *zap.Logger
}

// NewDeepSeek creates a recognizer
func NewDeepSeek(config Config, logger *zap.Logger) *DeepSeek {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DeepSeek{
		config:  config,
		breaker: breaker.New(providerName, breaker.DefaultSettings(), logger),
		logger:  logger,
	}
}

// Name returns the provider name
func (d *DeepSeek) Name() string {
	return providerName
}

// Recognize sends the image inline as a data URL and decodes the reply
func (d *DeepSeek) Recognize(ctx context.Context, image []byte, apiKey string) ([]model.TextRegion, error) {
	if apiKey == "" {
		return nil, model.NewConfigurationError("DeepSeek API key not configured")
	}

	req := openai.ChatCompletionRequest{
		Model: d.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imagesource.EncodeDataURL("", image),
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: Prompt,
					},
				},
			},
		},
		Temperature: d.config.Temperature,
		MaxTokens:   d.config.MaxTokens,
	}

	var content string
	err := d.breaker.Do(func() error {
		resp, err := d.client(apiKey).CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) > 0 {
			content = resp.Choices[0].Message.Content
		}
		return nil
	})
	if err != nil {
		return nil, providerError(err)
	}

	regions, fallback, err := DecodeReply(providerName, content)
	if err != nil {
		return nil, err
	}
	if fallback {
		d.logger.Warn("No JSON found in OCR response, using raw text",
			zap.Int("length", len(strings.TrimSpace(content))))
	}

	d.logger.Debug("OCR extracted text", zap.Int("regions", len(regions)))
	return regions, nil
}

func (d *DeepSeek) client(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = d.config.BaseURL
	if d.config.HTTPClient != nil {
		cfg.HTTPClient = d.config.HTTPClient
	}
	return openai.NewClientWithConfig(cfg)
}

// providerError classifies an error from go-openai
func providerError(err error) error {
	if model.KindOf(err) != "" {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return model.NewProviderError(providerName, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return model.NewProviderError(providerName, http.StatusText(reqErr.HTTPStatusCode), err)
	}
	return model.NewProviderError(providerName, err.Error(), err)
}
