package translation

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"codeberg.org/snonux/readitfortheplot/internal/breaker"
	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// Config configures a translator
type Config struct {
	Model           string
	BaseURL         string // Empty means the provider default
	Temperature     float32
	MaxOutputTokens int
	HTTPClient      *http.Client
}

func (c Config) withDefaults(model string) Config {
	if c.Model == "" {
		c.Model = model
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 2000
	}
	return c
}

// Gemini translates through the Gemini API
type Gemini struct {
	config  Config
	breaker *breaker.Breaker
	logger  *zap.Logger
}

// NewGemini creates a Gemini translator
func NewGemini(config Config, logger *zap.Logger) *Gemini {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{
		config:  config.withDefaults(DefaultGeminiModel),
		breaker: breaker.New("Gemini", breaker.DefaultSettings(), logger),
		logger:  logger,
	}
}

// Name returns the provider name
func (g *Gemini) Name() string {
	return "Gemini"
}

// Translate sends all regions in one prompt
func (g *Gemini) Translate(ctx context.Context, regions []model.TextRegion, source, target, apiKey string) ([]model.TextRegion, error) {
	if apiKey == "" {
		return nil, model.NewConfigurationError("Gemini API key not configured")
	}
	if len(regions) == 0 {
		return []model.TextRegion{}, nil
	}

	prompt := BuildPrompt(regions, source, target)

	var reply string
	err := g.breaker.Do(func() error {
		cfg := &genai.ClientConfig{
			APIKey:     apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: g.config.HTTPClient,
		}
		if g.config.BaseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.BaseURL}
		}

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return err
		}

		resp, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt),
			&genai.GenerateContentConfig{
				Temperature:     genai.Ptr(g.config.Temperature),
				MaxOutputTokens: int32(g.config.MaxOutputTokens),
			})
		if err != nil {
			return err
		}
		reply = resp.Text()
		return nil
	})
	if err != nil {
		if model.KindOf(err) != "" {
			return nil, err
		}
		return nil, model.NewProviderError("Gemini", err.Error(), err)
	}

	if strings.TrimSpace(reply) == "" {
		return nil, model.NewProviderError("Gemini", "no translation returned", nil)
	}

	g.logger.Debug("Translation reply received", zap.Int("length", len(reply)))
	return ParseReply(reply, regions), nil
}
