// Package settings loads and saves the user settings: provider
// credentials, languages and feature toggles.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/store"
)

// StorageKey is the store key holding the settings document
const StorageKey = "settings"

// Settings is the user configuration
type Settings struct {
	OCRKey         string `json:"ocrKey"`
	TranslationKey string `json:"translationKey"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	EnableCache    bool   `json:"enableCache"`
	ShowButtons    bool   `json:"showButtons"`
}

// Defaults returns the settings used before anything is saved
func Defaults() Settings {
	return Settings{
		SourceLanguage: "auto",
		TargetLanguage: "en",
		EnableCache:    true,
		ShowButtons:    true,
	}
}

// HasKeys reports whether both provider credentials are set
func (s Settings) HasKeys() bool {
	return s.OCRKey != "" && s.TranslationKey != ""
}

// Validate checks the settings before they are saved
func (s Settings) Validate() error {
	if strings.TrimSpace(s.OCRKey) == "" || strings.TrimSpace(s.TranslationKey) == "" {
		return model.NewConfigurationError("Please enter both API keys")
	}
	if strings.TrimSpace(s.TargetLanguage) == "" {
		return model.NewConfigurationError("Please select a target language")
	}
	return nil
}

// Masked returns a copy safe for display with keys shortened
func (s Settings) Masked() Settings {
	s.OCRKey = mask(s.OCRKey)
	s.TranslationKey = mask(s.TranslationKey)
	return s
}

func mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// Repository persists Settings in a store
type Repository struct {
	store  store.Store
	logger *zap.Logger
}

// NewRepository creates a repository on top of s
func NewRepository(s store.Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: s, logger: logger}
}

// Load returns the stored settings merged over the defaults. A storage
// failure is logged and yields the defaults.
func (r *Repository) Load(ctx context.Context) Settings {
	s := Defaults()

	data, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return s
	}
	if err != nil {
		r.logger.Warn("Failed to read settings", zap.Error(err))
		return s
	}

	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn("Failed to decode settings", zap.Error(err))
		return Defaults()
	}
	return s
}

// Save validates and writes the whole settings document
func (r *Repository) Save(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	s.OCRKey = strings.TrimSpace(s.OCRKey)
	s.TranslationKey = strings.TrimSpace(s.TranslationKey)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := r.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
