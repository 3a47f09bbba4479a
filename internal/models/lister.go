package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the OpenAI
// default endpoint.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categories groups model IDs by what they are useful for
type Categories struct {
	Vision []string
	Chat   []string
	Other  []string
}

// Categorize sorts model IDs into categories
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		lower := strings.ToLower(id)
		switch {
		case strings.Contains(lower, "vl") || strings.Contains(lower, "vision") ||
			strings.Contains(lower, "gpt-4o") || strings.Contains(lower, "ocr"):
			c.Vision = append(c.Vision, id)
		case strings.Contains(lower, "chat") || strings.Contains(lower, "gpt") ||
			strings.Contains(lower, "reasoner") || strings.Contains(lower, "coder"):
			c.Chat = append(c.Chat, id)
		default:
			c.Other = append(c.Other, id)
		}
	}

	sort.Strings(c.Vision)
	sort.Strings(c.Chat)
	sort.Strings(c.Other)
	return c
}

// ListAvailableModels writes all available models categorized by type to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("API key not found. Set DEEPSEEK_API_KEY or configure ocr.api_key in .readitfortheplot.yaml")
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	c := Categorize(ids)

	fmt.Fprintln(w, "Available Models:")
	printSection(w, "Vision Models (for text recognition):", c.Vision)
	printSection(w, "Chat Models (for translation):", c.Chat)
	printSection(w, "Other Models:", c.Other)
	return nil
}

func printSection(w io.Writer, title string, ids []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  None found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
