package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/testutil"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, status int, content string, got *chatRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if got != nil {
			json.NewDecoder(r.Body).Decode(got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": content, "type": "invalid_request_error"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "deepseek-chat",
			"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
		})
	}))
}

func newTestRecognizer(server *httptest.Server) *DeepSeek {
	cfg := DefaultConfig()
	cfg.BaseURL = server.URL + "/v1"
	cfg.HTTPClient = server.Client()
	return NewDeepSeek(cfg, nil)
}

func TestDeepSeek_Recognize(t *testing.T) {
	var req chatRequest
	server := chatServer(t, http.StatusOK, `{"texts": [{"text": "Bonjour", "bbox": [10, 20, 30, 40]}]}`, &req)
	defer server.Close()

	regions, err := newTestRecognizer(server).Recognize(context.Background(), testutil.PNG(t, 2, 2), "test-key")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if len(regions) != 1 || regions[0].Text != "Bonjour" || regions[0].BBox != (model.BBox{10, 20, 30, 40}) {
		t.Errorf("Recognize() = %+v", regions)
	}

	if req.Model != DefaultModel {
		t.Errorf("model = %s, want %s", req.Model, DefaultModel)
	}
	if req.MaxTokens != 2000 {
		t.Errorf("max_tokens = %d, want 2000", req.MaxTokens)
	}
	if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
		t.Fatalf("Unexpected message layout: %+v", req.Messages)
	}
	parts := req.Messages[0].Content
	if parts[0].Type != "image_url" || !strings.HasPrefix(parts[0].ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("First part should be the inline image, got %+v", parts[0])
	}
	if parts[1].Type != "text" || parts[1].Text != Prompt {
		t.Errorf("Second part should be the prompt, got %+v", parts[1])
	}
}

func TestDeepSeek_RecognizeErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		server := chatServer(t, http.StatusUnauthorized, "Authentication Fails", nil)
		defer server.Close()

		_, err := newTestRecognizer(server).Recognize(context.Background(), []byte("img"), "test-key")
		if !errors.Is(err, model.ErrProvider) {
			t.Fatalf("Recognize() error = %v, want provider error", err)
		}
		if !strings.Contains(err.Error(), "DeepSeek API error: Authentication Fails") {
			t.Errorf("Recognize() error = %q", err.Error())
		}
	})

	t.Run("empty content", func(t *testing.T) {
		server := chatServer(t, http.StatusOK, "", nil)
		defer server.Close()

		_, err := newTestRecognizer(server).Recognize(context.Background(), []byte("img"), "test-key")
		if !errors.Is(err, model.ErrProvider) {
			t.Errorf("Recognize() error = %v, want provider error", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		d := NewDeepSeek(DefaultConfig(), nil)
		_, err := d.Recognize(context.Background(), []byte("img"), "")
		if !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("Recognize() error = %v, want configuration error", err)
		}
	})
}
