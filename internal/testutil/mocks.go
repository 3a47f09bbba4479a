package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/store"
)

// MockStore is an in-memory store whose operations can be made to fail
type MockStore struct {
	mu     sync.Mutex
	Values map[string][]byte
	Errors map[string]error // keyed by "GET", "SET" or "DELETE"
	Calls  []string
}

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		Values: make(map[string][]byte),
		Errors: make(map[string]error),
	}
}

// Get mocks reading a key
func (m *MockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("GET %s", key))

	if err, ok := m.Errors["GET"]; ok {
		return nil, err
	}
	if v, ok := m.Values[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, store.ErrNotFound
}

// Set mocks writing a key
func (m *MockStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("SET %s (%d bytes)", key, len(value)))

	if err, ok := m.Errors["SET"]; ok {
		return err
	}
	m.Values[key] = append([]byte(nil), value...)
	return nil
}

// Delete mocks removing a key
func (m *MockStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fmt.Sprintf("DELETE %s", key))

	if err, ok := m.Errors["DELETE"]; ok {
		return err
	}
	delete(m.Values, key)
	return nil
}

// Close does nothing
func (m *MockStore) Close() error { return nil }

// CallCount counts calls starting with prefix, e.g. "SET"
func (m *MockStore) CallCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countPrefix(m.Calls, prefix)
}

// MockRecognizer mocks an OCR provider
type MockRecognizer struct {
	mu      sync.Mutex
	Regions []model.TextRegion
	Err     error
	Panic   string
	Calls   []string
}

// Name returns the provider name
func (m *MockRecognizer) Name() string { return "MockOCR" }

// Recognize mocks text extraction
func (m *MockRecognizer) Recognize(_ context.Context, image []byte, apiKey string) ([]model.TextRegion, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Recognize: %d bytes (key=%s)", len(image), apiKey))
	m.mu.Unlock()

	if m.Panic != "" {
		panic(m.Panic)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]model.TextRegion(nil), m.Regions...), nil
}

// CallCount returns the number of Recognize calls
func (m *MockRecognizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranslator mocks a translation provider
type MockTranslator struct {
	mu           sync.Mutex
	Translations map[string]string
	Err          error
	Calls        []string
}

// Name returns the provider name
func (m *MockTranslator) Name() string { return "MockTranslation" }

// Translate mocks translating regions; unknown texts come back unchanged
func (m *MockTranslator) Translate(_ context.Context, regions []model.TextRegion, source, target, apiKey string) ([]model.TextRegion, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)",
		strings.Join(model.Texts(regions), "|"), source, target))
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]model.TextRegion, len(regions))
	for i, r := range regions {
		out[i] = r
		if t, ok := m.Translations[r.Text]; ok {
			out[i].Text = t
		}
	}
	return out, nil
}

// CallCount returns the number of Translate calls
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func countPrefix(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
