package breaker

import (
	"errors"
	"testing"
	"time"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

func TestBreaker_PassesThrough(t *testing.T) {
	b := New("DeepSeek", DefaultSettings(), nil)

	called := false
	if err := b.Do(func() error { called = true; return nil }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !called {
		t.Error("Do() did not call fn")
	}

	boom := errors.New("boom")
	if err := b.Do(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want %v", err, boom)
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := New("Gemini", Settings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil)

	fail := func() error { return errors.New("503") }
	b.Do(fail)
	b.Do(fail)

	calls := 0
	err := b.Do(func() error { calls++; return nil })
	if calls != 0 {
		t.Error("Open breaker still called fn")
	}
	if !errors.Is(err, model.ErrProvider) {
		t.Errorf("Do() on open breaker error = %v, want provider error", err)
	}
	if b.State() != "open" {
		t.Errorf("State() = %s, want open", b.State())
	}
}
