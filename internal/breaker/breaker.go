// Package breaker guards provider calls with a circuit breaker so a failing
// remote API is not hammered by every image on a page.
package breaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/model"
)

// Settings tunes when the breaker opens
type Settings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultSettings returns the settings used for provider calls
func DefaultSettings() Settings {
	return Settings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// Breaker wraps a gobreaker.CircuitBreaker for one provider
type Breaker struct {
	provider string
	cb       *gobreaker.CircuitBreaker
}

// New creates a breaker named after provider
func New(provider string, s Settings, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = DefaultSettings().ConsecutiveFailures
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Provider circuit breaker changed state",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Breaker{provider: provider, cb: cb}
}

// Do runs fn through the breaker. An open breaker surfaces as a provider
// error so callers present it like any other remote failure.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return model.NewProviderError(b.provider, "temporarily unavailable after repeated failures", err)
	}
	return err
}

// State returns the current breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}
