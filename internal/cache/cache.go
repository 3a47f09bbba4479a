package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/store"
)

const (
	// StorageKey is the store key holding the whole cache blob
	StorageKey = "translationCache"
	// MaxEntries is the number of entries kept after eviction
	MaxEntries = 100
	// MaxAge is the age at which an entry is no longer returned
	MaxAge = 7 * 24 * time.Hour
)

// Entry is one cached result
type Entry struct {
	Timestamp time.Time               `json:"timestamp"`
	Seq       uint64                  `json:"seq"`
	Data      model.TranslationResult `json:"data"`
}

// Stats describes the stored blob
type Stats struct {
	Entries   int `json:"entries"`
	SizeBytes int `json:"sizeBytes"`
}

// Cache is the translation result cache
type Cache struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time

	// mu serialises the read-modify-write of the blob
	mu sync.Mutex
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger for storage warnings
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a cache on top of s
func New(s store.Store, opts ...Option) *Cache {
	c := &Cache{
		store:  s,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for key. An expired entry is removed.
func (c *Cache) Get(ctx context.Context, key string) (model.TranslationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, _ := c.load(ctx)
	entry, ok := entries[key]
	if !ok {
		return model.TranslationResult{}, false
	}

	if c.now().Sub(entry.Timestamp) >= MaxAge {
		delete(entries, key)
		c.save(ctx, entries)
		return model.TranslationResult{}, false
	}

	return entry.Data, true
}

// Put stores result under key and evicts the oldest entries beyond
// MaxEntries
func (c *Cache) Put(ctx context.Context, key string, result model.TranslationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	switch {
	case errors.Is(err, errCorrupt):
		// A blob that cannot be decoded is replaced rather than merged into
		entries = make(map[string]Entry)
	case err != nil:
		return
	}

	var seq uint64
	for _, e := range entries {
		if e.Seq > seq {
			seq = e.Seq
		}
	}

	entries[key] = Entry{
		Timestamp: c.now(),
		Seq:       seq + 1,
		Data:      result,
	}

	if len(entries) > MaxEntries {
		evict(entries, MaxEntries)
	}

	c.save(ctx, entries)
}

// Clear removes every entry
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, StorageKey); err != nil {
		c.logger.Warn("Failed to clear translation cache", zap.Error(err))
	}
}

// Stats reports the number of entries and the blob size
func (c *Cache) Stats(ctx context.Context) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("Failed to read translation cache", zap.Error(err))
		}
		return Stats{}
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Failed to decode translation cache", zap.Error(err))
		return Stats{SizeBytes: len(data)}
	}
	return Stats{Entries: len(entries), SizeBytes: len(data)}
}

// errCorrupt marks a blob that was read but could not be decoded
var errCorrupt = errors.New("corrupt translation cache")

// load returns the stored entries. A missing blob is an empty map and no
// error; any other failure is logged and also yields an empty map. Decode
// failures wrap errCorrupt.
func (c *Cache) load(ctx context.Context) (map[string]Entry, error) {
	data, err := c.store.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return make(map[string]Entry), nil
	}
	if err != nil {
		c.logger.Warn("Failed to read translation cache", zap.Error(err))
		return make(map[string]Entry), err
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Failed to decode translation cache", zap.Error(err))
		return make(map[string]Entry), fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return entries, nil
}

func (c *Cache) save(ctx context.Context, entries map[string]Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("Failed to encode translation cache", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, StorageKey, data); err != nil {
		c.logger.Warn("Failed to write translation cache", zap.Error(err))
	}
}

// evict keeps the keep newest entries by (timestamp, seq)
func evict(entries map[string]Entry, keep int) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := entries[keys[i]], entries[keys[j]]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.Seq < b.Seq
	})

	for _, k := range keys[:len(keys)-keep] {
		delete(entries, k)
	}
}
