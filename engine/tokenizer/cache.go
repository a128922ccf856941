package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Q-Agency/vlm-docling/pkg/logger"
)

const (
	// DefaultCapacity bounds the cache when no capacity is configured.
	DefaultCapacity = 10

	maxModelIDLength = 200
)

// ErrInvalidModelID reports a malformed tokenizer model identifier. The cache
// is never consulted for invalid identifiers.
var ErrInvalidModelID = errors.New("tokenizer: invalid model id")

// LoadError reports a failed tokenizer load. Failed loads are never cached;
// every subsequent Get retries.
type LoadError struct {
	ModelID string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("tokenizer: load %q: %v", e.ModelID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFunc loads a tokenizer handle by model identifier. Loads may hit the
// network; callers should bound Get with their own context deadline.
type LoadFunc func(modelID string) (*Handle, error)

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits     int64
	Misses   int64
	Size     int
	Capacity int
}

// Cache is a bounded, thread-safe LRU of loaded tokenizer handles. Concurrent
// requests for the same uncached model share a single load; requests for
// different models load in parallel. Eviction drops the cache's reference
// only; handles are immutable, so holders of an evicted handle are
// unaffected.
type Cache struct {
	capacity int
	loader   LoadFunc
	entries  *lru.Cache[string, *Handle]
	loads    singleflight.Group
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewCache builds a cache with the given capacity and loader. A non-positive
// capacity falls back to DefaultCapacity; a nil loader falls back to the
// tiktoken-backed Load.
func NewCache(capacity int, loader LoadFunc) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if loader == nil {
		loader = Load
	}
	entries, err := lru.New[string, *Handle](capacity)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: init cache: %w", err)
	}
	return &Cache{capacity: capacity, loader: loader, entries: entries}, nil
}

// Get returns the handle for the given model, loading it on first use.
func (c *Cache) Get(ctx context.Context, modelID string) (*Handle, error) {
	modelID, err := normalizeModelID(modelID)
	if err != nil {
		return nil, err
	}
	if handle, ok := c.entries.Get(modelID); ok {
		c.hits.Add(1)
		return handle, nil
	}
	c.misses.Add(1)
	v, err, _ := c.loads.Do(modelID, func() (any, error) {
		// A load that finished between the lookup above and this point
		// already populated the entry.
		if handle, ok := c.entries.Get(modelID); ok {
			return handle, nil
		}
		logger.FromContext(ctx).Debug("loading tokenizer", "model", modelID)
		handle, loadErr := c.loader(modelID)
		if loadErr != nil {
			return nil, &LoadError{ModelID: modelID, Err: loadErr}
		}
		c.entries.Add(modelID, handle)
		return handle, nil
	})
	if err != nil {
		return nil, err
	}
	handle, ok := v.(*Handle)
	if !ok {
		return nil, fmt.Errorf("tokenizer: unexpected cache value %T", v)
	}
	return handle, nil
}

// Clear drops all cached handles. Hit and miss counters are preserved.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Stats reports hit/miss counters and current occupancy.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Size:     c.entries.Len(),
		Capacity: c.capacity,
	}
}

func normalizeModelID(modelID string) (string, error) {
	trimmed := strings.TrimSpace(modelID)
	if trimmed == "" {
		return "", fmt.Errorf("%w: model id is empty", ErrInvalidModelID)
	}
	if len(trimmed) > maxModelIDLength {
		return "", fmt.Errorf("%w: model id exceeds %d characters", ErrInvalidModelID, maxModelIDLength)
	}
	if hasBoundarySeparator(trimmed) {
		return "", fmt.Errorf("%w: model id %q has a boundary path separator", ErrInvalidModelID, trimmed)
	}
	return trimmed, nil
}

func hasBoundarySeparator(modelID string) bool {
	first, last := modelID[0], modelID[len(modelID)-1]
	return first == '/' || first == '\\' || last == '/' || last == '\\'
}
