package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgaunet/bullets"
	"github.com/sgaunet/release-toolbox/internal/logger"
)

type cacheEntry struct {
	meta IssueMetadata
	err  error
}

// Cache memoizes a Source for the duration of a run. Successful lookups and
// ErrUnresolvable results are both remembered so each id reaches the forge at
// most once. Other errors are not cached. Cache is not safe for concurrent use.
type Cache struct {
	source  Source
	entries map[int]cacheEntry
	log     *bullets.Logger
}

// NewCache wraps source.
func NewCache(source Source) *Cache {
	return &Cache{
		source:  source,
		entries: make(map[int]cacheEntry),
		log:     logger.NoLogger(),
	}
}

// SetLogger sets the logger for the cache.
func (c *Cache) SetLogger(log *bullets.Logger) {
	c.log = log
}

// Fetch returns the metadata for id, hitting the underlying source only on the
// first call for that id.
func (c *Cache) Fetch(ctx context.Context, id int) (IssueMetadata, error) {
	if e, ok := c.entries[id]; ok {
		c.log.Debug(fmt.Sprintf("Metadata cache hit for #%d", id))
		return e.meta, e.err
	}

	meta, err := c.source.Fetch(ctx, id)
	switch {
	case err == nil:
		c.entries[id] = cacheEntry{meta: meta}
	case errors.Is(err, errUnresolvable):
		c.entries[id] = cacheEntry{err: err}
	default:
		return IssueMetadata{}, fmt.Errorf("failed to fetch metadata for #%d: %w", id, err)
	}

	return meta, err
}

// Len returns the number of memoized ids.
func (c *Cache) Len() int {
	return len(c.entries)
}

var _ Source = (*Cache)(nil)
