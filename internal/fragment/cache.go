package fragment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a read-through cache over a Source. Each fragment is loaded from
// the source at most once per Cache; the content is immutable afterwards.
type Cache struct {
	src Source
	log *slog.Logger

	mu      sync.RWMutex
	entries map[Name]string

	group singleflight.Group
	loads atomic.Int64

	// LoadTimeout bounds one shared source read.
	LoadTimeout time.Duration
}

// DefaultLoadTimeout is the LoadTimeout set by NewCache.
const DefaultLoadTimeout = 30 * time.Second

// NewCache wraps src. A nil logger discards log output.
func NewCache(src Source, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		src:         src,
		log:         log,
		entries:     make(map[Name]string, len(Required)),
		LoadTimeout: DefaultLoadTimeout,
	}
}

// Load returns the content of the named fragment, reading it from the source
// on first use. Concurrent first calls for the same name share one read.
//
// The shared read is detached from any single caller: a caller whose ctx ends
// gets ctx.Err() while the read continues for the others, bounded by
// LoadTimeout. Context errors are returned as is, never as
// FragmentMissingError.
func (c *Cache) Load(ctx context.Context, name Name) (string, error) {
	if !Known(name) {
		return "", &FragmentMissingError{Name: name, Err: errors.New("unknown fragment name")}
	}
	if v, ok := c.cached(name); ok {
		return v, nil
	}

	ch := c.group.DoChan(string(name), func() (any, error) {
		// A flight that finished between the check above and DoChan already
		// populated the entry.
		if v, ok := c.cached(name); ok {
			return v, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.LoadTimeout)
		defer cancel()

		c.loads.Add(1)
		data, err := c.src.Load(loadCtx, name)
		if err != nil {
			var missing *FragmentMissingError
			switch {
			case errors.As(err, &missing):
				return nil, err
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				c.log.Warn("fragment load interrupted", "name", name, "error", err)
				return nil, fmt.Errorf("load fragment %q: %w", name, err)
			}
			return nil, &FragmentMissingError{Name: name, Err: err}
		}
		content := string(data)

		c.mu.Lock()
		c.entries[name] = content
		c.mu.Unlock()

		c.log.Debug("fragment loaded", "name", name, "bytes", len(content))
		return content, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Warm loads every required fragment and reports all failures together.
func (c *Cache) Warm(ctx context.Context) error {
	var errs []error
	for _, name := range Required {
		if _, err := c.Load(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Loads returns how many source reads the cache has performed.
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}

func (c *Cache) cached(name Name) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[name]
	return v, ok
}
