package events

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// CachedSource serves a copy of src's events for ttl before fetching again.
// A failed refresh is returned to the caller; the old copy is not served stale.
type CachedSource struct {
	src   Source
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	list    []Event
	fetched time.Time
}

func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{src: src, ttl: ttl, clock: clockwork.NewRealClock()}
}

func (c *CachedSource) Fetch(ctx context.Context) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.list != nil && c.clock.Since(c.fetched) < c.ttl {
		return c.list, nil
	}
	list, err := c.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.list, c.fetched = list, c.clock.Now()
	log.Debug().Int("events", len(list)).Msg("events cache refreshed")
	return list, nil
}

// Invalidate drops the cached copy.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
}
