package leaderboard

import (
	"context"
	"sync"
)

// Cached wraps a store and remembers the last successful ranked list per
// board. When a fetch fails the remembered list is served instead, so a
// flaky remote still shows something.
type Cached struct {
	Store

	mu    sync.Mutex
	lists map[string][]Entry
	stale map[string]bool
}

var _ Store = (*Cached)(nil)

// NewCached wraps s.
func NewCached(s Store) *Cached {
	return &Cached{
		Store: s,
		lists: make(map[string][]Entry),
		stale: make(map[string]bool),
	}
}

// FetchRanked fetches from the wrapped store, falling back to the last good
// list for the board. The error is returned only when there is nothing cached.
func (c *Cached) FetchRanked(ctx context.Context, board string, limit int) ([]Entry, error) {
	entries, err := c.Store.FetchRanked(ctx, board, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.lists[board] = append([]Entry(nil), entries...)
		c.stale[board] = false
		return entries, nil
	}

	cached, ok := c.lists[board]
	if !ok {
		return nil, err
	}
	c.stale[board] = true
	out := append([]Entry(nil), cached...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Submit forwards to the wrapped store. A successful submit is merged into
// the cached list so a later fallback includes it.
func (c *Cached) Submit(ctx context.Context, e Entry) (Entry, error) {
	stored, err := c.Store.Submit(ctx, e)
	if err != nil {
		return stored, err
	}

	c.mu.Lock()
	if list, ok := c.lists[stored.Board]; ok {
		c.lists[stored.Board] = Rank(append(list, stored), 0)
	}
	c.mu.Unlock()
	return stored, nil
}

// Stale reports whether the last fetch for board was served from the cache.
func (c *Cached) Stale(board string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale[board]
}
