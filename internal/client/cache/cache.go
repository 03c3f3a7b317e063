// Package cache holds the in-memory, date-keyed view of one owner's journal
// entries. It is a read cache of the remote store, never an independent
// source of truth: the Sync Engine is its only writer, and every mutation
// mirrors an already-acknowledged remote operation.
package cache

import (
	"errors"
	"sort"
	"sync"

	"github.com/harshal4412/ephemeral/internal/client/models"
)

// ErrForeignEntry is returned when an entry scoped to a different owner is
// pushed into the cache. Reaching this condition is a programming error in
// the caller, not a recoverable state.
var ErrForeignEntry = errors.New("entry owned by another identity")

// EntryCache maps calendar-day keys to entries for exactly one owner, or is
// empty when nobody is authenticated. All operations are synchronous; no
// remote calls happen here.
type EntryCache struct {
	mu      sync.RWMutex
	owner   string
	entries map[string]models.Entry
}

func New() *EntryCache {
	return &EntryCache{entries: make(map[string]models.Entry)}
}

// Replace rebuilds the whole mapping from a fresh fetch for owner. Entries
// not owned by owner are rejected wholesale, leaving the cache unchanged.
func (c *EntryCache) Replace(owner string, entries []models.Entry) error {
	m := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		if e.Owner != owner {
			return ErrForeignEntry
		}
		m[e.Date] = e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = owner
	c.entries = m
	return nil
}

// Get returns the entry for a calendar day, if present.
func (c *EntryCache) Get(date string) (models.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[date]
	return e, ok
}

// Put inserts or replaces the entry for its date. The entry must belong to
// the cache's current owner; an unscoped cache (owner "", e.g. after a
// login whose initial fetch failed) adopts the entry's owner, so an
// acknowledged save is never dropped on the floor.
func (c *EntryCache) Put(e models.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == "" && e.Owner != "" {
		c.owner = e.Owner
	}
	if e.Owner != c.owner {
		return ErrForeignEntry
	}
	c.entries[e.Date] = e
	return nil
}

// Remove deletes the entry for a calendar day. Removing an absent day is a
// no-op.
func (c *EntryCache) Remove(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, date)
}

// Clear empties the mapping and drops the owner scope.
func (c *EntryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = ""
	c.entries = make(map[string]models.Entry)
}

// Owner returns the identity id the cache is currently scoped to, or "".
func (c *EntryCache) Owner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Len returns the number of cached entries.
func (c *EntryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// All returns the cached entries ordered by date ascending.
func (c *EntryCache) All() []models.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
