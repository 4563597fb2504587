// Package fcache caches forecast payloads keyed by request parameters.
// Entries carry the fetch time and the final forecast timestamp so the
// client can force a refresh as a forecast window ages toward its boundary.
package fcache

import (
	"context"
	"sync"
	"time"
)

// Entry is a cached forecast payload with staleness metadata.
type Entry struct {
	Payload      []byte    `json:"payload"`
	FetchedAt    time.Time `json:"fetched_at"`
	LastForecast time.Time `json:"last_forecast"`
}

// NearHorizon reports whether now is within margin of the entry's last
// forecast point. Such entries must be refreshed even inside the TTL.
func (e Entry) NearHorizon(now time.Time, margin time.Duration) bool {
	if e.LastForecast.IsZero() {
		return false
	}
	return now.After(e.LastForecast.Add(-margin))
}

// Store is the forecast cache backend interface.
// Get returns the entry and true on a fresh hit; Set replaces the entry
// wholesale with the given TTL; Clear drops everything.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Memory implements Store with a mutex-guarded map. Entries are replaced
// atomically on Set and evicted on access once their TTL elapses. Concurrent
// refetches for the same key are not de-duplicated; last write wins.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]memEntry),
		now:  time.Now,
	}
}

// Get returns the entry for key if present and not expired. Expired entries
// are removed on access.
func (m *Memory) Get(ctx context.Context, key string) (Entry, bool, error) {
	if ctx.Err() != nil {
		return Entry{}, false, ctx.Err()
	}
	m.mu.RLock()
	me, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return Entry{}, false, nil
	}
	if m.now().After(me.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if cur, ok := m.data[key]; ok && cur.expiresAt.Equal(me.expiresAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return Entry{}, false, nil
	}
	return me.entry, true, nil
}

// Set stores the entry, replacing any previous one, expiring after ttl.
func (m *Memory) Set(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	m.data[key] = memEntry{entry: e, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	m.data = make(map[string]memEntry)
	m.mu.Unlock()
	return nil
}
