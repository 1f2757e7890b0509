// Package store keeps per-session state: carts and checkout flows.
// Nothing stored here outlives its TTL; it is never a system of record.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Put(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}

// Memory holds JSON encoded values so callers never share state with the store.
// Like Redis, every Put refreshes the entry's TTL; a zero TTL keeps entries
// until deleted. Expired entries read as missing and are swept on Put.
type Memory[T any] struct {
	mu        sync.RWMutex
	data      map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func NewMemory[T any](ttl time.Duration) *Memory[T] {
	return &Memory[T]{data: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *Memory[T]) Get(_ context.Context, key string) (T, bool, error) {
	var value T
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || e.expired(m.now()) {
		return value, false, nil
	}
	if err := json.Unmarshal(e.raw, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %s", key)
	}
	return value, true, nil
}

func (m *Memory[T]) Put(_ context.Context, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	now := m.now()
	e := memoryEntry{raw: raw}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.sweep(now)
	m.mu.Unlock()
	return nil
}

// sweep drops expired entries, at most once per TTL. Callers hold mu.
func (m *Memory[T]) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl {
		return
	}
	m.lastSweep = now
	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
		}
	}
}

func (m *Memory[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Len counts stored entries, including expired ones not yet swept.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
