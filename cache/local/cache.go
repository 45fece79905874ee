package local

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a key or field does not exist.
var ErrNotFound = errors.New("local cache: not found")

// ZEntry is one scored member of a sorted set.
type ZEntry struct {
	Member string
	Score  float64
}

type kvEntry struct {
	value    string
	expireAt time.Time // zero means no expiry
}

// Cache is an in-process cache used when no Redis address is configured.
// Single server deployments and tests run against it.
type Cache struct {
	mu     sync.RWMutex
	kv     map[string]kvEntry
	hashes map[string]map[string]string
	zsets  map[string]map[string]float64
}

func NewCache() *Cache {
	return &Cache{
		kv:     make(map[string]kvEntry),
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
	}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.kv[key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if !e.expireAt.IsZero() && time.Now().After(e.expireAt) {
		c.mu.Lock()
		delete(c.kv, key)
		c.mu.Unlock()
		return "", ErrNotFound
	}
	return e.value, nil
}

func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := kvEntry{value: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.kv[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.kv, k)
		delete(c.hashes, k)
		delete(c.zsets, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *Cache) HSet(_ context.Context, key, field, value string) error {
	c.mu.Lock()
	h, ok := c.hashes[key]
	if !ok {
		h = make(map[string]string)
		c.hashes[key] = h
	}
	h[field] = value
	c.mu.Unlock()
	return nil
}

func (c *Cache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(h))
	for f, v := range h {
		out[f] = v
	}
	return out, nil
}

func (c *Cache) ZAdd(_ context.Context, key string, score float64, member string) error {
	c.mu.Lock()
	z, ok := c.zsets[key]
	if !ok {
		z = make(map[string]float64)
		c.zsets[key] = z
	}
	z[member] = score
	c.mu.Unlock()
	return nil
}

// ZRevRangeWithScores returns members ordered by score descending.
// Members with equal scores sort lexically, matching Redis behavior
// closely enough for leaderboard display.
func (c *Cache) ZRevRangeWithScores(_ context.Context, key string, start, stop int64) ([]ZEntry, error) {
	c.mu.RLock()
	z, ok := c.zsets[key]
	entries := make([]ZEntry, 0, len(z))
	for m, s := range z {
		entries = append(entries, ZEntry{Member: m, Score: s})
	}
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Member < entries[j].Member
	})

	n := int64(len(entries))
	if start < 0 {
		start = n + start
	}
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = 0
	}
	if start >= n || stop < start {
		return nil, nil
	}
	if stop >= n {
		stop = n - 1
	}
	return entries[start : stop+1], nil
}
