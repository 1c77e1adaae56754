// Package local provides in-process cache and pub/sub drivers used when no
// Redis address is configured.
package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type item struct {
	value    string
	deadline time.Time // zero means no expiry
}

func (it item) live(now time.Time) bool {
	return it.deadline.IsZero() || now.Before(it.deadline)
}

// LocalCache is a mutex-guarded KV map with TTL support. Expired items are
// dropped on access and swept periodically.
type LocalCache struct {
	mu    sync.RWMutex
	items map[string]item
	quit  chan struct{}
}

// NewCache creates a LocalCache and starts its sweep goroutine.
func NewCache(cfg Config) (*LocalCache, error) {
	every := cfg.GCInterval
	if every <= 0 {
		every = 30 * time.Second
	}
	c := &LocalCache{
		items: map[string]item{},
		quit:  make(chan struct{}),
	}
	go c.sweep(every)
	return c, nil
}

// Close stops the sweep goroutine.
func (c *LocalCache) Close() {
	close(c.quit)
}

func (c *LocalCache) sweep(every time.Duration) {
	tk := time.NewTicker(every)
	defer tk.Stop()
	for {
		select {
		case now := <-tk.C:
			c.mu.Lock()
			for k, it := range c.items {
				if !it.live(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.quit:
			return
		}
	}
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !it.live(time.Now()) {
		return "", ErrNotFound
	}
	return it.value, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	it := item{value: value}
	if ttl > 0 {
		it.deadline = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	return ok && it.live(time.Now()), nil
}

func (c *LocalCache) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[key]; ok && it.live(time.Now()) {
		return false, nil
	}
	it := item{value: value}
	if ttl > 0 {
		it.deadline = time.Now().Add(ttl)
	}
	c.items[key] = it
	return true, nil
}

func (c *LocalCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[key]
	if !ok || !it.live(time.Now()) {
		delete(c.items, key)
		return ErrNotFound
	}
	it.deadline = time.Now().Add(ttl)
	c.items[key] = it
	return nil
}
