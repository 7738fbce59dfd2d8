package services

import (
	"sync"
	"time"

	"bluewud/internal/models"
)

// DefaultCartCacheTTL is how long a fetched cart is served without
// consulting the cart service again.
const DefaultCartCacheTTL = 5 * time.Second

type cartCacheEntry struct {
	cart      models.Cart
	fetchedAt time.Time
}

// CartCache is a short-lived per-owner cart cache. Each CartService carries
// its own instance, so independent services (and tests) never share state.
// It only short-circuits repeated reads; it is not a lock and provides no
// conflict detection between concurrent writers.
type CartCache struct {
	mu      sync.Mutex
	entries map[string]cartCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCartCache creates a cache with the given TTL. A non-positive TTL falls
// back to DefaultCartCacheTTL.
func NewCartCache(ttl time.Duration) *CartCache {
	if ttl <= 0 {
		ttl = DefaultCartCacheTTL
	}
	return &CartCache{
		entries: make(map[string]cartCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached cart for the owner if it is still fresh.
func (c *CartCache) Get(ownerID string) (*models.Cart, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ownerID]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	cart := entry.cart
	return &cart, true
}

// Set stores the cart for the owner, stamping it with the current time.
func (c *CartCache) Set(ownerID string, cart models.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ownerID] = cartCacheEntry{cart: cart, fetchedAt: c.now()}
}

// Invalidate drops the cached cart for the owner so the next read refetches
// canonical state.
func (c *CartCache) Invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, ownerID)
}
