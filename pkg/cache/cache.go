package cache

import (
	"context"
	"time"
)

// Cache is the storage contract used by the HTTP fetcher and the ODE/website
// extractors to dedupe work across cooperating processes. It stores opaque
// byte payloads (JSON pages, rendered HTML) keyed by strings produced by a
// Keyer, with optional expiration.
type Cache interface {
	// Get retrieves a value. The bool is false on a cache miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources (connections, file handles) held by the cache.
	Close() error
}

// Keyer builds cache keys for the distinct things the pipeline caches.
// Centralizing key construction keeps the on-disk/on-wire key format
// consistent between the local FileCache and the optional Redis-backed
// cache so that either backend can be swapped in without reshaping keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body by namespace (host) and the
	// request's cache-relevant signature (method, URL, relevant headers).
	HTTPKey(namespace, key string) string

	// PageKey keys a fetched-and-parsed ODE record page by collection
	// fingerprint and page index, used to short-circuit re-fetching a page
	// a cooperating crawler process has already retrieved.
	PageKey(fingerprint string, page int) string

	// DescriptorKey keys a discovered collection descriptor by its
	// fingerprint, used to avoid re-requesting the same ODE search result.
	DescriptorKey(fingerprint string) string
}

// DefaultKeyer is the Keyer used when no scoping is required: a single
// crawler process or a shared cache where all keys may collide freely.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default, unscoped Keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PageKey generates a key for record page caching.
func (k *DefaultKeyer) PageKey(fingerprint string, page int) string {
	return hashKey("page:"+fingerprint, page)
}

// DescriptorKey generates a key for collection descriptor caching.
func (k *DefaultKeyer) DescriptorKey(fingerprint string) string {
	return hashKey("descriptor", fingerprint)
}
