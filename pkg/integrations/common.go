package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/pdssp/pds-crawler/pkg/httputil"
)

// httpTimeout is the default timeout for all HTTP requests made against the
// ODE search API and the PDS3 website archive.
const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when an upstream resource doesn't exist.
	// This corresponds to HTTP 404 responses.
	// Callers should check with errors.Is(err, integrations.ErrNotFound).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	// This error may be wrapped with [httputil.RetryableError] for 5xx status codes,
	// matching the "transient I/O" category of the error handling design.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
// The returned client has a 30-second timeout applied to all requests, wide enough
// to cover the ODE search API's larger result pages.
//
// The client is safe for concurrent use by multiple goroutines.
// Returns a new client on every call; clients are not pooled.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based cache with the given TTL in the default cache directory.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

// NewCacheWithNamespace creates a namespaced cache for a specific upstream
// (e.g. "ode:", "website:"). The namespace is prefixed to every cache key,
// preventing collisions between the ODE client's and the website client's
// caches when both share one cache directory:
//
//	cache, err := integrations.NewCacheWithNamespace("ode:", 24*time.Hour)
//	client := integrations.NewClient(cache, 24*time.Hour, nil)
func NewCacheWithNamespace(namespace string, ttl time.Duration) (*httputil.Cache, error) {
	cache, err := httputil.NewCache("", ttl)
	if err != nil {
		return nil, err
	}
	return cache.Namespace(namespace), nil
}
