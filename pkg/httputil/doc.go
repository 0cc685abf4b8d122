// Package httputil provides HTTP utilities for the ODE and website clients.
//
// # Overview
//
// This package provides infrastructure shared by the upstream API clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/pds-crawler/)
// with configurable TTL. This avoids re-requesting an ODE search result or
// website index page that has already been fetched this run.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, err := cache.Get("ode:MGS-M-MOLA-3-PEDR-L1A-V1.0", &page)  // Check cache
//	if !ok {
//	    page = fetchFromODE()
//	    cache.Set("ode:MGS-M-MOLA-3-PEDR-L1A-V1.0", page)         // Store for later
//	}
//
// Cache keys should be namespaced by upstream (via [Cache.Namespace]) to
// avoid collisions between the ODE client and the website client.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures,
// matching the error handling design's "transient I/O" category:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid hammering the upstream:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    return nil
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/pds-crawler/
//   - TTL: no default; the caller passes it to NewCache
//   - Attempts: 3 in total (RetryWithBackoff)
//   - Base backoff: 1 second
package httputil
