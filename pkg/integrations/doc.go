// Package integrations provides the shared HTTP client used to talk to the
// two upstream systems the crawler pulls from: the ODE JSON search API and
// the PDS3 archive website.
//
// # Overview
//
// Both upstreams are fetched through the same [Client]:
//
//   - [pkg/ode] uses [Client.Get] against the ODE REST endpoint, which returns
//     JSON.
//   - [pkg/website] uses [Client.GetText] against archive index pages, which
//     return HTML to be anchor-scraped.
//
// # Client Pattern
//
//	cache, err := integrations.NewCacheWithNamespace("ode:", 24*time.Hour)
//	client := integrations.NewClient(cache, 24*time.Hour, nil)
//	var page odeSearchResponse
//	err = client.Get(ctx, url, &page)
//
// Clients handle:
//   - HTTP requests whose transient failures (transport errors, 5xx, 429)
//     are marked retryable; [Client.Cached] retries them, while Get and
//     GetText make a single attempt
//   - Response caching (file-based, configurable TTL)
//   - Status-code classification matching the error handling design's
//     transient/permanent split
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by both upstream
// clients, including HTTP response caching via [httputil.Cache].
//
// [pkg/ode]: github.com/pdssp/pds-crawler/pkg/ode
// [pkg/website]: github.com/pdssp/pds-crawler/pkg/website
// [httputil.Cache]: github.com/pdssp/pds-crawler/pkg/httputil.Cache
package integrations
