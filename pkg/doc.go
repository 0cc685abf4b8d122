// Package pkg provides the core libraries for pds-crawler, a planetary
// data ETL pipeline.
//
// # Overview
//
// pds-crawler discovers PDS3 planetary-science data collections through
// NASA's ODE search API, downloads each collection's paginated record
// listing and its PDS3 catalog files from the browsable archive website,
// parses those catalog files with a grammar-driven PDS3 parser, and
// assembles the result into a STAC (SpatioTemporal Asset Catalog) tree on
// local storage. The pkg directory contains reusable libraries organized
// by pipeline stage:
//
//  1. Discovery and extraction ([ode], [website], [httpfetch])
//  2. Parsing ([pds3], [model])
//  3. Catalog assembly ([stac], [dag])
//  4. Storage ([store/filestore], [store/registry])
//  5. Orchestration ([etl], [status])
//
// # Architecture
//
// The typical data flow through pds-crawler:
//
//	ODE search API
//	     ↓
//	[ode] package (discover collections, extract record pages)
//	     ↓
//	[website] package (scrape PDS3 catalog file links)
//	     ↓
//	[pds3] package (parse catalog files into typed objects)
//	     ↓
//	[stac] package (build/merge the STAC tree)
//	     ↓
//	[store/filestore] package (atomic on-disk STAC + cache layout)
//
// [etl.Driver] coordinates the phases above; [store/registry] tracks which
// collections have been discovered across runs.
//
// # Main packages
//
// [ode] - ODE search API client: paginated collection discovery and
// per-collection record extraction, filtered to georeferenced products.
//
// [website] - Archive website scraper: resolves a collection's directory
// listing and extracts links to its PDS3 catalog files by filename
// roster, case-insensitively.
//
// [httpfetch] - Bounded-concurrency HTTP fetcher shared by [ode] and
// [website], with per-host fair scheduling and retry via [httputil].
//
// [pds3] - Grammar-driven parser for PDS3 catalog files (mission,
// instrument, instrument_host, data_set, data_set_map_projection,
// personnel, reference, volume_descriptor), dispatched by filename with
// a fallback to the root OBJECT name.
//
// [model] - Typed projections of ODE records and parsed PDS3 objects,
// with canonical JSON encoding.
//
// [stac] - Builds and idempotently merges the six-level STAC tree (root,
// mission, host, instrument, collection, item) on top of [dag].
//
// [dag] - Directed acyclic graph optimized for row-based layered trees;
// used by [stac] to validate catalog structure before it is written.
//
// [store/filestore] - Atomic, layout-aware storage for record pages,
// PDS3 catalog files, and the STAC tree.
//
// [store/registry] - Tracks discovered collection fingerprints across
// runs, backed by a local file store or an optional shared MongoDB store.
//
// [etl] - Orchestrates discover/extract/transform phases across
// collections with bounded concurrency, writing a per-phase summary.
//
// [status] - Optional HTTP endpoint exposing the driver's current phase
// and progress for operators.
//
// [cache] - Fetched-page dedup cache, backed by the local filesystem or
// an optional shared Redis instance.
//
// [errors] - Error taxonomy distinguishing transient/permanent I/O,
// malformed upstream data, parse failures, and storage errors.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...      # All tests
//	go test ./pkg/stac/... # Specific package
//
// [ode]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/ode
// [website]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/website
// [httpfetch]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/httpfetch
// [pds3]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/pds3
// [model]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/model
// [stac]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/stac
// [dag]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/dag
// [store/filestore]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/store/filestore
// [store/registry]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/store/registry
// [etl]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/etl
// [status]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/status
// [cache]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/cache
// [errors]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/pdssp/pds-crawler/pkg/httputil
package pkg
