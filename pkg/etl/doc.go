// Package etl is the ETL driver: it coordinates the discover,
// extract_records, extract_pds3, transform_pds3 and transform_records
// phases over a selection of collections, without keeping any state of
// its own. Phase idempotence comes entirely from the storage layer
// (pkg/store/filestore, pkg/store/registry) and the STAC transformer
// (pkg/stac); the driver only sequences calls into them and aggregates
// per-collection failures into a per-phase summary.
//
// Collections are independent and share nothing mutable, so every phase
// except discover fans out across collections with a bounded worker
// pool; only the fetcher itself is concurrent within a single
// collection's downloads.
package etl
