// Package stac builds the STAC tree: root catalog, one catalog per
// mission/instrument-host/instrument, one collection per data set, and
// one item per record. Catalogs shared by multiple collections (every
// level above the leaf collection) are deduplicated under a single
// root-level tree; the leaf collection and its items live under the
// collection's own directory in the file store.
//
// Two entry points mirror the extractor pair: [Transformer.TransformRecords]
// projects ODE records into items and a descriptor-only collection
// catalog, while [Transformer.TransformPDS3] folds in the parsed PDS3
// catalog objects for the richer mission/host/instrument/collection
// metadata. Both are safe to run in either order, any number of times:
// every write recomputes the document from its current inputs rather
// than patching the previous one in place.
package stac
