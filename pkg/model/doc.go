// Package model defines the typed domain objects shared by the ODE
// extractor, the PDS3 parser, and the STAC transformer: collection
// descriptors, records, and STAC tree documents. All types round-trip
// through JSON for on-disk storage and testing.
package model
