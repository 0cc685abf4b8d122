// Package ode implements the ODE extractor: discovery of collection
// descriptors from the ODE JSON search service, and paginated extraction
// of a collection's records into the file store.
//
// # Overview
//
// [Discover] queries the discovery endpoint (`iipt` query style) and
// writes every georeferenced descriptor through to the registry store,
// returning a lazy sequence over them. [ExtractRecords] computes a
// collection's page count from its descriptor, enumerates the pages
// missing from the file store, and fetches each through [pkg/httpfetch].
//
// [pkg/httpfetch]: github.com/pdssp/pds-crawler/pkg/httpfetch
package ode
