// Package website implements the website extractor: given a collection's
// descriptor (and, when the descriptor carries no volume identifier, one
// of its already-fetched records), it composes the PDS3 archive's
// volume-index URL, fetches the HTML page, and downloads every anchor
// whose link text matches one of the eight PDS3 catalog object kinds
// into the collection's pds3/ directory.
//
// Anchor matching is case-insensitive and first-match-wins per catalog
// kind; anchors that don't match the roster are ignored.
package website
