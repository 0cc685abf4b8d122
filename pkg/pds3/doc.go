// Package pds3 parses PDS3 ODL-like catalog files — mission, instrument,
// instrument host, data set, data-set map projection, personnel,
// reference, and volume descriptor — into typed variants.
//
// # Grammar
//
// Every catalog file shares one property sub-grammar (grammar_common.go):
// `KEY = VALUE` pairs where VALUE is a quoted string, a date, a bareword, a
// number, or a parenthesized/braced multi-value list, with `/* ... */`
// comments ignored. [ParseObjectTree] turns a file's bytes into a generic
// [Object] tree without knowing which of the eight kinds it is; each
// variant file (mission.go, instrument.go, ...) then validates that tree
// against its required sub-objects and projects it into a typed struct.
//
// # Dispatch
//
// [Factory] maps a filename heuristic, and on failure the root `OBJECT =`
// name, to the grammar to apply, trying candidates in a fixed order and
// returning the first success — mirroring how a registry of parsers
// dispatches on a file's declared kind rather than its extension alone.
package pds3
