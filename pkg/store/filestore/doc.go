// Package filestore implements the file store: the on-disk directory
// hierarchy `target/mission/host/instrument/dataset_id/{records|pds3|stac}/…`
// where each collection directory is self-contained and independently
// re-buildable. Every write is atomic (temp file, then rename), so a
// crash never leaves a partial page or catalog document behind.
package filestore
