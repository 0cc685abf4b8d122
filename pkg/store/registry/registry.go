// Package registry implements the registry store: a keyed table of
// collection descriptors addressable by collection fingerprint, with a
// local file-backed implementation and an optional shared MongoDB-backed
// one behind the same interface.
package registry

import (
	"context"
	"iter"

	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/model"
)

// Store is the registry store contract from the storage layer design:
// create-or-replace writes, and a lazy sequence read optionally filtered
// by target body. Implementations must tolerate concurrent readers and a
// single writer.
type Store interface {
	// Put inserts or replaces the descriptor for fp.
	Put(ctx context.Context, fp fingerprint.Fingerprint, descriptor model.CollectionDescriptor) error

	// Get returns the descriptor for fp, or ok=false if absent.
	Get(ctx context.Context, fp fingerprint.Fingerprint) (model.CollectionDescriptor, bool, error)

	// All returns a lazy sequence over every stored (fingerprint,
	// descriptor) pair, optionally filtered by target body. An empty
	// target matches every descriptor.
	All(ctx context.Context, target string) iter.Seq2[fingerprint.Fingerprint, model.CollectionDescriptor]

	// Close releases any resources (file locks, network connections)
	// held by the store.
	Close() error
}
