package etl

import "github.com/pdssp/pds-crawler/pkg/fingerprint"

// Selector picks which collections a phase acts on: every registered
// collection, a single one by dataset id (the CLI's --dataset_id flag),
// or the first N encountered ("sample-limited"). The CLI's --sample flag
// is a per-collection page limit, not a Selector.
type Selector struct {
	datasetID string
	limit     int
}

// SelectAll selects every collection in the registry.
func SelectAll() Selector { return Selector{} }

// SelectDatasetID selects only the collection with the given dataset id.
func SelectDatasetID(id string) Selector { return Selector{datasetID: id} }

// SelectSample selects at most n collections, in registry iteration
// order. A non-positive n is treated as unlimited.
func SelectSample(n int) Selector { return Selector{limit: n} }

// matches reports whether fp is in scope, given how many collections
// have already been accepted this run.
func (s Selector) matches(fp fingerprint.Fingerprint, accepted int) bool {
	if s.datasetID != "" && fp.DatasetID != s.datasetID {
		return false
	}
	if s.limit > 0 && accepted >= s.limit {
		return false
	}
	return true
}
