package stac

import (
	"fmt"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/dag"
	"github.com/pdssp/pds-crawler/pkg/model"
)

// TreeNode is one catalog plus the row it occupies, as built by the
// transformer while walking the tree top-down.
type TreeNode struct {
	ID       string
	Row      int
	Children []string // child node IDs, matching the catalog's own child links
}

// ValidateStructure checks the STAC tree invariants that don't depend on
// items: every edge connects consecutive rows, every linked child
// exists, and the graph has no cycles. It adapts the teacher's row-based
// DAG validator directly, since the five-level STAC tree (root, mission,
// host, instrument, collection) is exactly dag's layered-graph shape.
func ValidateStructure(nodes []TreeNode) error {
	g := dag.New()
	for _, n := range nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Row: n.Row}); err != nil {
			return pdserrors.Wrap(pdserrors.ErrCodeInvariant, err, "adding stac tree node %s", n.ID)
		}
	}
	for _, n := range nodes {
		for _, childID := range n.Children {
			if err := g.AddEdge(dag.Edge{From: n.ID, To: childID}); err != nil {
				return pdserrors.Wrap(pdserrors.ErrCodeInvariant, err, "linking %s -> %s", n.ID, childID)
			}
		}
	}
	if err := g.Validate(); err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeInvariant, err, "stac tree structural check")
	}
	return nil
}

// ValidateItems checks that every item's collection link resolves within
// the known collection and that the collection's extent covers the
// item's own extent, per the "parent extents cover children" invariant.
func ValidateItems(collectionID string, collectionExtent model.Extent, items []model.Item) error {
	for _, it := range items {
		if it.Collection != collectionID {
			return pdserrors.New(pdserrors.ErrCodeInvariant, "item %s references unknown collection %s", it.ID, it.Collection)
		}
		e := model.Extent{StartTime: it.DateTime, StopTime: it.DateTime}
		if e.StartTime.IsZero() {
			continue
		}
		if !collectionExtent.Covers(e) {
			return pdserrors.New(pdserrors.ErrCodeInvariant, "collection %s extent does not cover item %s (%s)", collectionID, it.ID, fmt.Sprint(it.DateTime))
		}
	}
	return nil
}
