// Package dag provides the structural validator for STAC trees built by
// [pkg/stac].
//
// # Overview
//
// The STAC catalog produced by pds-crawler is a strict tree (root,
// mission, instrument host, instrument, collection, item) where every edge connects
// a node to its direct child one level down. This package models that
// tree as a graph with nodes organized into rows (depths); edges may
// only connect nodes in consecutive rows (From.Row+1 == To.Row).
// [pkg/stac] builds one DAG per catalog from the tree it is about to
// write, and calls [DAG.Validate] to enforce those invariants before any
// STAC JSON document is materialized.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges
// with [DAG.AddEdge]. Nodes must have unique IDs, and edges can only
// connect existing nodes:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "mars", Row: 1})
//	g.AddNode(dag.Node{ID: "mgs", Row: 2})
//	g.AddEdge(dag.Edge{From: "mars", To: "mgs"})
//	if err := g.Validate(); err != nil {
//		// a node skips a row, or the tree contains a cycle
//	}
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
