package semtag

import (
	"github.com/tsawler/semtag/model"
	"github.com/tsawler/semtag/semantic"
	"github.com/tsawler/semtag/tables"
)

// Result is the outcome of one check run. The tree has already been
// re-typed in place; the other fields describe what the run found.
type Result struct {
	// RunID identifies the run in logs
	RunID string

	Tree   *model.Tree
	Mapper *semantic.Mapper

	// Tables are the recognized tables in document order. TableRoots and
	// TableNodes are parallel to Tables; a root is NoNode when the table
	// could not be placed in the tree.
	Tables     []*tables.Table
	TableRoots []model.NodeID
	TableNodes []tables.TableNodes

	Stats Stats
}

// Stats summarizes a check run
type Stats struct {
	semantic.Stats

	// Changed is the number of nodes whose type or score accumulation set
	Changed int

	Tables int

	// Types counts the nodes of each final type, TypeNone included
	Types map[model.SemanticType]int
}

// Count returns the number of nodes with final type t
func (r *Result) Count(t model.SemanticType) int {
	return r.Stats.Types[t]
}

// NodesOfType returns the IDs of nodes with final type t in document order
func (r *Result) NodesOfType(t model.SemanticType) []model.NodeID {
	var ids []model.NodeID
	for _, id := range r.Tree.PreOrder() {
		if r.Tree.Node(id).Type == t {
			ids = append(ids, id)
		}
	}
	return ids
}

func collectStats(tree *model.Tree, s semantic.Stats, changed, tableCount int) Stats {
	stats := Stats{
		Stats:   s,
		Changed: changed,
		Tables:  tableCount,
		Types:   make(map[model.SemanticType]int),
	}
	for _, id := range tree.PreOrder() {
		stats.Types[tree.Node(id).Type]++
	}
	return stats
}
