package tables

import (
	"io"
	"log/slog"

	"github.com/tsawler/semtag/model"
)

// strength orders table types so projection never weakens a node
func strength(t model.SemanticType) int {
	switch t {
	case model.TypeTableCell:
		return 1
	case model.TypeTableHeader, model.TypeTableRow:
		return 2
	case model.TypeTableHeaders, model.TypeTableBody:
		return 3
	case model.TypeTable:
		return 4
	}
	return 0
}

// Projector writes recognized tables onto a tree. Node depths are computed
// once when the projector is created; the tree must not be restructured
// afterwards.
type Projector struct {
	tree    *model.Tree
	depth   []int
	counter []int
	touched []model.NodeID
	logger  *slog.Logger
}

// NewProjector creates a projector for tree
func NewProjector(tree *model.Tree) *Projector {
	p := &Projector{
		tree:    tree,
		depth:   make([]int, tree.Len()),
		counter: make([]int, tree.Len()),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, id := range tree.PreOrder() {
		if parent := tree.Parent(id); parent != model.NoNode {
			p.depth[id] = p.depth[parent] + 1
		}
	}
	return p
}

// WithLogger sets the logger and returns the projector
func (p *Projector) WithLogger(logger *slog.Logger) *Projector {
	p.logger = logger
	return p
}

// ProjectAll projects every table and returns their roots in order
func (p *Projector) ProjectAll(tables []*Table) []model.NodeID {
	roots := make([]model.NodeID, len(tables))
	for i, table := range tables {
		roots[i] = p.Project(table)
	}
	return roots
}

// Project types the nodes of one table and returns the table root, or NoNode
// when none of its tokens lead back to the tree.
func (p *Projector) Project(table *Table) model.NodeID {
	var headerRows, bodyRows []model.NodeID
	for i := range table.Rows {
		row := &table.Rows[i]
		root := p.projectRow(row, table.ID)
		if root == model.NoNode {
			continue
		}
		if row.Type == model.TypeTableHeaders {
			p.promote(root, model.TypeTableHeader)
			headerRows = append(headerRows, root)
		} else {
			p.promote(root, model.TypeTableRow)
			bodyRows = append(bodyRows, root)
		}
	}

	var groups []model.NodeID
	for _, g := range []struct {
		rows []model.NodeID
		typ  model.SemanticType
	}{
		{headerRows, model.TypeTableHeaders},
		{bodyRows, model.TypeTableBody},
	} {
		root := p.localRoot(g.rows)
		if root == model.NoNode {
			continue
		}
		if !p.tree.Node(root).Type.IsTableType() {
			p.setType(root, g.typ)
		}
		groups = append(groups, root)
	}

	root := p.tableRoot(groups)
	if root != model.NoNode {
		p.setType(root, model.TypeTable)
		p.logger.Debug("table projected", "table", table.ID, "root", int(root))
	}
	return root
}

// tableRoot picks the table root from the header and body group roots. A
// group root that is an ancestor of the other one wins; otherwise their
// common ancestor is used.
func (p *Projector) tableRoot(groups []model.NodeID) model.NodeID {
	switch {
	case len(groups) == 0:
		return model.NoNode
	case len(groups) == 1 || groups[0] == groups[1]:
		return groups[0]
	}

	a, b := groups[0], groups[1]
	if p.depth[a] < p.depth[b] && p.tree.IsAncestor(a, b) {
		return a
	}
	if p.depth[b] < p.depth[a] && p.tree.IsAncestor(b, a) {
		return b
	}
	return p.localRoot(groups)
}

func (p *Projector) projectRow(row *Row, tableID int) model.NodeID {
	var cells []model.NodeID
	for i := range row.Cells {
		id := p.projectCell(&row.Cells[i])
		if id == model.NoNode {
			continue
		}
		p.promote(id, model.TypeTableCell)
		p.tree.Node(id).StructureID = tableID
		cells = append(cells, id)
	}
	return p.localRoot(cells)
}

// projectCell returns the node standing for a cell: the parent of its only
// leaf, or the common ancestor of the parents of its leaves
func (p *Projector) projectCell(cell *Cell) model.NodeID {
	leaves := cell.Leaves()
	parents := make([]model.NodeID, 0, len(leaves))
	for _, leaf := range leaves {
		if !p.tree.Valid(leaf) {
			continue
		}
		if parent := p.tree.Parent(leaf); parent != model.NoNode {
			leaf = parent
		}
		parents = append(parents, leaf)
	}
	return p.localRoot(parents)
}

// localRoot returns the nearest common ancestor of nodes, a node counting as
// its own ancestor. Each node walks up, counting visits, until it reaches a
// node an earlier walk already counted; the shallowest such meeting point is
// the answer. Counters are cleared before returning.
func (p *Projector) localRoot(nodes []model.NodeID) model.NodeID {
	root := model.NoNode
	for _, id := range nodes {
		if root == model.NoNode {
			root = id
		}
		for cur := id; cur != model.NoNode; cur = p.tree.Parent(cur) {
			p.touch(cur)
			if p.counter[cur] > 1 {
				if p.depth[cur] < p.depth[root] {
					root = cur
				}
				break
			}
		}
	}
	p.resetCounters()
	return root
}

func (p *Projector) touch(id model.NodeID) {
	if p.counter[id] == 0 {
		p.touched = append(p.touched, id)
	}
	p.counter[id]++
}

func (p *Projector) resetCounters() {
	for _, id := range p.touched {
		p.counter[id] = 0
	}
	p.touched = p.touched[:0]
}

// promote sets typ unless the node already has an equal or stronger table
// type
func (p *Projector) promote(id model.NodeID, typ model.SemanticType) {
	if strength(p.tree.Node(id).Type) < strength(typ) {
		p.setType(id, typ)
	}
}

func (p *Projector) setType(id model.NodeID, typ model.SemanticType) {
	n := p.tree.Node(id)
	n.Type = typ
	n.SetScore(1)
}
