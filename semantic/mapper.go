package semantic

import "github.com/tsawler/semtag/model"

// Entry is the accumulated form of one tree node
type Entry struct {
	Node  *model.SemanticNode
	Score float64
	Type  model.SemanticType
}

// Mapper associates tree nodes with their accumulated semantic form, score,
// and resolved type. One mapper serves one check run. A later update for the
// same node replaces the earlier one; the tree itself is only changed by
// Apply.
type Mapper struct {
	entries map[model.NodeID]Entry
}

// NewMapper creates an empty mapper
func NewMapper() *Mapper {
	return &Mapper{entries: make(map[model.NodeID]Entry)}
}

// Update records the accumulated form of a node
func (m *Mapper) Update(id model.NodeID, node *model.SemanticNode, score float64, typ model.SemanticType) {
	m.entries[id] = Entry{Node: node, Score: score, Type: typ}
}

// Entry returns the recorded entry of a node
func (m *Mapper) Entry(id model.NodeID) (Entry, bool) {
	e, ok := m.entries[id]
	return e, ok
}

// Get returns the accumulated node, or nil when none is recorded. NoNode
// maps to nil.
func (m *Mapper) Get(id model.NodeID) *model.SemanticNode {
	if id == model.NoNode {
		return nil
	}
	return m.entries[id].Node
}

// Type returns the resolved type, TypeNone when nothing is recorded
func (m *Mapper) Type(id model.NodeID) model.SemanticType {
	return m.entries[id].Type
}

// Score returns the recorded score, 0 when nothing is recorded
func (m *Mapper) Score(id model.NodeID) float64 {
	return m.entries[id].Score
}

// Len returns the number of recorded nodes
func (m *Mapper) Len() int {
	return len(m.entries)
}

// Apply writes every resolved type and its score onto the tree and returns
// the number of nodes changed. Entries without a type leave their node as
// is.
func (m *Mapper) Apply(t *model.Tree) int {
	changed := 0
	for id, e := range m.entries {
		if e.Type == model.TypeNone || !t.Valid(id) {
			continue
		}
		n := t.Node(id)
		if n.Type != e.Type || !n.HasScore || n.Score != e.Score {
			changed++
		}
		n.Type = e.Type
		n.SetScore(e.Score)
	}
	return changed
}
