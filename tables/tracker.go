package tables

import (
	"io"
	"log/slog"

	"github.com/tsawler/semtag/model"
)

// Tracker scans the text leaves of a tree for table regions
type Tracker struct {
	newArea    func() Area
	recognizer Recognizer
	logger     *slog.Logger

	area   Area
	header []model.NodeID
	body   []model.NodeID
	tables []*Table
	nodes  []TableNodes
	nextID int
}

// NewTracker creates a tracker using ClusterArea and ClusterRecognizer
func NewTracker(config Config) *Tracker {
	return NewTrackerWith(
		func() Area { return NewClusterArea(config) },
		NewClusterRecognizer(config),
	)
}

// NewTrackerWith creates a tracker with a custom area factory and recognizer
func NewTrackerWith(newArea func() Area, recognizer Recognizer) *Tracker {
	return &Tracker{
		newArea:    newArea,
		recognizer: recognizer,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger and returns the tracker
func (t *Tracker) WithLogger(logger *slog.Logger) *Tracker {
	t.logger = logger
	return t
}

// Track scans every non-whitespace chunk of the tree's span leaves in
// document order and returns the recognized tables with their node buckets.
// Table IDs start at 1 for each call.
func (t *Tracker) Track(tree *model.Tree) ([]*Table, []TableNodes) {
	t.tables, t.nodes, t.nextID = nil, nil, 0
	t.reset()

	for _, id := range tree.Leaves(tree.Root()) {
		n := tree.Node(id)
		if n.Kind != model.KindSpan {
			continue
		}
		for _, line := range n.Lines {
			for _, c := range line.Chunks {
				if c.IsWhiteSpace() {
					continue
				}
				t.accept(Token{TextChunk: c, Node: id})
			}
		}
	}

	// an area still open at the end of the document gets one last attempt
	if t.area.IsValid() {
		t.recognize()
	}
	return t.tables, t.nodes
}

// accept offers tok to the current area. When the area completes, it is
// recognized if valid, replaced, and tok is offered once more to the fresh
// area. A token that completes a fresh area on its own is dropped.
func (t *Tracker) accept(tok Token) {
	for attempt := 0; attempt < 2; attempt++ {
		t.area.AddToken(tok)
		if !t.area.IsComplete() {
			if t.area.HasCompleteHeaders() {
				t.body = appendNode(t.body, tok.Node)
			} else {
				t.header = appendNode(t.header, tok.Node)
			}
			return
		}

		if t.area.IsValid() {
			t.recognize()
		}
		t.reset()
	}
	t.logger.Debug("token rejected by empty area", "node", int(tok.Node), "text", tok.Text)
}

func (t *Tracker) recognize() {
	table := t.recognizer.Recognize(t.area)
	if table == nil {
		t.logger.Debug("area not recognized", "tokens", len(t.area.Tokens()))
		return
	}

	t.nextID++
	table.ID = t.nextID
	t.tables = append(t.tables, table)
	t.nodes = append(t.nodes, TableNodes{Header: t.header, Body: t.body})
	t.logger.Debug("table recognized",
		"table", table.ID,
		"rows", table.RowCount(),
		"columns", table.ColCount())
}

func (t *Tracker) reset() {
	t.area = t.newArea()
	t.header = nil
	t.body = nil
}

// appendNode appends id unless it is already the last element
func appendNode(ids []model.NodeID, id model.NodeID) []model.NodeID {
	if len(ids) > 0 && ids[len(ids)-1] == id {
		return ids
	}
	return append(ids, id)
}
