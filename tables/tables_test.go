package tables

import (
	"fmt"
	"testing"

	"github.com/tsawler/semtag/model"
)

func chunk(text string, left, baseline float64) model.TextChunk {
	return model.TextChunk{
		Text:     text,
		FontName: "Helvetica",
		FontSize: 10,
		Baseline: baseline,
		BBox:     model.NewBBox(left, baseline-2, left+float64(len(text))*5, baseline+8),
	}
}

func leaf(c model.TextChunk) model.Node {
	return model.Node{
		Kind:  model.KindSpan,
		Type:  model.TypeSpan,
		BBox:  c.BBox,
		Lines: []model.TextLine{model.NewTextLine(c)},
	}
}

func token(text string, left, baseline float64) Token {
	return Token{TextChunk: chunk(text, left, baseline), Node: model.NoNode}
}

// gridTree builds document -> grid -> [header row, body row] with one leaf
// per cell, followed by a paragraph outside the grid
type gridTree struct {
	tree            *model.Tree
	grid            model.NodeID
	header, body    model.NodeID
	headerLeaves    []model.NodeID
	bodyLeaves      []model.NodeID
	paragraph, text model.NodeID
}

func newGridTree() gridTree {
	var g gridTree
	g.tree = model.NewTree(model.Node{Kind: model.KindGroup, Type: model.TypeDocument})
	root := g.tree.Root()
	g.grid = g.tree.AddNode(root, model.Node{Kind: model.KindGroup, Type: model.TypeParagraph})
	g.header = g.tree.AddNode(g.grid, model.Node{Kind: model.KindGroup, Type: model.TypeSpan})
	g.headerLeaves = []model.NodeID{
		g.tree.AddNode(g.header, leaf(chunk("Name", 72, 700))),
		g.tree.AddNode(g.header, leaf(chunk("Age", 200, 700))),
	}
	g.body = g.tree.AddNode(g.grid, model.Node{Kind: model.KindGroup, Type: model.TypeSpan})
	g.bodyLeaves = []model.NodeID{
		g.tree.AddNode(g.body, leaf(chunk("Alice", 72, 686))),
		g.tree.AddNode(g.body, leaf(chunk("30", 200, 686))),
	}
	g.paragraph = g.tree.AddNode(root, model.Node{Kind: model.KindGroup, Type: model.TypeParagraph})
	g.text = g.tree.AddNode(g.paragraph, leaf(chunk("A closing sentence well below the table.", 72, 600)))
	return g
}

// ============================================================================
// Area Tests
// ============================================================================

func TestClusterAreaHeaderAndBody(t *testing.T) {
	a := NewClusterArea(DefaultConfig())
	a.AddToken(token("Name", 72, 700))
	a.AddToken(token("Age", 200, 700))
	if a.HasCompleteHeaders() {
		t.Fatal("headers complete before any body token")
	}
	if a.IsValid() {
		t.Fatal("header alone should not be valid")
	}

	a.AddToken(token("Alice", 72, 686))
	a.AddToken(token("30", 200, 686))

	if !a.HasCompleteHeaders() {
		t.Error("headers should be complete")
	}
	if a.IsComplete() {
		t.Error("area should still be open")
	}
	if !a.IsValid() {
		t.Error("area should be valid")
	}
	if a.HeaderCount() != 2 {
		t.Errorf("HeaderCount() = %d, want 2", a.HeaderCount())
	}
	if len(a.Columns()) != 2 {
		t.Errorf("got %d columns, want 2", len(a.Columns()))
	}
}

func TestClusterAreaHeaderWords(t *testing.T) {
	a := NewClusterArea(DefaultConfig())
	// "Unit" follows "Price" closely: same column
	a.AddToken(token("Price", 72, 700))
	a.AddToken(token("Unit", 100, 700))
	a.AddToken(token("Total", 200, 700))

	cols := a.Columns()
	if len(cols) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols))
	}
	if cols[0].Right != 120 {
		t.Errorf("first column right = %v, want 120", cols[0].Right)
	}
}

func TestClusterAreaCompletes(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
	}{
		{
			name:   "single column header",
			tokens: []Token{token("Paragraph", 72, 700), token("next line", 72, 688)},
		},
		{
			name:   "token above header",
			tokens: []Token{token("A", 72, 700), token("B", 200, 700), token("C", 72, 720)},
		},
		{
			name:   "row gap too large",
			tokens: []Token{token("A", 72, 700), token("B", 200, 700), token("C", 72, 660)},
		},
		{
			name:   "token spans columns",
			tokens: []Token{token("A", 72, 700), token("B", 200, 700), token("a long sentence across both columns", 72, 688)},
		},
		{
			name:   "header runs backwards",
			tokens: []Token{token("A", 200, 700), token("B", 72, 700)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewClusterArea(DefaultConfig())
			for _, tok := range tt.tokens {
				a.AddToken(tok)
			}
			if !a.IsComplete() {
				t.Error("area should be complete")
			}
			if n := len(a.Tokens()); n != len(tt.tokens)-1 {
				t.Errorf("area kept %d tokens, want %d (completing token excluded)", n, len(tt.tokens)-1)
			}
		})
	}
}

// ============================================================================
// Recognizer Tests
// ============================================================================

func TestClusterRecognizer(t *testing.T) {
	a := NewClusterArea(DefaultConfig())
	for _, tok := range []Token{
		token("Item", 72, 700), token("Qty", 200, 700), token("Cost", 300, 700),
		token("Apples", 72, 686), token("3", 200, 686), token("1.20", 300, 686),
		token("Pears", 72, 672), token("12", 200, 673), token("4.00", 300, 672),
	} {
		a.AddToken(tok)
	}
	if !a.IsValid() || a.IsComplete() {
		t.Fatalf("area valid=%v complete=%v, want valid and open", a.IsValid(), a.IsComplete())
	}

	table := NewClusterRecognizer(DefaultConfig()).Recognize(a)
	if table == nil {
		t.Fatal("Recognize() returned nil")
	}
	if table.RowCount() != 3 || table.ColCount() != 3 {
		t.Fatalf("table is %dx%d, want 3x3", table.RowCount(), table.ColCount())
	}
	if table.Rows[0].Type != model.TypeTableHeaders || table.Rows[1].Type != model.TypeTableBody {
		t.Errorf("row types = %v, %v", table.Rows[0].Type, table.Rows[1].Type)
	}

	want := [][]string{
		{"Item", "Qty", "Cost"},
		{"Apples", "3", "1.20"},
		{"Pears", "12", "4.00"},
	}
	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			if len(cell.Content) != 1 || cell.Content[0].Text() != want[i][j] {
				t.Errorf("cell (%d,%d) = %+v, want %q", i, j, cell.Content, want[i][j])
			}
		}
	}
}

func TestClusterRecognizerRejectsHeaderOnly(t *testing.T) {
	a := NewClusterArea(DefaultConfig())
	a.AddToken(token("A", 72, 700))
	a.AddToken(token("B", 200, 700))
	if table := NewClusterRecognizer(DefaultConfig()).Recognize(a); table != nil {
		t.Error("header without body should not be recognized")
	}
}

func TestClusterValues(t *testing.T) {
	got := clusterValues([]float64{10, 10.5, 11, 20, 20.2, 40}, 1)
	if len(got) != 3 {
		t.Fatalf("clusterValues() = %v, want 3 clusters", got)
	}
}

// ============================================================================
// Tracker Tests
// ============================================================================

func TestTrackerFindsGrid(t *testing.T) {
	g := newGridTree()
	found, buckets := NewTracker(DefaultConfig()).Track(g.tree)

	if len(found) != 1 {
		t.Fatalf("found %d tables, want 1", len(found))
	}
	if found[0].ID != 1 {
		t.Errorf("table ID = %d, want 1", found[0].ID)
	}
	if fmt.Sprint(buckets[0].Header) != fmt.Sprint(g.headerLeaves) {
		t.Errorf("header bucket = %v, want %v", buckets[0].Header, g.headerLeaves)
	}
	if fmt.Sprint(buckets[0].Body) != fmt.Sprint(g.bodyLeaves) {
		t.Errorf("body bucket = %v, want %v", buckets[0].Body, g.bodyLeaves)
	}
}

func TestTrackerRecognizesAtEnd(t *testing.T) {
	g := newGridTree()
	// without the closing paragraph the area never completes
	g.tree.Node(g.text).Lines = nil

	found, _ := NewTracker(DefaultConfig()).Track(g.tree)
	if len(found) != 1 {
		t.Fatalf("found %d tables, want 1", len(found))
	}
}

// limitArea completes when offered one token more than its limit
type limitArea struct {
	limit    int
	tokens   []Token
	complete bool
}

func (a *limitArea) AddToken(tok Token) {
	if a.complete {
		return
	}
	if len(a.tokens) == a.limit {
		a.complete = true
		return
	}
	a.tokens = append(a.tokens, tok)
}
func (a *limitArea) IsComplete() bool         { return a.complete }
func (a *limitArea) HasCompleteHeaders() bool { return len(a.tokens) > 1 }
func (a *limitArea) IsValid() bool            { return len(a.tokens) == a.limit }
func (a *limitArea) Tokens() []Token          { return a.tokens }
func (a *limitArea) HeaderCount() int         { return 1 }
func (a *limitArea) Columns() []Column        { return nil }

// recordingRecognizer accepts every non-empty area and records its texts
type recordingRecognizer struct {
	seen [][]string
}

func (r *recordingRecognizer) Recognize(area Area) *Table {
	if len(area.Tokens()) == 0 {
		return nil
	}
	var texts []string
	for _, t := range area.Tokens() {
		texts = append(texts, t.Text)
	}
	r.seen = append(r.seen, texts)
	return &Table{}
}

func flatTree(n int) *model.Tree {
	tree := model.NewTree(model.Node{Kind: model.KindGroup})
	for i := 1; i <= n; i++ {
		tree.AddNode(tree.Root(), leaf(chunk(fmt.Sprintf("t%d", i), float64(i*50), 700)))
	}
	// whitespace chunks are never tokens
	tree.AddNode(tree.Root(), leaf(chunk("  ", 500, 700)))
	return tree
}

func TestTrackerRepresentsCompletingToken(t *testing.T) {
	rec := &recordingRecognizer{}
	tracker := NewTrackerWith(func() Area { return &limitArea{limit: 3} }, rec)

	found, buckets := tracker.Track(flatTree(7))

	if len(found) != 2 {
		t.Fatalf("found %d tables, want 2", len(found))
	}
	want := "[[t1 t2 t3] [t4 t5 t6]]"
	if got := fmt.Sprint(rec.seen); got != want {
		t.Errorf("recognized areas = %s, want %s", got, want)
	}
	if found[0].ID != 1 || found[1].ID != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", found[0].ID, found[1].ID)
	}
	if len(buckets[0].Header) != 1 || len(buckets[0].Body) != 2 {
		t.Errorf("first buckets = %+v, want 1 header and 2 body nodes", buckets[0])
	}
}

func TestTrackerDropsUnacceptableToken(t *testing.T) {
	rec := &recordingRecognizer{}
	tracker := NewTrackerWith(func() Area { return &limitArea{limit: 0} }, rec)

	found, _ := tracker.Track(flatTree(3))
	if len(found) != 0 {
		t.Errorf("found %d tables, want 0", len(found))
	}
}

func TestTrackerReusable(t *testing.T) {
	tracker := NewTracker(DefaultConfig())
	for i := 0; i < 2; i++ {
		found, _ := tracker.Track(newGridTree().tree)
		if len(found) != 1 || found[0].ID != 1 {
			t.Errorf("run %d: found %d tables", i, len(found))
		}
	}
}

// ============================================================================
// Projector Tests
// ============================================================================

func TestProjectTwoByTwo(t *testing.T) {
	g := newGridTree()
	found, _ := NewTracker(DefaultConfig()).Track(g.tree)
	if len(found) != 1 {
		t.Fatalf("found %d tables, want 1", len(found))
	}

	p := NewProjector(g.tree)
	roots := p.ProjectAll(found)

	if roots[0] != g.grid {
		t.Fatalf("table root = %d, want grandparent %d", roots[0], g.grid)
	}
	grid := g.tree.Node(g.grid)
	if grid.Type != model.TypeTable || !grid.HasScore || grid.Score != 1 {
		t.Errorf("grid = %v/%v, want Table/1", grid.Type, grid.Score)
	}

	var headers, rows int
	for _, c := range g.tree.Children(g.grid) {
		switch g.tree.Node(c).Type {
		case model.TypeTableHeader:
			headers++
		case model.TypeTableRow:
			rows++
		}
	}
	if headers != 1 || rows != 1 {
		t.Errorf("grid children: %d TH, %d TR, want 1 and 1", headers, rows)
	}

	if id := g.tree.Node(g.header).StructureID; id != found[0].ID {
		t.Errorf("header StructureID = %d, want %d", id, found[0].ID)
	}
	if g.tree.Node(g.paragraph).Type != model.TypeParagraph {
		t.Error("paragraph outside the table should keep its type")
	}
	if g.tree.Node(g.tree.Root()).Type != model.TypeDocument {
		t.Error("document root should keep its type")
	}
}

func TestProjectorCountersReset(t *testing.T) {
	g := newGridTree()
	found, _ := NewTracker(DefaultConfig()).Track(g.tree)

	p := NewProjector(g.tree)
	for _, table := range found {
		p.Project(table)
		for id, c := range p.counter {
			if c != 0 {
				t.Fatalf("counter of node %d = %d after projection", id, c)
			}
		}
	}
}

func TestLocalRoot(t *testing.T) {
	//        0
	//        1
	//      2   3
	//     4 5   6
	tree := model.NewTree(model.Node{})
	n1 := tree.AddNode(0, model.Node{})
	n2 := tree.AddNode(n1, model.Node{})
	n3 := tree.AddNode(n1, model.Node{})
	n4 := tree.AddNode(n2, model.Node{})
	n5 := tree.AddNode(n2, model.Node{})
	n6 := tree.AddNode(n3, model.Node{})

	tests := []struct {
		nodes []model.NodeID
		want  model.NodeID
	}{
		{nil, model.NoNode},
		{[]model.NodeID{n4}, n4},
		{[]model.NodeID{n4, n5}, n2},
		{[]model.NodeID{n4, n6}, n1},
		{[]model.NodeID{n4, n5, n6}, n1},
		{[]model.NodeID{n4, n2}, n2},
		{[]model.NodeID{n2, n4}, n2},
		{[]model.NodeID{n4, n4}, n4},
		{[]model.NodeID{n6, 0}, 0},
	}

	p := NewProjector(tree)
	for _, tt := range tests {
		if got := p.localRoot(tt.nodes); got != tt.want {
			t.Errorf("localRoot(%v) = %d, want %d", tt.nodes, got, tt.want)
		}
		if len(p.touched) != 0 {
			t.Errorf("localRoot(%v) left %d touched nodes", tt.nodes, len(p.touched))
		}
	}
}

func TestPromoteNeverWeakens(t *testing.T) {
	tree := model.NewTree(model.Node{Type: model.TypeTable})
	p := NewProjector(tree)

	p.promote(tree.Root(), model.TypeTableRow)
	if tree.Node(tree.Root()).Type != model.TypeTable {
		t.Errorf("type = %v, want Table kept", tree.Node(tree.Root()).Type)
	}

	tree.Node(tree.Root()).Type = model.TypeTableCell
	p.promote(tree.Root(), model.TypeTableRow)
	if tree.Node(tree.Root()).Type != model.TypeTableRow {
		t.Errorf("type = %v, want TR over TD", tree.Node(tree.Root()).Type)
	}
}
