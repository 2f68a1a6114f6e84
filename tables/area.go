package tables

import "math"

// Area accumulates tokens of one candidate table region. Once complete it
// accepts no more tokens; the token that completed it is not part of it.
type Area interface {
	AddToken(tok Token)
	IsComplete() bool
	HasCompleteHeaders() bool

	// IsValid reports whether the tokens so far can be recognized as a table
	IsValid() bool

	Tokens() []Token

	// HeaderCount is the number of leading tokens that form the header row
	HeaderCount() int

	Columns() []Column
}

// Column is the horizontal extent of one header column
type Column struct {
	Left, Right float64
}

// Width returns the column width
func (c Column) Width() float64 {
	return c.Right - c.Left
}

// ClusterArea is the default recognition area. The first token's baseline
// is the header row; every later token on that baseline extends the last
// header column or, past a wide enough gutter, opens a new one. Tokens below
// the header form body rows, each at most MaxRowGap below the previous row
// and lined up with exactly one header column.
type ClusterArea struct {
	config Config

	tokens      []Token
	columns     []Column
	headerCount int
	headersDone bool
	complete    bool

	fontSize       float64
	headerBaseline float64
	rowBaseline    float64
	bodyRows       int
}

// NewClusterArea creates an empty area
func NewClusterArea(config Config) *ClusterArea {
	return &ClusterArea{config: config}
}

// AddToken offers a token to the area
func (a *ClusterArea) AddToken(tok Token) {
	if a.complete {
		return
	}
	if len(a.tokens) == 0 {
		a.fontSize = tok.FontSize
		a.headerBaseline = tok.Baseline
		a.rowBaseline = tok.Baseline
		a.columns = []Column{{Left: tok.BBox.Left, Right: tok.BBox.Right}}
		a.tokens = append(a.tokens, tok)
		return
	}

	if !a.headersDone {
		if a.sameRow(tok.Baseline, a.headerBaseline) {
			a.addHeaderToken(tok)
			return
		}
		// a header of one column, or a token above the header, ends the
		// candidate region
		if tok.Baseline > a.headerBaseline || len(a.columns) < a.config.MinColumns {
			a.complete = true
			return
		}
		a.headersDone = true
		a.headerCount = len(a.tokens)
	}
	a.addBodyToken(tok)
}

func (a *ClusterArea) addHeaderToken(tok Token) {
	last := &a.columns[len(a.columns)-1]
	switch {
	case tok.BBox.Left-last.Right >= a.config.MinColumnGap*a.fontSize:
		a.columns = append(a.columns, Column{Left: tok.BBox.Left, Right: tok.BBox.Right})
	case tok.BBox.Left >= last.Left:
		last.Right = math.Max(last.Right, tok.BBox.Right)
	default:
		a.complete = true
		return
	}
	a.fontSize = math.Max(a.fontSize, tok.FontSize)
	a.tokens = append(a.tokens, tok)
}

func (a *ClusterArea) addBodyToken(tok Token) {
	newRow := !a.sameRow(tok.Baseline, a.rowBaseline)
	if newRow {
		gap := a.rowBaseline - tok.Baseline
		if gap <= 0 || gap > a.config.MaxRowGap*a.fontSize {
			a.complete = true
			return
		}
	}
	if a.overlappedColumns(tok) != 1 {
		a.complete = true
		return
	}

	if newRow {
		a.rowBaseline = tok.Baseline
		a.bodyRows++
	}
	a.tokens = append(a.tokens, tok)
}

func (a *ClusterArea) sameRow(y1, y2 float64) bool {
	return math.Abs(y1-y2) <= a.config.RowTolerance*a.fontSize
}

// overlappedColumns counts the header columns the token reaches, each
// widened by half the minimum gutter
func (a *ClusterArea) overlappedColumns(tok Token) int {
	slack := a.config.MinColumnGap * a.fontSize / 2
	n := 0
	for _, c := range a.columns {
		if tok.BBox.Left < c.Right+slack && tok.BBox.Right > c.Left-slack {
			n++
		}
	}
	return n
}

// IsComplete reports whether the area stopped accepting tokens
func (a *ClusterArea) IsComplete() bool {
	return a.complete
}

// HasCompleteHeaders reports whether a token below the header row has been
// accepted
func (a *ClusterArea) HasCompleteHeaders() bool {
	return a.headersDone
}

// IsValid reports whether the area has enough columns and body rows
func (a *ClusterArea) IsValid() bool {
	return a.headersDone &&
		len(a.columns) >= a.config.MinColumns &&
		a.bodyRows >= a.config.MinBodyRows
}

// Tokens returns the accepted tokens in the order they were added
func (a *ClusterArea) Tokens() []Token {
	return a.tokens
}

// HeaderCount returns the number of header tokens
func (a *ClusterArea) HeaderCount() int {
	if !a.headersDone {
		return len(a.tokens)
	}
	return a.headerCount
}

// Columns returns the header columns from left to right
func (a *ClusterArea) Columns() []Column {
	return a.columns
}

// FontSize returns the largest header font size, the unit of all distances
func (a *ClusterArea) FontSize() float64 {
	return a.fontSize
}
