package tables

import (
	"strings"

	"github.com/tsawler/semtag/model"
)

// Config holds configuration for table tracking and recognition. Distances
// are in multiples of the header font size.
type Config struct {
	// MinColumns is the minimum number of columns of a table
	// Default: 2
	MinColumns int `yaml:"min_columns"`

	// MinBodyRows is the minimum number of rows below the header
	// Default: 1
	MinBodyRows int `yaml:"min_body_rows"`

	// MinColumnGap is the smallest horizontal gutter that opens a new
	// header column
	// Default: 1.0
	MinColumnGap float64 `yaml:"min_column_gap"`

	// MaxRowGap is the largest baseline distance between consecutive rows
	// Default: 2.5
	MaxRowGap float64 `yaml:"max_row_gap"`

	// RowTolerance is the largest baseline difference within one row
	// Default: 0.5
	RowTolerance float64 `yaml:"row_tolerance"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinColumns:   2,
		MinBodyRows:  1,
		MinColumnGap: 1.0,
		MaxRowGap:    2.5,
		RowTolerance: 0.5,
	}
}

// Token is a text chunk fed to table recognition, together with the tree
// leaf it was read from
type Token struct {
	model.TextChunk
	Node model.NodeID
}

// TokenRow is the run of tokens on one baseline inside a cell
type TokenRow struct {
	Tokens []Token
}

// Text returns the token texts joined by spaces
func (r TokenRow) Text() string {
	parts := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Cell is one recognized table cell
type Cell struct {
	Type    model.SemanticType
	Column  int
	BBox    model.BBox
	Content []TokenRow
}

// IsEmpty reports whether the cell holds no tokens
func (c *Cell) IsEmpty() bool {
	return len(c.Content) == 0
}

// Row is one recognized table row. Type is TypeTableHeaders for the header
// row and TypeTableBody for body rows.
type Row struct {
	Type  model.SemanticType
	Cells []Cell
}

// Occupied returns the number of non-empty cells
func (r *Row) Occupied() int {
	n := 0
	for i := range r.Cells {
		if !r.Cells[i].IsEmpty() {
			n++
		}
	}
	return n
}

// Table is a recognized table. ID is assigned by the tracker and is unique
// within one check run.
type Table struct {
	ID   int
	BBox model.BBox
	Rows []Row
}

// RowCount returns the number of rows including the header
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// Leaves returns the distinct tree leaves contributing to a cell, in token
// order
func (c *Cell) Leaves() []model.NodeID {
	seen := make(map[model.NodeID]bool)
	var leaves []model.NodeID
	for _, row := range c.Content {
		for _, t := range row.Tokens {
			if t.Node == model.NoNode || seen[t.Node] {
				continue
			}
			seen[t.Node] = true
			leaves = append(leaves, t.Node)
		}
	}
	return leaves
}

// TableNodes are the leaves filed into the header and body buckets while a
// recognized table was being tracked
type TableNodes struct {
	Header []model.NodeID
	Body   []model.NodeID
}
