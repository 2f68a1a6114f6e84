package tables

import (
	"math"
	"sort"

	"github.com/tsawler/semtag/model"
)

// Recognizer turns the contents of a valid area into a table. It returns
// nil when the tokens do not form one. Recognize must give the same result
// for the same area contents.
type Recognizer interface {
	Recognize(area Area) *Table
}

// ClusterRecognizer is the default recognizer. Body baselines are clustered
// into rows and every token is placed in the header column it overlaps most.
type ClusterRecognizer struct {
	config Config
}

// NewClusterRecognizer creates a recognizer
func NewClusterRecognizer(config Config) *ClusterRecognizer {
	return &ClusterRecognizer{config: config}
}

// Recognize builds a table from the area. The ID is left for the caller.
func (r *ClusterRecognizer) Recognize(area Area) *Table {
	tokens := area.Tokens()
	columns := area.Columns()
	headerCount := area.HeaderCount()
	if headerCount == 0 || headerCount >= len(tokens) || len(columns) < r.config.MinColumns {
		return nil
	}

	fontSize := 0.0
	for _, t := range tokens[:headerCount] {
		fontSize = math.Max(fontSize, t.FontSize)
	}
	tolerance := r.config.RowTolerance * fontSize

	header := r.buildRow(tokens[:headerCount], columns, model.TypeTableHeaders, tolerance)
	if header.Occupied() < r.config.MinColumns {
		return nil
	}

	table := &Table{Rows: []Row{header}}
	for _, group := range r.groupRows(tokens[headerCount:], tolerance) {
		table.Rows = append(table.Rows, r.buildRow(group, columns, model.TypeTableBody, tolerance))
	}
	if len(table.Rows)-1 < r.config.MinBodyRows {
		return nil
	}

	table.BBox = tokens[0].BBox
	for _, t := range tokens[1:] {
		table.BBox = table.BBox.Union(t.BBox)
	}
	return table
}

// groupRows splits body tokens into rows, top to bottom, by the nearest
// clustered baseline
func (r *ClusterRecognizer) groupRows(tokens []Token, tolerance float64) [][]Token {
	baselines := make([]float64, len(tokens))
	for i, t := range tokens {
		baselines[i] = t.Baseline
	}
	sort.Float64s(baselines)
	centers := clusterValues(baselines, tolerance)
	// PDF coordinates: top rows have the larger baseline
	sort.Sort(sort.Reverse(sort.Float64Slice(centers)))

	rows := make([][]Token, len(centers))
	for _, t := range tokens {
		best := 0
		for i, c := range centers {
			if math.Abs(t.Baseline-c) < math.Abs(t.Baseline-centers[best]) {
				best = i
			}
		}
		rows[best] = append(rows[best], t)
	}

	out := rows[:0]
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out
}

func (r *ClusterRecognizer) buildRow(tokens []Token, columns []Column, typ model.SemanticType, tolerance float64) Row {
	row := Row{Type: typ, Cells: make([]Cell, len(columns))}
	for i := range row.Cells {
		row.Cells[i] = Cell{Type: model.TypeTableCell, Column: i}
	}

	for _, t := range tokens {
		cell := &row.Cells[columnOf(t.BBox, columns)]
		if cell.IsEmpty() {
			cell.BBox = t.BBox
		} else {
			cell.BBox = cell.BBox.Union(t.BBox)
		}
		cell.addToken(t, tolerance)
	}
	return row
}

// addToken appends t to the token row on its baseline, opening a new one
// when none matches
func (c *Cell) addToken(t Token, tolerance float64) {
	for i := range c.Content {
		if math.Abs(c.Content[i].Tokens[0].Baseline-t.Baseline) <= tolerance {
			c.Content[i].Tokens = append(c.Content[i].Tokens, t)
			return
		}
	}
	c.Content = append(c.Content, TokenRow{Tokens: []Token{t}})
}

// columnOf returns the column with the greatest horizontal overlap, or the
// one with the nearest center when the box overlaps none
func columnOf(b model.BBox, columns []Column) int {
	best, bestOverlap := -1, 0.0
	for i, c := range columns {
		overlap := math.Min(b.Right, c.Right) - math.Max(b.Left, c.Left)
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	if best >= 0 {
		return best
	}

	best = 0
	nearest := math.Inf(1)
	for i, c := range columns {
		d := math.Abs(b.CenterX() - (c.Left+c.Right)/2)
		if d < nearest {
			best, nearest = i, d
		}
	}
	return best
}

// clusterValues clusters sorted values within the given tolerance, averaging
// values that fall within the tolerance of the cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}
	return clustered
}
