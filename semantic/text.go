package semantic

import (
	"math"

	"github.com/tsawler/semtag/model"
)

// mergeText appends next to candidate and returns the merge probability,
// capped by next's own score.
//
// The last line of candidate and the first line of next are compared under
// three readings: fragments of one visual line, consecutive lines of a
// paragraph, or the end and start of adjacent columns. Unless the one-line
// reading wins, the lines stay separate. A spliced line is marked not full
// and the lines it now borders are checked again as paragraph lines.
func (p *pass) mergeText(candidate, next *model.SemanticNode, nextScore float64) float64 {
	prob := 1.0
	if len(next.Lines) > 0 {
		if len(candidate.Lines) == 0 {
			candidate.Lines = append(candidate.Lines, next.Lines...)
		} else {
			prob = p.spliceLines(candidate, next)
		}
	}
	candidate.BBox = candidate.BBox.Union(next.BBox)
	return math.Min(prob, nextScore)
}

func (p *pass) spliceLines(candidate, next *model.SemanticNode) float64 {
	last := candidate.LastLine()
	first := next.Lines[0]

	oneLine := p.scorer.OneLine(last, first)
	var differentLines float64
	if len(candidate.Lines) > 1 && len(next.Lines) > 1 {
		differentLines = p.scorer.ParagraphMerge(last, first)
	} else {
		differentLines = p.scorer.Leading(last, first)
	}
	differentLines = math.Max(differentLines, p.scorer.ColumnsMerge(last, first))

	if oneLine < math.Max(differentLines, p.config.OneLineFloor) {
		candidate.Lines = append(candidate.Lines, next.Lines...)
		return differentLines
	}

	last.NotFull = true
	first.NotFull = true
	joined := last.Join(first)
	candidate.Lines[len(candidate.Lines)-1] = joined

	prob := oneLine
	if len(candidate.Lines) > 1 {
		prob *= p.scorer.ParagraphMerge(candidate.Lines[len(candidate.Lines)-2], joined)
	}
	if len(next.Lines) > 1 {
		prob *= p.scorer.ParagraphMerge(joined, next.Lines[1])
		candidate.Lines = append(candidate.Lines, next.Lines[1:]...)
	}
	return prob
}
