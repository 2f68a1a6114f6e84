package model

import (
	"math"
	"strings"
)

// TextLine is a left-to-right run of chunks on one visual line
type TextLine struct {
	Chunks []TextChunk

	// NotFull marks a line that was spliced together from fragments of
	// different nodes; its extent is not a whole visual line.
	NotFull bool
}

// NewTextLine creates a line from chunks
func NewTextLine(chunks ...TextChunk) TextLine {
	return TextLine{Chunks: chunks}
}

// IsEmpty reports whether the line has no chunks
func (l TextLine) IsEmpty() bool {
	return len(l.Chunks) == 0
}

// FirstChunk returns the first chunk (zero value for an empty line)
func (l TextLine) FirstChunk() TextChunk {
	if len(l.Chunks) == 0 {
		return TextChunk{}
	}
	return l.Chunks[0]
}

// LastChunk returns the last chunk (zero value for an empty line)
func (l TextLine) LastChunk() TextChunk {
	if len(l.Chunks) == 0 {
		return TextChunk{}
	}
	return l.Chunks[len(l.Chunks)-1]
}

// BBox returns the union of the chunk boxes
func (l TextLine) BBox() BBox {
	if len(l.Chunks) == 0 {
		return BBox{}
	}
	b := l.Chunks[0].BBox
	for _, c := range l.Chunks[1:] {
		b = b.Union(c.BBox)
	}
	return b
}

// Text returns the concatenated chunk text
func (l TextLine) Text() string {
	var sb strings.Builder
	for _, c := range l.Chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// FontSize returns the largest font size on the line
func (l TextLine) FontSize() float64 {
	size := 0.0
	for _, c := range l.Chunks {
		size = math.Max(size, c.FontSize)
	}
	return size
}

// Baseline returns the baseline of the first chunk
func (l TextLine) Baseline() float64 {
	return l.FirstChunk().Baseline
}

// IsSpace reports whether every chunk is whitespace
func (l TextLine) IsSpace() bool {
	for _, c := range l.Chunks {
		if !c.IsWhiteSpace() {
			return false
		}
	}
	return true
}

// Join returns a new line holding the chunks of l followed by those of next.
// Neither input is modified.
func (l TextLine) Join(next TextLine) TextLine {
	chunks := make([]TextChunk, 0, len(l.Chunks)+len(next.Chunks))
	chunks = append(chunks, l.Chunks...)
	chunks = append(chunks, next.Chunks...)
	return TextLine{Chunks: chunks, NotFull: l.NotFull || next.NotFull}
}

// Clone returns a deep copy of the line
func (l TextLine) Clone() TextLine {
	return TextLine{
		Chunks:  append([]TextChunk(nil), l.Chunks...),
		NotFull: l.NotFull,
	}
}
