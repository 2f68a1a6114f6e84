package model

import "strings"

// SemanticNode is the synthesized form of a tree node produced by
// accumulation: a span, paragraph, heading, caption, image, figure, or list
// built from the node's children. It does not live in the tree.
type SemanticNode struct {
	Kind    Kind
	BBox    BBox
	Lines   []TextLine
	Image   *ImageChunk
	LineArt *LineArtChunk
}

// SemanticNodeOf returns the synthesized form of a tree node as-is
func SemanticNodeOf(n *Node) *SemanticNode {
	return &SemanticNode{
		Kind:    n.Kind,
		BBox:    n.BBox,
		Lines:   n.Lines,
		Image:   n.Image,
		LineArt: n.LineArt,
	}
}

// IsText reports whether the node carries text lines
func (s *SemanticNode) IsText() bool {
	return s != nil && s.Kind.IsText()
}

// IsEmpty reports whether a text node has no lines
func (s *SemanticNode) IsEmpty() bool {
	return len(s.Lines) == 0
}

// IsSpace reports whether every line of the node is whitespace
func (s *SemanticNode) IsSpace() bool {
	for _, l := range s.Lines {
		if !l.IsSpace() {
			return false
		}
	}
	return true
}

// HasContent reports whether this is a text node with visible text
func (s *SemanticNode) HasContent() bool {
	return s.IsText() && !s.IsEmpty() && !s.IsSpace()
}

// FirstLine returns the first line (zero value when empty)
func (s *SemanticNode) FirstLine() TextLine {
	if len(s.Lines) == 0 {
		return TextLine{}
	}
	return s.Lines[0]
}

// LastLine returns the last line (zero value when empty)
func (s *SemanticNode) LastLine() TextLine {
	if len(s.Lines) == 0 {
		return TextLine{}
	}
	return s.Lines[len(s.Lines)-1]
}

// Text returns the lines joined by newlines
func (s *SemanticNode) Text() string {
	parts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		parts[i] = l.Text()
	}
	return strings.Join(parts, "\n")
}

// FontSize returns the font size of the dominant style
func (s *SemanticNode) FontSize() float64 {
	return s.DominantStyle().FontSize
}

// DominantStyle returns the style covering the most non-space characters
func (s *SemanticNode) DominantStyle() Style {
	weights := make(map[Style]int)
	var best Style
	bestWeight := -1
	for _, l := range s.Lines {
		for _, c := range l.Chunks {
			if c.IsWhiteSpace() {
				continue
			}
			st := c.Style()
			weights[st] += len([]rune(strings.TrimSpace(c.Text)))
			if weights[st] > bestWeight {
				best, bestWeight = st, weights[st]
			}
		}
	}
	return best
}

// Clone returns a copy whose line slice can be changed independently
func (s *SemanticNode) Clone() *SemanticNode {
	c := *s
	c.Lines = make([]TextLine, len(s.Lines))
	for i, l := range s.Lines {
		c.Lines[i] = l.Clone()
	}
	return &c
}

// WithKind returns a clone re-tagged with kind k
func (s *SemanticNode) WithKind(k Kind) *SemanticNode {
	c := s.Clone()
	c.Kind = k
	return c
}
