package model

// Kind is the variant of a node. Tree leaves are Span, Image, or Figure;
// inner nodes start as Group. Synthesized nodes use the remaining kinds.
type Kind int

const (
	KindGroup Kind = iota
	KindSpan
	KindParagraph
	KindHeading
	KindNumberHeading
	KindCaption
	KindImage
	KindFigure
	KindList
	KindListItem
	KindTableGroup
)

var kindNames = [...]string{
	KindGroup:         "group",
	KindSpan:          "span",
	KindParagraph:     "paragraph",
	KindHeading:       "heading",
	KindNumberHeading: "number-heading",
	KindCaption:       "caption",
	KindImage:         "image",
	KindFigure:        "figure",
	KindList:          "list",
	KindListItem:      "list-item",
	KindTableGroup:    "table-group",
}

// String returns the kind name
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind converts a kind name back to a Kind
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return KindGroup, false
}

// IsText reports whether nodes of this kind carry text lines
func (k Kind) IsText() bool {
	switch k {
	case KindSpan, KindParagraph, KindHeading, KindNumberHeading, KindCaption:
		return true
	}
	return false
}

// IsVisual reports whether nodes of this kind are images or line-art
func (k Kind) IsVisual() bool {
	return k == KindImage || k == KindFigure
}

// DefaultType returns the semantic type a leaf of this kind gets when the
// extractor did not assign one.
func (k Kind) DefaultType() SemanticType {
	switch k {
	case KindSpan:
		return TypeSpan
	case KindParagraph:
		return TypeParagraph
	case KindHeading:
		return TypeHeading
	case KindNumberHeading:
		return TypeNumberHeading
	case KindCaption:
		return TypeCaption
	case KindImage, KindFigure:
		return TypeFigure
	case KindList:
		return TypeList
	case KindListItem:
		return TypeListItem
	case KindTableGroup:
		return TypeTable
	}
	return TypeNone
}
