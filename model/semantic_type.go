package model

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a semantic type name is not recognized
var ErrUnknownType = errors.New("unknown semantic type")

// SemanticType is a standard structure type. The zero value TypeNone means
// the node has not been classified.
type SemanticType int

const (
	TypeNone SemanticType = iota
	TypeDocument
	TypePart
	TypeSect
	TypeDiv
	TypeSpan
	TypeParagraph
	TypeHeading
	TypeNumberHeading
	TypeCaption
	TypeFigure
	TypeList
	TypeListItem
	TypeListLabel
	TypeListBody
	TypeTable
	TypeTableHeaders // THead
	TypeTableBody    // TBody
	TypeTableFooter  // TFoot
	TypeTableRow     // TR
	TypeTableHeader  // header row
	TypeTableCell    // TD
	TypeLink
	TypeAnnot
	TypeForm
	TypeNote
	TypeFormula
	TypeQuote
	TypeBlockQuote
	TypeCode
	TypeTOC
	TypeTOCI
	TypeIndex
	TypeNonStruct
	TypePrivate
	TypeArtifact
)

var typeNames = map[SemanticType]string{
	TypeNone:          "",
	TypeDocument:      "Document",
	TypePart:          "Part",
	TypeSect:          "Sect",
	TypeDiv:           "Div",
	TypeSpan:          "Span",
	TypeParagraph:     "P",
	TypeHeading:       "H",
	TypeNumberHeading: "NH",
	TypeCaption:       "Caption",
	TypeFigure:        "Figure",
	TypeList:          "L",
	TypeListItem:      "LI",
	TypeListLabel:     "Lbl",
	TypeListBody:      "LBody",
	TypeTable:         "Table",
	TypeTableHeaders:  "THead",
	TypeTableBody:     "TBody",
	TypeTableFooter:   "TFoot",
	TypeTableRow:      "TR",
	TypeTableHeader:   "TH",
	TypeTableCell:     "TD",
	TypeLink:          "Link",
	TypeAnnot:         "Annot",
	TypeForm:          "Form",
	TypeNote:          "Note",
	TypeFormula:       "Formula",
	TypeQuote:         "Quote",
	TypeBlockQuote:    "BlockQuote",
	TypeCode:          "Code",
	TypeTOC:           "TOC",
	TypeTOCI:          "TOCI",
	TypeIndex:         "Index",
	TypeNonStruct:     "NonStruct",
	TypePrivate:       "Private",
	TypeArtifact:      "Artifact",
}

var typesByName = func() map[string]SemanticType {
	m := make(map[string]SemanticType, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the standard structure tag of the type
func (t SemanticType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SemanticType(%d)", int(t))
}

// ParseSemanticType converts a tag name to a SemanticType. The empty string
// parses to TypeNone.
func ParseSemanticType(name string) (SemanticType, error) {
	if t, ok := typesByName[name]; ok {
		return t, nil
	}
	return TypeNone, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// MarshalText implements encoding.TextMarshaler
func (t SemanticType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *SemanticType) UnmarshalText(b []byte) error {
	parsed, err := ParseSemanticType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsTableType reports whether t is one of the table structure types
func (t SemanticType) IsTableType() bool {
	switch t {
	case TypeTable, TypeTableHeaders, TypeTableBody, TypeTableFooter,
		TypeTableRow, TypeTableHeader, TypeTableCell:
		return true
	}
	return false
}

// IsHeading reports whether t is a heading type
func (t SemanticType) IsHeading() bool {
	return t == TypeHeading || t == TypeNumberHeading
}
