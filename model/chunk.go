package model

import (
	"image"
	"strings"
	"unicode"
)

// Color is an RGB triple with components in [0,1]
type Color [3]float64

// Black is the default text color
var Black = Color{0, 0, 0}

// Style is the font identity of a text run, used to detect emphasis
type Style struct {
	FontName    string
	FontSize    float64
	ItalicAngle float64
	Color       Color
}

// TextChunk is a run of text drawn with a single font. Chunks are produced by
// the page-content extractor and are not modified afterwards, except for
// SpecialStyle which the accumulator sets.
type TextChunk struct {
	Text        string
	FontName    string
	FontSize    float64
	Color       Color
	Baseline    float64
	ItalicAngle float64
	BBox        BBox

	// SpecialStyle marks a chunk whose font differs from its paragraph
	SpecialStyle bool
}

// Style returns the font identity of the chunk
func (c TextChunk) Style() Style {
	return Style{
		FontName:    c.FontName,
		FontSize:    c.FontSize,
		ItalicAngle: c.ItalicAngle,
		Color:       c.Color,
	}
}

// IsWhiteSpace reports whether the chunk carries no visible text
func (c TextChunk) IsWhiteSpace() bool {
	return strings.TrimFunc(c.Text, unicode.IsSpace) == ""
}

// StartsWithSpace reports whether the first character is a space
func (c TextChunk) StartsWithSpace() bool {
	return strings.HasPrefix(c.Text, " ")
}

// EndsWithSpace reports whether the last character is a space
func (c TextChunk) EndsWithSpace() bool {
	return strings.HasSuffix(c.Text, " ")
}

// ImageChunk is a placed raster image. Pixels is optional; when the image
// is decoded it enables pixel similarity checks for image lists. Data keeps
// the encoded source the pixels were decoded from.
type ImageChunk struct {
	BBox   BBox
	Pixels image.Image
	Data   []byte
}

// LineArtChunk is vector line-art (rules, boxes, bullets drawn as paths)
type LineArtChunk struct {
	BBox  BBox
	Paths int
}
