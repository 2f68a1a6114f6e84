package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/semtag/model"
)

// word lays out s one glyph per rune with an advance of half the font size
func word(font, s string, x, y, size float64) []Glyph {
	var glyphs []Glyph
	for i, r := range []rune(s) {
		glyphs = append(glyphs, Glyph{
			Font: font,
			Size: size,
			X:    x + float64(i)*0.5*size,
			Y:    y,
			W:    0.5 * size,
			S:    string(r),
		})
	}
	return glyphs
}

func spanTexts(tree *model.Tree) []string {
	var texts []string
	for _, id := range tree.Leaves(tree.Root()) {
		n := tree.Node(id)
		if n.Kind != model.KindSpan {
			continue
		}
		texts = append(texts, n.Lines[0].Text())
	}
	return texts
}

func TestBuildMergesGlyphsIntoRuns(t *testing.T) {
	tree, err := New().Build([]Page{{
		Number: 1,
		Glyphs: word("Helvetica", "Hello world", 72, 700, 10),
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello world"}, spanTexts(tree))

	root := tree.Node(tree.Root())
	assert.Equal(t, model.TypeDocument, root.InitialType)
	// root > page > block > line > span
	leaf := tree.Leaves(tree.Root())[0]
	assert.Equal(t, 4, tree.Depth(leaf))

	line := tree.Parent(leaf)
	assert.Equal(t, model.TypeSpan, tree.Node(line).InitialType)
	assert.Equal(t, model.TypeParagraph, tree.Node(tree.Parent(line)).InitialType)
}

func TestBuildImplicitSpace(t *testing.T) {
	glyphs := word("Helvetica", "ab", 72, 700, 10)
	// 2.5pt gap without a space glyph
	glyphs = append(glyphs, word("Helvetica", "cd", 84.5, 700, 10)...)

	tree, err := New().Build([]Page{{Number: 1, Glyphs: glyphs}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ab cd"}, spanTexts(tree))
}

func TestBuildSplitsAtColumnGap(t *testing.T) {
	glyphs := word("Helvetica", "Name", 72, 700, 10)
	glyphs = append(glyphs, word("Helvetica", "Age", 200, 700, 10)...)

	tree, err := New().Build([]Page{{Number: 1, Glyphs: glyphs}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age"}, spanTexts(tree))
	leaves := tree.Leaves(tree.Root())
	assert.Equal(t, tree.Parent(leaves[0]), tree.Parent(leaves[1]), "same line group")
}

func TestBuildSplitsAtFontChange(t *testing.T) {
	glyphs := word("Helvetica-Bold", "Note:", 72, 700, 10)
	glyphs = append(glyphs, word("Helvetica", "text", 97, 700, 10)...)

	tree, err := New().Build([]Page{{Number: 1, Glyphs: glyphs}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Note:", "text"}, spanTexts(tree))
}

func TestBuildLineOrder(t *testing.T) {
	// glyphs arrive bottom line first and out of x order
	glyphs := word("Helvetica", "second", 72, 686, 10)
	glyphs = append(glyphs, word("Helvetica", "first", 72, 700, 10)...)
	glyphs[0], glyphs[1] = glyphs[1], glyphs[0]

	tree, err := New().Build([]Page{{Number: 1, Glyphs: glyphs}})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, spanTexts(tree))
}

func TestBuildBlocks(t *testing.T) {
	var glyphs []Glyph
	glyphs = append(glyphs, word("Helvetica", "one", 72, 700, 10)...)
	glyphs = append(glyphs, word("Helvetica", "two", 72, 686, 10)...)
	glyphs = append(glyphs, word("Helvetica", "three", 72, 600, 10)...)

	tree, err := New().Build([]Page{{Number: 1, Glyphs: glyphs}})
	require.NoError(t, err)

	page := tree.Children(tree.Root())[0]
	blocks := tree.Children(page)
	require.Len(t, blocks, 2)
	assert.Len(t, tree.Children(blocks[0]), 2)
	assert.Len(t, tree.Children(blocks[1]), 1)

	// group boxes cover their content
	first := tree.Node(blocks[0]).BBox
	assert.InDelta(t, 72, first.Left, 1e-9)
	assert.InDelta(t, 686-2, first.Bottom, 1e-9)
	assert.InDelta(t, 700+8, first.Top, 1e-9)
}

func TestBuildFigures(t *testing.T) {
	glyphs := word("Helvetica", "above", 72, 700, 10)
	glyphs = append(glyphs, word("Helvetica", "below", 72, 500, 10)...)

	tree, err := New().Build([]Page{{
		Number: 1,
		Glyphs: glyphs,
		Rects: []model.BBox{
			model.NewBBox(72, 600, 300, 601),
			model.NewBBox(10, 10, 5, 5), // inverted, dropped
		},
	}})
	require.NoError(t, err)

	page := tree.Children(tree.Root())[0]
	items := tree.Children(page)
	require.Len(t, items, 3)

	figure := tree.Node(items[1])
	assert.Equal(t, model.KindFigure, figure.Kind)
	require.NotNil(t, figure.LineArt)
	assert.Equal(t, 300.0, figure.LineArt.BBox.Right)
}

func TestBuildSkipsEmptyPages(t *testing.T) {
	tree, err := New().Build([]Page{
		{Number: 1},
		{Number: 2, Glyphs: word("Helvetica", "x", 72, 700, 10)},
		{Number: 3, Glyphs: []Glyph{{Font: "Helvetica", Size: 10, S: " "}}},
	})
	require.NoError(t, err)
	assert.Len(t, tree.Children(tree.Root()), 1)
}

func TestBuildNoContent(t *testing.T) {
	_, err := New().Build(nil)
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = New().Build([]Page{{Number: 1, Glyphs: []Glyph{{S: "x"}}}})
	assert.ErrorIs(t, err, ErrNoContent, "zero-size glyphs are ignored")
}

func TestExtractInvalidPDF(t *testing.T) {
	data := []byte("not a pdf")
	_, err := New().Extract(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestExtractFileMissing(t *testing.T) {
	_, err := New().ExtractFile("testdata/does-not-exist.pdf")
	assert.Error(t, err)
}
