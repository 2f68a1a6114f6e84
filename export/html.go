// Package export renders checked trees for people and downstream tools.
//
// HTML output maps each structure type to the closest HTML element: P to
// p, H to a heading level chosen by font size, L and LI to ul and li, the
// table types to table markup. Every typed element carries its structure
// type, and optionally its score, as data attributes.
package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/semtag/model"
)

// HTMLOptions controls HTML rendering
type HTMLOptions struct {
	// Title is the document title; defaults to "Document"
	Title string

	// Fragment renders only the body content, without html, head, and body
	Fragment bool

	// Scores adds data-score attributes
	Scores bool
}

var elements = map[model.SemanticType]atom.Atom{
	model.TypeDocument:     atom.Article,
	model.TypePart:         atom.Section,
	model.TypeSect:         atom.Section,
	model.TypeDiv:          atom.Div,
	model.TypeSpan:         atom.Span,
	model.TypeParagraph:    atom.P,
	model.TypeCaption:      atom.Figcaption,
	model.TypeFigure:       atom.Figure,
	model.TypeList:         atom.Ul,
	model.TypeListItem:     atom.Li,
	model.TypeListLabel:    atom.Span,
	model.TypeListBody:     atom.Div,
	model.TypeTable:        atom.Table,
	model.TypeTableHeaders: atom.Thead,
	model.TypeTableBody:    atom.Tbody,
	model.TypeTableFooter:  atom.Tfoot,
	model.TypeTableRow:     atom.Tr,
	model.TypeTableHeader:  atom.Tr,
	model.TypeTableCell:    atom.Td,
	model.TypeLink:         atom.A,
	model.TypeNote:         atom.Aside,
	model.TypeQuote:        atom.Q,
	model.TypeBlockQuote:   atom.Blockquote,
	model.TypeCode:         atom.Code,
	model.TypeTOC:          atom.Nav,
	model.TypeTOCI:         atom.Li,
}

var headingAtoms = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// WriteHTML renders the tree as HTML
func WriteHTML(w io.Writer, tree *model.Tree, opts HTMLOptions) error {
	body := HTMLNode(tree, opts)

	if opts.Fragment {
		return html.Render(w, body)
	}

	title := opts.Title
	if title == "" {
		title = "Document"
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	titleNode := element(atom.Title)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(titleNode)
	root.AppendChild(head)

	bodyNode := element(atom.Body)
	bodyNode.AppendChild(body)
	root.AppendChild(bodyNode)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTMLNode builds the HTML element tree for the tree root
func HTMLNode(tree *model.Tree, opts HTMLOptions) *html.Node {
	r := &renderer{
		tree:     tree,
		opts:     opts,
		headings: headingLevels(tree),
	}
	return r.node(tree.Root(), false)
}

type renderer struct {
	tree     *model.Tree
	opts     HTMLOptions
	headings map[float64]int
}

func (r *renderer) node(id model.NodeID, headerRow bool) *html.Node {
	n := r.tree.Node(id)
	el := element(r.atomFor(id, headerRow))

	if n.Type != model.TypeNone {
		el.Attr = append(el.Attr, html.Attribute{Key: "data-type", Val: n.Type.String()})
	}
	if r.opts.Scores && n.HasScore {
		el.Attr = append(el.Attr, html.Attribute{Key: "data-score", Val: strconv.FormatFloat(n.Score, 'f', 3, 64)})
	}
	if n.StructureID != 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "data-table", Val: strconv.Itoa(n.StructureID)})
	}

	if n.Type == model.TypeTableHeader {
		headerRow = true
	}

	if r.tree.IsLeaf(id) {
		appendLines(el, n.Lines)
		return el
	}

	for _, c := range n.Children {
		el.AppendChild(r.node(c, headerRow))
	}
	return el
}

func (r *renderer) atomFor(id model.NodeID, headerRow bool) atom.Atom {
	n := r.tree.Node(id)
	switch n.Type {
	case model.TypeHeading, model.TypeNumberHeading:
		level := r.headings[fontSize(r.tree, id)]
		return headingAtoms[min(level, len(headingAtoms)-1)]
	case model.TypeTableCell:
		if headerRow {
			return atom.Th
		}
		return atom.Td
	}

	if a, ok := elements[n.Type]; ok {
		return a
	}
	if n.Kind == model.KindSpan {
		return atom.Span
	}
	return atom.Div
}

// headingLevels ranks the distinct heading font sizes, largest first
func headingLevels(tree *model.Tree) map[float64]int {
	var sizes []float64
	seen := make(map[float64]bool)
	for _, id := range tree.PreOrder() {
		if !tree.Node(id).Type.IsHeading() {
			continue
		}
		size := fontSize(tree, id)
		if !seen[size] {
			seen[size] = true
			sizes = append(sizes, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	levels := make(map[float64]int, len(sizes))
	for i, s := range sizes {
		levels[s] = i
	}
	return levels
}

// fontSize is the size of the first text line under id
func fontSize(tree *model.Tree, id model.NodeID) float64 {
	for _, leaf := range tree.Leaves(id) {
		if lines := tree.Node(leaf).Lines; len(lines) > 0 {
			return lines[0].FontSize()
		}
	}
	return 0
}

// appendLines writes chunk text; chunks in a differing style are wrapped in
// em
func appendLines(el *html.Node, lines []model.TextLine) {
	for i, l := range lines {
		if i > 0 {
			el.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
		}
		for _, c := range l.Chunks {
			text := &html.Node{Type: html.TextNode, Data: c.Text}
			if !c.SpecialStyle || strings.TrimSpace(c.Text) == "" {
				el.AppendChild(text)
				continue
			}
			em := element(atom.Em)
			em.AppendChild(text)
			el.AppendChild(em)
		}
	}
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
