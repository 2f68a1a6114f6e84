package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/tsawler/semtag/merge"
	"github.com/tsawler/semtag/model"
)

// ErrNoContent is returned when no page yields text or line-art
var ErrNoContent = errors.New("no extractable content")

// Config holds the grouping parameters. Distances are relative to the
// font size of the glyphs compared.
type Config struct {
	// RunMergeThreshold is the smallest chunk merge probability at which two
	// neighbouring glyph runs are joined
	// Default: 0.5
	RunMergeThreshold float64 `yaml:"run_merge_threshold"`

	// LineTolerance is the largest baseline offset of glyphs on one line
	// Default: 0.3
	LineTolerance float64 `yaml:"line_tolerance"`

	// WordGap is the horizontal gap above which a space is inserted between
	// two glyphs of one run
	// Default: 0.15
	WordGap float64 `yaml:"word_gap"`

	// BlockGap is the baseline distance above which a new block starts
	// Default: 2.0
	BlockGap float64 `yaml:"block_gap"`
}

// DefaultConfig returns the standard extraction parameters
func DefaultConfig() Config {
	return Config{
		RunMergeThreshold: 0.5,
		LineTolerance:     0.3,
		WordGap:           0.15,
		BlockGap:          2.0,
	}
}

// Glyph is one positioned text element of a page. X and Y are the origin
// of the glyph on its baseline; W is the advance width.
type Glyph struct {
	Font string
	Size float64
	X, Y float64
	W    float64
	S    string
}

// Page is the raw content of one page
type Page struct {
	Number int
	Glyphs []Glyph
	Rects  []model.BBox
}

// Extractor turns PDF pages into content trees
type Extractor struct {
	config Config
	scorer *merge.Scorer
	logger *slog.Logger
}

// New creates an extractor with default configuration
func New() *Extractor {
	return NewWithConfig(DefaultConfig(), merge.NewScorer())
}

// NewWithConfig creates an extractor with the given configuration and merge
// model
func NewWithConfig(config Config, scorer *merge.Scorer) *Extractor {
	return &Extractor{
		config: config,
		scorer: scorer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger returns a copy that logs to logger
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	c := *e
	c.logger = logger
	return &c
}

// ExtractFile reads the PDF at path and builds its content tree
func (e *Extractor) ExtractFile(path string) (*model.Tree, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	return e.extract(reader)
}

// Extract reads a PDF of the given size from r and builds its content tree
func (e *Extractor) Extract(r io.ReaderAt, size int64) (*model.Tree, error) {
	reader, err := pdflib.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return e.extract(reader)
}

func (e *Extractor) extract(reader *pdflib.Reader) (*model.Tree, error) {
	numPages := reader.NumPage()
	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages = append(pages, readPage(i, p.Content()))
	}
	e.logger.Debug("pdf read", "pages", numPages)
	return e.Build(pages)
}

func readPage(number int, content pdflib.Content) Page {
	page := Page{Number: number}
	for _, t := range content.Text {
		page.Glyphs = append(page.Glyphs, Glyph{
			Font: t.Font,
			Size: t.FontSize,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
			S:    t.S,
		})
	}
	for _, r := range content.Rect {
		page.Rects = append(page.Rects, model.NewBBox(
			math.Min(r.Min.X, r.Max.X), math.Min(r.Min.Y, r.Max.Y),
			math.Max(r.Min.X, r.Max.X), math.Max(r.Min.Y, r.Max.Y)))
	}
	return page
}

// Build assembles the content tree of the given pages. Pages without text
// or rectangles are skipped.
func (e *Extractor) Build(pages []Page) (*model.Tree, error) {
	tree := model.NewTree(model.Node{
		Kind:        model.KindGroup,
		InitialType: model.TypeDocument,
	})

	for _, page := range pages {
		lines := e.lines(page.Glyphs)
		if len(lines) == 0 && len(page.Rects) == 0 {
			continue
		}
		pageID := tree.AddNode(tree.Root(), model.Node{Kind: model.KindGroup})

		items := e.blocks(lines, page.Rects)
		for _, it := range items {
			if it.figure != nil {
				tree.AddNode(pageID, model.Node{
					Kind:    model.KindFigure,
					BBox:    *it.figure,
					LineArt: &model.LineArtChunk{BBox: *it.figure, Paths: 1},
				})
				continue
			}
			blockID := tree.AddNode(pageID, model.Node{Kind: model.KindGroup, InitialType: model.TypeParagraph})
			for _, l := range it.lines {
				lineID := tree.AddNode(blockID, model.Node{Kind: model.KindGroup, InitialType: model.TypeSpan, BBox: l.BBox()})
				for _, c := range l.Chunks {
					tree.AddNode(lineID, model.Node{
						Kind:  model.KindSpan,
						BBox:  c.BBox,
						Lines: []model.TextLine{model.NewTextLine(c)},
					})
				}
			}
			setGroupBox(tree, blockID)
		}
		setGroupBox(tree, pageID)

		e.logger.Debug("page built", "page", page.Number, "lines", len(lines), "rects", len(page.Rects))
	}

	if tree.IsLeaf(tree.Root()) {
		return nil, ErrNoContent
	}
	setGroupBox(tree, tree.Root())
	return tree, nil
}

func setGroupBox(tree *model.Tree, id model.NodeID) {
	children := tree.Children(id)
	boxes := make([]model.BBox, len(children))
	for i, c := range children {
		boxes[i] = tree.Node(c).BBox
	}
	if box, ok := model.UnionAll(boxes...); ok {
		tree.Node(id).BBox = box
	}
}

// lines groups the glyphs of a page into text lines ordered top to bottom.
// Glyphs of a line are ordered left to right and merged into runs.
func (e *Extractor) lines(glyphs []Glyph) []model.TextLine {
	sorted := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" || g.Size <= 0 {
			continue
		}
		sorted = append(sorted, g)
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var groups [][]Glyph
	current := []Glyph{sorted[0]}
	for _, g := range sorted[1:] {
		ref := current[0]
		tolerance := e.config.LineTolerance * math.Max(ref.Size, g.Size)
		if math.Abs(g.Y-ref.Y) <= tolerance {
			current = append(current, g)
			continue
		}
		groups = append(groups, current)
		current = []Glyph{g}
	}
	groups = append(groups, current)

	lines := make([]model.TextLine, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].X < group[j].X
		})
		if l := e.runs(group); !l.IsEmpty() {
			lines = append(lines, l)
		}
	}
	return lines
}

// runs merges the glyphs of one line into chunks. A glyph joins the current
// chunk when the chunk merge probability reaches RunMergeThreshold. Blank
// glyphs extend the current chunk with a trailing space.
func (e *Extractor) runs(glyphs []Glyph) model.TextLine {
	var chunks []model.TextChunk

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			if len(chunks) > 0 {
				last := &chunks[len(chunks)-1]
				if !last.EndsWithSpace() {
					last.Text += " "
					last.BBox.Right = math.Max(last.BBox.Right, g.X+g.W)
				}
			}
			continue
		}

		next := glyphChunk(g)
		if len(chunks) == 0 {
			chunks = append(chunks, next)
			continue
		}

		last := &chunks[len(chunks)-1]
		if e.scorer.ChunkMerge(*last, next) < e.config.RunMergeThreshold {
			chunks = append(chunks, next)
			continue
		}

		gap := next.BBox.Left - last.BBox.Right
		if !last.EndsWithSpace() && gap > e.config.WordGap*math.Max(last.FontSize, next.FontSize) {
			last.Text += " "
		}
		last.Text += next.Text
		last.BBox = last.BBox.Union(next.BBox)
	}

	return model.NewTextLine(chunks...)
}

func glyphChunk(g Glyph) model.TextChunk {
	return model.TextChunk{
		Text:     g.S,
		FontName: g.Font,
		FontSize: g.Size,
		Color:    model.Black,
		Baseline: g.Y,
		BBox:     model.NewBBox(g.X, g.Y-0.2*g.Size, g.X+g.W, g.Y+0.8*g.Size),
	}
}

// item is a block of lines or a figure in reading order
type item struct {
	lines  []model.TextLine
	figure *model.BBox
}

func (it item) top() float64 {
	if it.figure != nil {
		return it.figure.Top
	}
	return it.lines[0].BBox().Top
}

// blocks splits lines into blocks at large baseline gaps and interleaves
// the figures by their top edge.
func (e *Extractor) blocks(lines []model.TextLine, rects []model.BBox) []item {
	var items []item
	var current []model.TextLine
	for i, l := range lines {
		if i > 0 {
			prev := lines[i-1]
			size := math.Max(prev.FontSize(), l.FontSize())
			if prev.Baseline()-l.Baseline() > e.config.BlockGap*size {
				items = append(items, item{lines: current})
				current = nil
			}
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		items = append(items, item{lines: current})
	}

	for i := range rects {
		if !rects[i].IsValid() {
			continue
		}
		items = append(items, item{figure: &rects[i]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].top() > items[j].top()
	})
	return items
}
