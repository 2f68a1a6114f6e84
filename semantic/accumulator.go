// Package semantic synthesizes the semantic structure of a document tree
// bottom-up. Each inner node's children are merged into a span or paragraph
// candidate whose score is the weakest pairwise merge probability, then
// promoted to heading, caption, or list when its context supports it.
//
// Results are collected in a [Mapper] and written onto the tree in one step
// by [Mapper.Apply].
package semantic

import (
	"io"
	"log/slog"

	"github.com/tsawler/semtag/classify"
	"github.com/tsawler/semtag/lists"
	"github.com/tsawler/semtag/merge"
	"github.com/tsawler/semtag/model"
)

// HeadingScorer scores a heading candidate given the text nodes around it.
// Absent neighbors are nil.
type HeadingScorer interface {
	HeadingProbability(candidate, prev, next, nextNext *model.SemanticNode, hint model.SemanticType) float64
}

// CaptionScorer scores a caption candidate against one neighbor
type CaptionScorer interface {
	CaptionProbability(candidate, neighbor *model.SemanticNode) float64
}

// ListDetector finds runs of list items among sibling candidates
type ListDetector interface {
	IsListLabel(r rune) bool
	TextIntervals(items []string) []lists.Interval
	ImageIntervals(images []*model.ImageChunk) []lists.Interval
	LineArtIntervals(arts []*model.LineArtChunk) []lists.Interval
}

// Config holds configuration for accumulation
type Config struct {
	// PromotionThreshold is the heading and caption probability at which a
	// node is promoted
	// Default: 0.75
	PromotionThreshold float64 `yaml:"promotion_threshold"`

	// OneLineFloor is the least one-line probability at which two fragments
	// are spliced into one line
	// Default: 0.1
	OneLineFloor float64 `yaml:"one_line_floor"`

	// IgnoredTypes are initial types whose nodes are skipped by merging
	// Default: Form, Annot, Note, Formula
	IgnoredTypes []model.SemanticType `yaml:"ignored_types"`

	// ListLabelAlignment is the largest left-edge offset, in points, between
	// items of one list
	// Default: 3
	ListLabelAlignment float64 `yaml:"list_label_alignment"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		PromotionThreshold: 0.75,
		OneLineFloor:       0.1,
		IgnoredTypes: []model.SemanticType{
			model.TypeForm, model.TypeAnnot, model.TypeNote, model.TypeFormula,
		},
		ListLabelAlignment: 3,
	}
}

// Stats counts what one accumulation pass produced
type Stats struct {
	Nodes     int
	Headings  int
	Captions  int
	Lists     int
	ListItems int
	Collapsed int
}

// Accumulator runs the bottom-up accumulation pass. It holds no per-run
// state and can be reused across trees.
type Accumulator struct {
	config   Config
	ignored  map[model.SemanticType]bool
	scorer   *merge.Scorer
	headings HeadingScorer
	captions CaptionScorer
	lists    ListDetector
	logger   *slog.Logger
}

// NewAccumulator creates an accumulator with default configuration and the
// default heading, caption, and list models
func NewAccumulator() *Accumulator {
	return NewAccumulatorWithConfig(DefaultConfig(), merge.NewScorer())
}

// NewAccumulatorWithConfig creates an accumulator with custom configuration
func NewAccumulatorWithConfig(config Config, scorer *merge.Scorer) *Accumulator {
	ignored := make(map[model.SemanticType]bool, len(config.IgnoredTypes))
	for _, t := range config.IgnoredTypes {
		ignored[t] = true
	}
	return &Accumulator{
		config:   config,
		ignored:  ignored,
		scorer:   scorer,
		headings: classify.NewHeadingClassifier(),
		captions: classify.NewCaptionClassifier(),
		lists:    lists.NewDetector(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithHeadingScorer returns a copy using h for heading promotion
func (a *Accumulator) WithHeadingScorer(h HeadingScorer) *Accumulator {
	c := *a
	c.headings = h
	return &c
}

// WithCaptionScorer returns a copy using s for caption promotion
func (a *Accumulator) WithCaptionScorer(s CaptionScorer) *Accumulator {
	c := *a
	c.captions = s
	return &c
}

// WithListDetector returns a copy using d for list detection
func (a *Accumulator) WithListDetector(d ListDetector) *Accumulator {
	c := *a
	c.lists = d
	return &c
}

// WithLogger returns a copy that logs to logger
func (a *Accumulator) WithLogger(logger *slog.Logger) *Accumulator {
	c := *a
	c.logger = logger
	return &c
}

// Accumulate visits every node of t children-first and records its
// accumulated form in m. List wrapper nodes inserted during the pass are
// recorded but not visited.
func (a *Accumulator) Accumulate(t *model.Tree, m *Mapper) Stats {
	p := &pass{Accumulator: a, tree: t, mapper: m}
	for _, id := range t.PostOrder() {
		p.visit(id)
	}
	return p.stats
}

// pass is the state of one accumulation run
type pass struct {
	*Accumulator
	tree   *model.Tree
	mapper *Mapper
	stats  Stats
}

func (p *pass) visit(id model.NodeID) {
	p.stats.Nodes++
	n := p.tree.Node(id)
	if len(n.Children) == 0 {
		p.mapper.Update(id, model.SemanticNodeOf(n), 1, n.Type)
		return
	}

	children := append([]model.NodeID(nil), n.Children...)
	if n.InitialType == model.TypeSpan && p.allSpanLike(children) {
		p.accumulateText(id, children, model.KindSpan)
	} else {
		p.accumulateText(id, children, model.KindParagraph)
	}
	p.collapseVisual(id, children)
	p.markSpecialStyles(id, children)

	if !p.allLeafLike(children) {
		p.promoteHeadings(children)
		p.detectLists(id)
		p.promoteCaptions(p.tree.Children(id))
	}
}

func isLeafKind(k model.Kind) bool {
	return k == model.KindSpan || k.IsVisual()
}

// allSpanLike reports whether every child is a span, image, figure, or
// unclassified node
func (p *pass) allSpanLike(children []model.NodeID) bool {
	for _, c := range children {
		typ := p.mapper.Type(c)
		if !isLeafKind(p.tree.Node(c).Kind) && typ != model.TypeSpan && typ != model.TypeNone {
			return false
		}
	}
	return true
}

// allLeafLike reports whether every child is a leaf primitive or
// unclassified
func (p *pass) allLeafLike(children []model.NodeID) bool {
	for _, c := range children {
		if !isLeafKind(p.tree.Node(c).Kind) && p.mapper.Type(c) != model.TypeNone {
			return false
		}
	}
	return true
}

// accumulateText merges the children into one candidate of the given kind.
// The first usable text child seeds the candidate; each later child lowers
// the running score to its merge probability.
func (p *pass) accumulateText(id model.NodeID, children []model.NodeID, kind model.Kind) {
	var candidate *model.SemanticNode
	score := 0.0

	for _, c := range children {
		e, ok := p.mapper.Entry(c)
		if !ok || e.Type == model.TypeNone || p.ignored[p.tree.Node(c).InitialType] {
			continue
		}
		if e.Node == nil {
			p.logger.Warn("typed node has no accumulated form", "node", int(c), "type", e.Type.String())
			continue
		}

		if candidate == nil {
			if p.canSeed(e, kind) {
				candidate = e.Node.WithKind(kind)
				score = e.Score
			}
			continue
		}

		if !p.canSeed(e, kind) {
			score = 0
			continue
		}
		score = minScore(score, p.mergeText(candidate, e.Node, e.Score))
	}

	if candidate == nil {
		p.mapper.Update(id, &model.SemanticNode{Kind: model.KindGroup, BBox: p.tree.Node(id).BBox}, 0, model.TypeNone)
		return
	}
	p.mapper.Update(id, candidate, score, kind.DefaultType())
}

// canSeed reports whether an accumulated child can start or join a
// candidate of the given kind. Spans only merge spans; paragraphs take any
// text node.
func (p *pass) canSeed(e Entry, kind model.Kind) bool {
	if !e.Node.IsText() {
		return false
	}
	if kind == model.KindSpan {
		return e.Type == model.TypeSpan
	}
	return true
}

// collapseVisual makes a node stand for its single image or figure child
// when every other child is empty or whitespace text
func (p *pass) collapseVisual(id model.NodeID, children []model.NodeID) {
	visual := model.NoNode
	for _, c := range children {
		acc := p.mapper.Get(c)
		if acc == nil {
			continue
		}
		switch {
		case acc.IsText():
			if !acc.IsEmpty() && !acc.IsSpace() {
				return
			}
		case acc.Kind.IsVisual():
			if visual != model.NoNode {
				return
			}
			visual = c
		}
	}
	if visual == model.NoNode {
		return
	}

	typ := p.mapper.Type(visual)
	if typ == model.TypeNone {
		typ = model.TypeFigure
	}
	p.mapper.Update(id, p.mapper.Get(visual), p.mapper.Score(visual), typ)
	p.stats.Collapsed++
}

// markSpecialStyles flags chunks of span leaf children whose font differs
// from the dominant style of the accumulated node
func (p *pass) markSpecialStyles(id model.NodeID, children []model.NodeID) {
	acc := p.mapper.Get(id)
	if !acc.IsText() {
		return
	}
	style := acc.DominantStyle()

	for _, c := range children {
		n := p.tree.Node(c)
		if n.Kind != model.KindSpan || len(n.Children) > 0 {
			continue
		}
		for li := range n.Lines {
			chunks := n.Lines[li].Chunks
			for ci := range chunks {
				if chunks[ci].IsWhiteSpace() {
					continue
				}
				if chunks[ci].Style() != style {
					chunks[ci].SpecialStyle = true
				}
			}
		}
	}
}

func minScore(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}
