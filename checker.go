package semtag

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/semtag/extract"
	"github.com/tsawler/semtag/merge"
	"github.com/tsawler/semtag/model"
	"github.com/tsawler/semtag/semantic"
	"github.com/tsawler/semtag/tables"
)

// Checker runs structure inference over document trees. Each configuration
// method returns a new Checker, so a configured Checker can be shared and
// reused; a single Check call runs to completion on one goroutine.
type Checker struct {
	options CheckOptions
}

// clone creates a copy of the Checker with a deep copy of options.
func (c *Checker) clone() *Checker {
	return &Checker{options: c.options.clone()}
}

// WithMergeConfig sets the merge model parameters.
func (c *Checker) WithMergeConfig(config merge.Config) *Checker {
	newC := c.clone()
	newC.options.merge = config
	return newC
}

// WithSemanticConfig sets the accumulation parameters.
func (c *Checker) WithSemanticConfig(config semantic.Config) *Checker {
	newC := c.clone()
	newC.options.semantic = config
	return newC
}

// WithTableConfig sets the table tracking parameters.
func (c *Checker) WithTableConfig(config tables.Config) *Checker {
	newC := c.clone()
	newC.options.tables = config
	return newC
}

// WithExtractConfig sets the PDF extraction parameters used by CheckPDF.
func (c *Checker) WithExtractConfig(config extract.Config) *Checker {
	newC := c.clone()
	newC.options.extract = config
	return newC
}

// WithHeadingScorer replaces the default heading model.
func (c *Checker) WithHeadingScorer(h semantic.HeadingScorer) *Checker {
	newC := c.clone()
	newC.options.headings = h
	return newC
}

// WithCaptionScorer replaces the default caption model.
func (c *Checker) WithCaptionScorer(s semantic.CaptionScorer) *Checker {
	newC := c.clone()
	newC.options.captions = s
	return newC
}

// WithListDetector replaces the default list detector.
func (c *Checker) WithListDetector(d semantic.ListDetector) *Checker {
	newC := c.clone()
	newC.options.lists = d
	return newC
}

// WithLogger sets the logger. Every record of a run carries its run_id.
func (c *Checker) WithLogger(logger *slog.Logger) *Checker {
	newC := c.clone()
	newC.options.logger = logger
	return newC
}

// SkipTables disables table tracking and projection.
func (c *Checker) SkipTables() *Checker {
	newC := c.clone()
	newC.options.skipTables = true
	return newC
}

// Check infers the structure of tree and writes types and scores onto its
// nodes. The passes run in order: preprocessing, accumulation, then table
// tracking and projection.
func (c *Checker) Check(tree *model.Tree) (*Result, error) {
	if tree == nil || (tree.IsLeaf(tree.Root()) && !hasPayload(tree.Node(tree.Root()))) {
		return nil, ErrEmptyTree
	}

	runID := uuid.NewString()
	logger := c.options.logger.With("run_id", runID)
	start := time.Now()

	preprocess(tree)

	acc := semantic.NewAccumulatorWithConfig(c.options.semantic, merge.NewScorerWithConfig(c.options.merge)).
		WithLogger(logger)
	if c.options.headings != nil {
		acc = acc.WithHeadingScorer(c.options.headings)
	}
	if c.options.captions != nil {
		acc = acc.WithCaptionScorer(c.options.captions)
	}
	if c.options.lists != nil {
		acc = acc.WithListDetector(c.options.lists)
	}

	mapper := semantic.NewMapper()
	stats := acc.Accumulate(tree, mapper)
	changed := mapper.Apply(tree)
	logger.Debug("accumulation complete",
		"nodes", stats.Nodes,
		"changed", changed,
		"headings", stats.Headings,
		"captions", stats.Captions,
		"lists", stats.Lists)

	result := &Result{
		RunID:  runID,
		Tree:   tree,
		Mapper: mapper,
	}

	if !c.options.skipTables {
		tracker := tables.NewTracker(c.options.tables).WithLogger(logger)
		result.Tables, result.TableNodes = tracker.Track(tree)
		result.TableRoots = tables.NewProjector(tree).WithLogger(logger).ProjectAll(result.Tables)
	}

	result.Stats = collectStats(tree, stats, changed, len(result.Tables))
	logger.Info("check complete",
		"nodes", tree.Len(),
		"tables", len(result.Tables),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// CheckPDF extracts the content tree of a PDF file and checks it.
func (c *Checker) CheckPDF(path string) (*Result, error) {
	tree, err := c.extractor().ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return c.Check(tree)
}

// CheckPDFReader extracts the content tree of a PDF of the given size read
// from r and checks it.
func (c *Checker) CheckPDFReader(r io.ReaderAt, size int64) (*Result, error) {
	tree, err := c.extractor().Extract(r, size)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return c.Check(tree)
}

func (c *Checker) extractor() *extract.Extractor {
	return extract.NewWithConfig(c.options.extract, merge.NewScorerWithConfig(c.options.merge)).
		WithLogger(c.options.logger)
}

func hasPayload(n *model.Node) bool {
	return len(n.Lines) > 0 || n.Image != nil || n.LineArt != nil
}

// preprocess prepares the tree for accumulation: leaves without a type get
// the default type of their kind, chunk text is NFC-normalized, and boxes
// are recomputed from content. Inner nodes without extent get the union of
// their children.
func preprocess(tree *model.Tree) {
	for _, id := range tree.PostOrder() {
		n := tree.Node(id)
		if !tree.IsLeaf(id) {
			if n.BBox.IsEmpty() {
				boxes := make([]model.BBox, len(n.Children))
				for i, c := range n.Children {
					boxes[i] = tree.Node(c).BBox
				}
				if box, ok := model.UnionAll(boxes...); ok {
					n.BBox = box
				}
			}
			continue
		}

		if n.Type == model.TypeNone {
			n.Type = n.Kind.DefaultType()
		}

		for li := range n.Lines {
			chunks := n.Lines[li].Chunks
			for ci := range chunks {
				if !norm.NFC.IsNormalString(chunks[ci].Text) {
					chunks[ci].Text = norm.NFC.String(chunks[ci].Text)
				}
			}
		}

		switch {
		case len(n.Lines) > 0:
			var boxes []model.BBox
			for _, l := range n.Lines {
				if !l.IsEmpty() {
					boxes = append(boxes, l.BBox())
				}
			}
			if box, ok := model.UnionAll(boxes...); ok {
				n.BBox = box
			}
		case n.Image != nil:
			n.BBox = n.Image.BBox
		case n.LineArt != nil:
			n.BBox = n.LineArt.BBox
		}
	}
}
