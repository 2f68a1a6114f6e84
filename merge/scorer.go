package merge

import (
	"math"

	"github.com/tsawler/semtag/model"
)

// Config holds the kernel parameters of every scored dimension. Thresholds
// are falloff lengths; ratios are relative to the larger font size.
type Config struct {
	// Epsilon is the kernel comparison tolerance
	// Default: 1e-7
	Epsilon float64 `yaml:"epsilon"`

	// FontSizeThreshold is the falloff for 1 - (smaller/larger font size)
	// Default: 0.05
	FontSizeThreshold float64 `yaml:"font_size_threshold"`

	// BaselineThreshold is the falloff for the absolute baseline difference
	// Default: 0.1
	BaselineThreshold float64 `yaml:"baseline_threshold"`

	// SpacingInterval is the certain range of gap / font size
	// Default: [0, 0.33]
	SpacingInterval  Interval `yaml:"spacing_interval"`
	SpacingThreshold float64  `yaml:"spacing_threshold"`

	// WhitespaceRatio estimates the width of a space as a fraction of the
	// font size. It is added to the gap when a run ends or starts with a space.
	// Default: 0.25
	WhitespaceRatio float64 `yaml:"whitespace_ratio"`

	// LeadingInterval is the certain range of baseline difference / font size
	// Default: [0, 1.5]
	LeadingInterval  Interval `yaml:"leading_interval"`
	LeadingThreshold float64  `yaml:"leading_threshold"`

	// LeadingFontSizeGap is the largest font size difference for which
	// leading is compared at all
	// Default: 0.95
	LeadingFontSizeGap float64 `yaml:"leading_font_size_gap"`

	// IndentationInterval is the certain range of the smallest edge offset
	// (left, right, or center) / font size. Point(0) scores aligned lines
	// as certain instead.
	// Default: [1, 1]
	IndentationInterval  Interval `yaml:"indentation_interval"`
	IndentationThreshold float64  `yaml:"indentation_threshold"`

	// NestingThreshold is the falloff for the vertical near-nesting ratio
	// Default: 0.1
	NestingThreshold float64 `yaml:"nesting_threshold"`

	// ColumnGapInterval is the certain range of the column gutter / font size
	// Default: [0.5, 6]
	ColumnGapInterval  Interval `yaml:"column_gap_interval"`
	ColumnGapThreshold float64  `yaml:"column_gap_threshold"`
}

// DefaultConfig returns the standard scoring parameters
func DefaultConfig() Config {
	return Config{
		Epsilon:              Epsilon,
		FontSizeThreshold:    0.05,
		BaselineThreshold:    0.1,
		SpacingInterval:      Interval{Min: 0, Max: 0.33},
		SpacingThreshold:     0.1,
		WhitespaceRatio:      0.25,
		LeadingInterval:      Interval{Min: 0, Max: 1.5},
		LeadingThreshold:     1,
		LeadingFontSizeGap:   0.95,
		IndentationInterval:  Point(1),
		IndentationThreshold: 0.1,
		NestingThreshold:     0.1,
		ColumnGapInterval:    Interval{Min: 0.5, Max: 6},
		ColumnGapThreshold:   1,
	}
}

// Run is the geometric view of a chunk or a line that the dimension scores
// compare
type Run struct {
	BBox     model.BBox
	FontName string
	FontSize float64
	Color    model.Color
	Baseline float64

	// LeadingSpace and TrailingSpace are set when the text starts or ends
	// with a space character
	LeadingSpace  bool
	TrailingSpace bool

	// NotFull marks a spliced line fragment
	NotFull bool
}

// ChunkRun returns the run of a single chunk
func ChunkRun(c model.TextChunk) Run {
	return Run{
		BBox:          c.BBox,
		FontName:      c.FontName,
		FontSize:      c.FontSize,
		Color:         c.Color,
		Baseline:      c.Baseline,
		LeadingSpace:  c.StartsWithSpace(),
		TrailingSpace: c.EndsWithSpace(),
	}
}

// LineRun returns the run of a line. Font identity comes from the first
// chunk and the size is the largest on the line.
func LineRun(l model.TextLine) Run {
	first := l.FirstChunk()
	return Run{
		BBox:          l.BBox(),
		FontName:      first.FontName,
		FontSize:      l.FontSize(),
		Color:         first.Color,
		Baseline:      l.Baseline(),
		LeadingSpace:  first.StartsWithSpace(),
		TrailingSpace: l.LastChunk().EndsWithSpace(),
		NotFull:       l.NotFull,
	}
}

// Scorer computes merge probabilities. It is stateless apart from its
// configuration and safe for concurrent use.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer with default configuration
func NewScorer() *Scorer {
	return &Scorer{config: DefaultConfig()}
}

// NewScorerWithConfig creates a scorer with custom configuration
func NewScorerWithConfig(config Config) *Scorer {
	return &Scorer{config: config}
}

// Config returns the scorer configuration
func (s *Scorer) Config() Config {
	return s.config
}

func (s *Scorer) uniform(iv Interval, p, length float64) float64 {
	return UniformEps(iv, p, length, s.config.Epsilon)
}

// FontNameScore is 1 when both runs use the same font, else 0
func (s *Scorer) FontNameScore(x, y Run) float64 {
	if x.FontName == y.FontName {
		return 1
	}
	return 0
}

// ColorScore is 1 when both runs have the exact same RGB color, else 0
func (s *Scorer) ColorScore(x, y Run) float64 {
	if x.Color == y.Color {
		return 1
	}
	return 0
}

// FontSizeScore compares the ratio of the smaller to the larger font size.
// Equal sizes score 1.
func (s *Scorer) FontSizeScore(x, y Run) float64 {
	small, large := math.Min(x.FontSize, y.FontSize), math.Max(x.FontSize, y.FontSize)
	if large <= 0 {
		if small == large {
			return 1
		}
		return 0
	}
	return s.uniform(Point(0), 1-small/large, s.config.FontSizeThreshold)
}

// BaselineScore compares the absolute baseline difference
func (s *Scorer) BaselineScore(x, y Run) float64 {
	diff := math.Abs(x.Baseline - y.Baseline)
	return s.uniform(Interval{Min: 0, Max: s.config.Epsilon}, diff, s.config.BaselineThreshold)
}

// SpacingScore compares the horizontal gap between the end of x and the
// start of y, widened by a space estimate on each side that has one.
func (s *Scorer) SpacingScore(x, y Run) float64 {
	maxSize := math.Max(x.FontSize, y.FontSize)
	if maxSize <= 0 {
		return 0
	}

	gap := math.Abs(x.BBox.Right - y.BBox.Left)
	if x.TrailingSpace {
		gap += s.config.WhitespaceRatio * x.FontSize
	}
	if y.LeadingSpace {
		gap += s.config.WhitespaceRatio * y.FontSize
	}
	return s.uniform(s.config.SpacingInterval, gap/maxSize, s.config.SpacingThreshold)
}

// LeadingScore compares the baseline distance of two lines. Lines whose font
// sizes differ too much score 0.
func (s *Scorer) LeadingScore(x, y Run) float64 {
	if math.Abs(x.FontSize-y.FontSize) > s.config.LeadingFontSizeGap {
		return 0
	}
	maxSize := math.Max(x.FontSize, y.FontSize)
	if maxSize <= 0 {
		return 0
	}
	diff := math.Abs(x.Baseline - y.Baseline)
	return s.uniform(s.config.LeadingInterval, diff/maxSize, s.config.LeadingThreshold)
}

// IndentationScore compares the smallest of the left, right, and center
// offsets of two lines. Spliced fragments compare by left edge only.
func (s *Scorer) IndentationScore(x, y Run) float64 {
	maxSize := math.Max(x.FontSize, y.FontSize)
	if maxSize <= 0 {
		return 0
	}

	minDiff := math.Abs(x.BBox.Left - y.BBox.Left)
	if !x.NotFull && !y.NotFull {
		right := math.Abs(x.BBox.Right - y.BBox.Right)
		center := math.Abs((x.BBox.Left+x.BBox.Right)-(y.BBox.Left+y.BBox.Right)) / 2
		minDiff = math.Min(minDiff, math.Min(right, center))
	}
	return s.uniform(s.config.IndentationInterval, minDiff/maxSize, s.config.IndentationThreshold)
}

// NestingScore measures how close two boxes are to sharing one vertical
// band: the smaller of the bottom and top offsets relative to the vertical
// overlap. Boxes without vertical overlap score 0.
func (s *Scorer) NestingScore(x, y Run) float64 {
	a, b := x.BBox, y.BBox
	minBottom, maxBottom := math.Min(a.Bottom, b.Bottom), math.Max(a.Bottom, b.Bottom)
	minTop, maxTop := math.Min(a.Top, b.Top), math.Max(a.Top, b.Top)

	intersection := minTop - maxBottom
	minDiff := math.Min(maxBottom-minBottom, maxTop-minTop)
	if intersection <= s.config.Epsilon {
		// identical flat boxes
		if intersection >= -s.config.Epsilon && minDiff <= s.config.Epsilon {
			return 1
		}
		return 0
	}
	return s.uniform(Point(0), minDiff/intersection, s.config.NestingThreshold)
}

// ChunkMerge is the probability that two chunks belong to one span
func (s *Scorer) ChunkMerge(x, y model.TextChunk) float64 {
	a, b := ChunkRun(x), ChunkRun(y)
	p := s.FontNameScore(a, b)
	p *= s.FontSizeScore(a, b)
	p *= s.ColorScore(a, b)
	p *= s.BaselineScore(a, b)
	p *= s.SpacingScore(a, b)
	return p
}

// LineMerge is the probability that two line fragments form one visual line
func (s *Scorer) LineMerge(x, y model.TextLine) float64 {
	a, b := LineRun(x), LineRun(y)
	return s.SpacingScore(a, b) * s.NestingScore(a, b)
}

// OneLine is the probability that the last line of one node and the first
// line of the next are fragments of the same visual line
func (s *Scorer) OneLine(x, y model.TextLine) float64 {
	return s.LineMerge(x, y)
}

// ParagraphMerge is the probability that two consecutive lines belong to
// one paragraph
func (s *Scorer) ParagraphMerge(x, y model.TextLine) float64 {
	a, b := LineRun(x), LineRun(y)
	return s.LeadingScore(a, b) * s.IndentationScore(a, b)
}

// Leading is the leading score of two lines on its own, used when either
// side has a single line and indentation carries no information
func (s *Scorer) Leading(x, y model.TextLine) float64 {
	return s.LeadingScore(LineRun(x), LineRun(y))
}

// ColumnsMerge is the probability that y starts the next column of the text
// that x ends: y begins to the right of x and higher up the page, separated
// by a plausible gutter.
func (s *Scorer) ColumnsMerge(x, y model.TextLine) float64 {
	a, b := LineRun(x), LineRun(y)
	if b.BBox.Left <= a.BBox.Right || b.Baseline <= a.Baseline {
		return 0
	}
	maxSize := math.Max(a.FontSize, b.FontSize)
	if maxSize <= 0 {
		return 0
	}
	gap := b.BBox.Left - a.BBox.Right
	return s.FontSizeScore(a, b) * s.uniform(s.config.ColumnGapInterval, gap/maxSize, s.config.ColumnGapThreshold)
}
