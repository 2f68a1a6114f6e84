package classify

import (
	"math"
	"regexp"
	"strings"

	"github.com/tsawler/semtag/merge"
	"github.com/tsawler/semtag/model"
)

// CaptionConfig holds configuration for caption classification
type CaptionConfig struct {
	// GapInterval is the certain range of the vertical gap between caption
	// and image, in caption font sizes
	// Default: [0, 1.5]
	GapInterval  merge.Interval `yaml:"gap_interval"`
	GapThreshold float64        `yaml:"gap_threshold"`

	// MinOverlap is the horizontal overlap, relative to the narrower box,
	// at which alignment is certain
	// Default: 0.5
	MinOverlap float64 `yaml:"min_overlap"`

	// MaxLines is the largest caption line count scored without penalty
	// Default: 3
	MaxLines int `yaml:"max_lines"`

	// KeywordBoost is added when the text starts like "Figure 3" or "Table 1"
	// Default: 0.25
	KeywordBoost float64 `yaml:"keyword_boost"`

	// BaseScore scales a well-placed caption without a keyword
	// Default: 0.8
	BaseScore float64 `yaml:"base_score"`
}

// DefaultCaptionConfig returns sensible default configuration
func DefaultCaptionConfig() CaptionConfig {
	return CaptionConfig{
		GapInterval:  merge.Interval{Min: 0, Max: 1.5},
		GapThreshold: 1.5,
		MinOverlap:   0.5,
		MaxLines:     3,
		KeywordBoost: 0.25,
		BaseScore:    0.8,
	}
}

var captionPattern = regexp.MustCompile(`^(?i)(figure|fig\.|table|tab\.|image|photo|chart|diagram|exhibit|plate)\s*[\dIVXivx]+`)

// CaptionClassifier scores how likely a text node captions a neighboring
// image or figure
type CaptionClassifier struct {
	config CaptionConfig
}

// NewCaptionClassifier creates a classifier with default configuration
func NewCaptionClassifier() *CaptionClassifier {
	return &CaptionClassifier{config: DefaultCaptionConfig()}
}

// NewCaptionClassifierWithConfig creates a classifier with custom configuration
func NewCaptionClassifierWithConfig(config CaptionConfig) *CaptionClassifier {
	return &CaptionClassifier{config: config}
}

// CaptionProbability returns the probability that candidate is the caption
// of neighbor. Only text candidates next to images or figures score above 0.
func (c *CaptionClassifier) CaptionProbability(candidate, neighbor *model.SemanticNode) float64 {
	if !candidate.HasContent() || neighbor == nil || !neighbor.Kind.IsVisual() {
		return 0
	}
	fontSize := candidate.FontSize()
	if fontSize <= 0 {
		return 0
	}

	cb, nb := candidate.BBox, neighbor.BBox
	var gap float64
	switch {
	case cb.Top <= nb.Bottom:
		gap = nb.Bottom - cb.Top
	case cb.Bottom >= nb.Top:
		gap = cb.Bottom - nb.Top
	default:
		// side by side
		gap = math.Max(cb.Left-nb.Right, nb.Left-cb.Right)
		if gap < 0 {
			gap = 0
		}
	}
	gapScore := merge.Uniform(c.config.GapInterval, gap/fontSize, c.config.GapThreshold)

	narrow := math.Min(cb.Width(), nb.Width())
	alignScore := 1.0
	if narrow > 0 {
		overlap := cb.HorizontalOverlap(nb) / narrow
		if v := cb.VerticalOverlap(nb); v > 0 && math.Min(cb.Height(), nb.Height()) > 0 {
			overlap = v / math.Min(cb.Height(), nb.Height())
		}
		alignScore = merge.Uniform(merge.Interval{Min: c.config.MinOverlap, Max: 1}, overlap, c.config.MinOverlap)
	}

	p := c.config.BaseScore * gapScore * alignScore
	if p == 0 {
		return 0
	}
	if captionPattern.MatchString(strings.TrimSpace(candidate.Text())) {
		p += c.config.KeywordBoost
	}
	if len(candidate.Lines) > c.config.MaxLines {
		p *= 0.5
	}
	return math.Min(p, 1)
}
