// Package classify provides the default heading and caption probability
// models used by the semantic accumulator.
package classify

import (
	"regexp"
	"strings"

	"github.com/tsawler/semtag/model"
)

// HeadingConfig holds configuration for heading classification
type HeadingConfig struct {
	// MaxHeadingLines is the maximum number of lines for a heading
	// Default: 3
	MaxHeadingLines int `yaml:"max_heading_lines"`

	// MaxWords is the word count above which text is never a heading
	// Default: 30
	MaxWords int `yaml:"max_words"`

	// BoldIndicatesHeading when true, bold text followed by regular text is
	// more likely a heading
	// Default: true
	BoldIndicatesHeading bool `yaml:"bold_indicates_heading"`

	// AllCapsIndicatesHeading when true, ALL CAPS text is more likely a heading
	// Default: true
	AllCapsIndicatesHeading bool `yaml:"all_caps_indicates_heading"`

	// HintBoost is added when the source document already tagged the node as
	// a heading
	// Default: 0.3
	HintBoost float64 `yaml:"hint_boost"`

	// NumberedPatterns are regex patterns for numbered headings
	NumberedPatterns []*regexp.Regexp `yaml:"-"`
}

// DefaultHeadingConfig returns sensible default configuration
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		MaxHeadingLines:         3,
		MaxWords:                30,
		BoldIndicatesHeading:    true,
		AllCapsIndicatesHeading: true,
		HintBoost:               0.3,
		NumberedPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(?i)(chapter|section|part)\s+\d+`),
			regexp.MustCompile(`^\d+\.\s`),
			regexp.MustCompile(`^\d+(\.\d+)+\.?\s`),
			regexp.MustCompile(`^[IVXLCDM]+\.\s`),
			regexp.MustCompile(`^[A-Z]\.\s`),
		},
	}
}

// HeadingClassifier scores how likely a text node is a heading given the
// nodes around it
type HeadingClassifier struct {
	config HeadingConfig
}

// NewHeadingClassifier creates a classifier with default configuration
func NewHeadingClassifier() *HeadingClassifier {
	return &HeadingClassifier{config: DefaultHeadingConfig()}
}

// NewHeadingClassifierWithConfig creates a classifier with custom configuration
func NewHeadingClassifierWithConfig(config HeadingConfig) *HeadingClassifier {
	return &HeadingClassifier{config: config}
}

// HeadingProbability returns the probability that candidate heads the text
// that follows it. The following node is the reference body text; a
// candidate with nothing after it, or that sits below its successor on the
// page, scores 0.
func (c *HeadingClassifier) HeadingProbability(candidate, prev, next, nextNext *model.SemanticNode, hint model.SemanticType) float64 {
	if !candidate.HasContent() || !next.HasContent() {
		return 0
	}
	if len(candidate.Lines) > c.config.MaxHeadingLines {
		return 0
	}
	if candidate.BBox.Top < next.BBox.Bottom {
		return 0
	}

	text := strings.TrimSpace(candidate.Text())
	words := len(strings.Fields(text))
	if words > c.config.MaxWords {
		return 0
	}

	confidence := 0.0

	// Font size relative to the body text that follows is the strongest
	// indicator. Two short nodes in a row (a heading followed by a
	// subheading) compare against the node after that.
	body := next
	if nextNext.HasContent() && len(next.Lines) == 1 && len(nextNext.Lines) > 1 {
		body = nextNext
	}
	if bodySize := body.FontSize(); bodySize > 0 {
		ratio := candidate.FontSize() / bodySize
		switch {
		case ratio >= 1.5:
			confidence += 0.5
		case ratio >= 1.2:
			confidence += 0.35
		case ratio >= 1.1:
			confidence += 0.2
		case ratio >= 1.05:
			confidence += 0.1
		case ratio < 0.95:
			confidence -= 0.3
		}
	}

	if c.config.BoldIndicatesHeading && isBold(candidate) && !isBold(body) {
		confidence += 0.2
	}
	if c.config.AllCapsIndicatesHeading && isAllCaps(text) {
		confidence += 0.15
	}
	if c.isNumbered(text) {
		confidence += 0.2
	}

	// A heading is usually separated from what came before it by more space
	// than from what follows.
	if prev.HasContent() {
		above := prev.BBox.Bottom - candidate.BBox.Top
		below := candidate.BBox.Bottom - next.BBox.Top
		if above > below && below >= 0 {
			confidence += 0.1
		}
	}

	if strings.HasSuffix(text, ".") && !c.isNumbered(text) {
		confidence -= 0.1
	}

	if words <= 10 {
		confidence += 0.1
	} else if words <= 20 {
		confidence += 0.05
	}

	if len(candidate.Lines) == 1 {
		confidence += 0.1
	} else if len(candidate.Lines) <= 2 {
		confidence += 0.05
	}

	if hint.IsHeading() {
		confidence += c.config.HintBoost
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// isBold checks the dominant font name for weight indicators
func isBold(n *model.SemanticNode) bool {
	fontLower := strings.ToLower(n.DominantStyle().FontName)
	return strings.Contains(fontLower, "bold") ||
		strings.Contains(fontLower, "black") ||
		strings.Contains(fontLower, "heavy") ||
		strings.Contains(fontLower, "semibold") ||
		strings.Contains(fontLower, "demibold")
}

// isAllCaps checks if text is in all capital letters
func isAllCaps(text string) bool {
	upperCount := 0
	lowerCount := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			upperCount++
		} else if r >= 'a' && r <= 'z' {
			lowerCount++
		}
	}

	if upperCount+lowerCount < 3 {
		return false
	}
	return lowerCount == 0 || float64(upperCount)/float64(upperCount+lowerCount) > 0.9
}

func (c *HeadingClassifier) isNumbered(text string) bool {
	for _, pattern := range c.config.NumberedPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
