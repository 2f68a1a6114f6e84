// Package lists recognizes runs of list items: text items by their labels
// (bullets, numbers, letters, roman numerals) and image or line-art items by
// visual similarity.
package lists

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Interval is an inclusive range of item indices forming one list
type Interval struct {
	Start int
	End   int
}

// Len returns the number of items in the interval
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// LabelKind is the numbering scheme of a list label
type LabelKind int

const (
	LabelNone LabelKind = iota
	LabelBullet
	LabelNumber
	LabelLetter
	LabelRoman
)

// String returns a string representation of the label kind
func (k LabelKind) String() string {
	switch k {
	case LabelBullet:
		return "bullet"
	case LabelNumber:
		return "number"
	case LabelLetter:
		return "letter"
	case LabelRoman:
		return "roman"
	default:
		return "none"
	}
}

// Label is a parsed list label such as "•", "3.", "(b)", or "iv)"
type Label struct {
	Kind   LabelKind
	Bullet rune
	Value  int

	// Open and Close are the punctuation around an ordinal, e.g. "(" and ")"
	Open  string
	Close string
	Upper bool
}

// Config holds configuration for list recognition
type Config struct {
	// BulletCharacters are characters recognized as bullets
	BulletCharacters []rune

	// MinItems is the minimum number of items to consider a list
	// Default: 2
	MinItems int

	// SizeTolerance is the largest relative difference in width or height
	// between two visual list labels
	// Default: 0.1
	SizeTolerance float64

	// HashDistance is the largest average-hash Hamming distance between two
	// decoded label images
	// Default: 10
	HashDistance int

	// ThumbnailSize is the side of the square thumbnail used for hashing
	// Default: 8
	ThumbnailSize int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		BulletCharacters: []rune{
			'•', '●', '○', '◦', '◉', // circles
			'■', '□', '▪', '▫', // squares
			'-', '–', '—', // dashes
			'*', '✱', '✲', '+',
			'→', '▶', '►', '▸', '➤', '➜', // arrows
			'‣', '⁃',
			'☐', '☑', '✓', '✔', '✗', '✘', // checkboxes
		},
		MinItems:      2,
		SizeTolerance: 0.1,
		HashDistance:  10,
		ThumbnailSize: 8,
	}
}

var (
	numberPattern = regexp.MustCompile(`^([(\[]?)(\d{1,4})([.)\]:])(\s|$)`)
	letterPattern = regexp.MustCompile(`^([(\[]?)([a-zA-Z])([.)\]])(\s|$)`)
	romanPattern  = regexp.MustCompile(`^([(\[]?)([ivxlcdmIVXLCDM]{1,8})([.)\]])(\s|$)`)
)

// Detector recognizes list intervals
type Detector struct {
	config  Config
	bullets map[rune]bool
}

// NewDetector creates a detector with default configuration
func NewDetector() *Detector {
	return NewDetectorWithConfig(DefaultConfig())
}

// NewDetectorWithConfig creates a detector with custom configuration
func NewDetectorWithConfig(config Config) *Detector {
	bullets := make(map[rune]bool, len(config.BulletCharacters))
	for _, r := range config.BulletCharacters {
		bullets[r] = true
	}
	if config.MinItems < 2 {
		config.MinItems = 2
	}
	return &Detector{config: config, bullets: bullets}
}

// fold applies compatibility normalization so fullwidth and circled forms
// compare equal to their plain counterparts
func fold(s string) string {
	return norm.NFKC.String(s)
}

// IsListLabel reports whether r can start a list label: a bullet glyph or
// a digit in any script or compatibility form
func (d *Detector) IsListLabel(r rune) bool {
	if d.bullets[r] {
		return true
	}
	for _, f := range fold(string(r)) {
		if d.bullets[f] || unicode.IsDigit(f) {
			return true
		}
	}
	return false
}

// ParseLabels returns every reading of the label at the start of text. An
// ambiguous label such as "i." yields both a letter and a roman reading.
func (d *Detector) ParseLabels(text string) []Label {
	text = strings.TrimSpace(fold(text))
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if d.bullets[runes[0]] {
		// ASCII bullets need a following space so "-5" or "*note" are not labels
		if runes[0] > unicode.MaxASCII || len(runes) == 1 || unicode.IsSpace(runes[1]) {
			return []Label{{Kind: LabelBullet, Bullet: runes[0]}}
		}
	}

	var labels []Label
	if m := numberPattern.FindStringSubmatch(text); m != nil {
		labels = append(labels, Label{Kind: LabelNumber, Value: parseNumber(m[2]), Open: m[1], Close: m[3]})
	}
	if m := letterPattern.FindStringSubmatch(text); m != nil {
		r := rune(m[2][0])
		labels = append(labels, Label{
			Kind:  LabelLetter,
			Value: int(unicode.ToLower(r)-'a') + 1,
			Open:  m[1],
			Close: m[3],
			Upper: unicode.IsUpper(r),
		})
	}
	if m := romanPattern.FindStringSubmatch(text); m != nil {
		if v := romanToNumber(m[2]); v > 0 {
			labels = append(labels, Label{
				Kind:  LabelRoman,
				Value: v,
				Open:  m[1],
				Close: m[3],
				Upper: unicode.IsUpper(rune(m[2][0])),
			})
		}
	}
	return labels
}

// follows reports whether cur is the label that comes right after prev
func follows(prev, cur Label) bool {
	if prev.Kind != cur.Kind {
		return false
	}
	if prev.Kind == LabelBullet {
		return prev.Bullet == cur.Bullet
	}
	return prev.Open == cur.Open && prev.Close == cur.Close &&
		prev.Upper == cur.Upper && cur.Value == prev.Value+1
}

func anyFollows(prev, cur []Label) bool {
	for _, p := range prev {
		for _, c := range cur {
			if follows(p, c) {
				return true
			}
		}
	}
	return false
}

// TextIntervals groups consecutive items whose labels continue one another.
// Items are the trimmed first lines of the candidates.
func (d *Detector) TextIntervals(items []string) []Interval {
	labels := make([][]Label, len(items))
	for i, item := range items {
		labels[i] = d.ParseLabels(item)
	}
	return d.runs(len(items), func(i int) bool {
		return len(labels[i-1]) > 0 && anyFollows(labels[i-1], labels[i])
	})
}

// runs returns the maximal runs of at least MinItems items where every item
// after the first continues its predecessor
func (d *Detector) runs(n int, continues func(i int) bool) []Interval {
	var intervals []Interval
	start := 0
	for i := 1; i <= n; i++ {
		if i < n && continues(i) {
			continue
		}
		if i-start >= d.config.MinItems {
			intervals = append(intervals, Interval{Start: start, End: i - 1})
		}
		start = i
	}
	return intervals
}

func parseNumber(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// romanToNumber converts a roman numeral to an integer, returning 0 for
// strings that are not canonical numerals
func romanToNumber(s string) int {
	s = strings.ToUpper(s)
	values := map[byte]int{
		'I': 1, 'V': 5, 'X': 10, 'L': 50,
		'C': 100, 'D': 500, 'M': 1000,
	}

	result := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		val := values[s[i]]
		if val < prev {
			result -= val
		} else {
			result += val
		}
		prev = val
	}
	if result <= 0 || toRoman(result) != s {
		return 0
	}
	return result
}

func toRoman(n int) string {
	numerals := []struct {
		value  int
		symbol string
	}{
		{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
		{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
		{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
	}
	var sb strings.Builder
	for _, num := range numerals {
		for n >= num.value {
			sb.WriteString(num.symbol)
			n -= num.value
		}
	}
	return sb.String()
}
