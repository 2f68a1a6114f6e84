package lists

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/tsawler/semtag/model"
)

func TestParseLabels(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		text string
		kind LabelKind
		val  int
	}{
		{"• First item", LabelBullet, 0},
		{"- dash item", LabelBullet, 0},
		{"1. One", LabelNumber, 1},
		{"12) Twelve", LabelNumber, 12},
		{"(3) Three", LabelNumber, 3},
		{"b) Bee", LabelLetter, 2},
		{"iv. Four", LabelRoman, 4},
		{"３. Fullwidth", LabelNumber, 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			labels := d.ParseLabels(tt.text)
			if len(labels) == 0 {
				t.Fatalf("ParseLabels(%q) found no label", tt.text)
			}
			if labels[0].Kind != tt.kind || labels[0].Value != tt.val {
				t.Errorf("ParseLabels(%q) = %+v, want %v %d", tt.text, labels[0], tt.kind, tt.val)
			}
		})
	}
}

func TestParseLabelsRejects(t *testing.T) {
	d := NewDetector()
	for _, text := range []string{"", "Hello world", "-5 degrees", "2024 was a year", "*emphasis*", "ic. not roman"} {
		for _, l := range d.ParseLabels(text) {
			if l.Kind == LabelRoman || l.Kind == LabelBullet || text == "2024 was a year" {
				t.Errorf("ParseLabels(%q) = %+v, want none", text, l)
			}
		}
	}
}

func TestParseLabelsAmbiguous(t *testing.T) {
	d := NewDetector()
	labels := d.ParseLabels("i. first")
	kinds := map[LabelKind]bool{}
	for _, l := range labels {
		kinds[l.Kind] = true
	}
	if !kinds[LabelLetter] || !kinds[LabelRoman] {
		t.Errorf("ParseLabels(i.) = %+v, want letter and roman readings", labels)
	}
}

func TestTextIntervals(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name  string
		items []string
		want  []Interval
	}{
		{
			"numbered",
			[]string{"1. one", "2. two", "3. three"},
			[]Interval{{0, 2}},
		},
		{
			"bullets then prose",
			[]string{"Intro text", "• a", "• b", "Closing text"},
			[]Interval{{1, 2}},
		},
		{
			"different bullets split",
			[]string{"• a", "• b", "◦ c", "◦ d"},
			[]Interval{{0, 1}, {2, 3}},
		},
		{
			"gap in numbering",
			[]string{"1. one", "3. three"},
			nil,
		},
		{
			"roman",
			[]string{"i. one", "ii. two", "iii. three"},
			[]Interval{{0, 2}},
		},
		{
			"letters across i",
			[]string{"h) eight", "i) nine", "j) ten"},
			[]Interval{{0, 2}},
		},
		{
			"single item",
			[]string{"1. alone"},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.TextIntervals(tt.items)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TextIntervals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsListLabel(t *testing.T) {
	d := NewDetector()
	for _, r := range []rune{'•', '-', '7', '①', '４'} {
		if !d.IsListLabel(r) {
			t.Errorf("IsListLabel(%q) = false", r)
		}
	}
	for _, r := range []rune{'A', 'x', '.', ' '} {
		if d.IsListLabel(r) {
			t.Errorf("IsListLabel(%q) = true", r)
		}
	}
}

func solid(c color.Gray, half bool) image.Image {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if half && x < 8 {
				img.SetGray(x, y, color.Gray{Y: 255 - c.Y})
				continue
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

func TestImageIntervals(t *testing.T) {
	d := NewDetector()
	box := func(left float64) model.BBox { return model.NewBBox(left, 0, left+6, 6) }

	images := []*model.ImageChunk{
		{BBox: box(0), Pixels: solid(color.Gray{Y: 0}, true)},
		{BBox: box(0), Pixels: solid(color.Gray{Y: 0}, true)},
		{BBox: box(0), Pixels: solid(color.Gray{Y: 0}, true)},
		{BBox: model.NewBBox(0, 0, 100, 80)},
	}
	want := []Interval{{0, 2}}
	if got := d.ImageIntervals(images); !reflect.DeepEqual(got, want) {
		t.Errorf("ImageIntervals() = %v, want %v", got, want)
	}

	// same size but different pictures
	images[1].Pixels = solid(color.Gray{Y: 255}, true)
	if got := d.ImageIntervals(images[:2]); got != nil {
		t.Errorf("ImageIntervals(different pixels) = %v, want none", got)
	}
}

func TestLineArtIntervals(t *testing.T) {
	d := NewDetector()
	arts := []*model.LineArtChunk{
		{BBox: model.NewBBox(0, 0, 4, 4), Paths: 1},
		{BBox: model.NewBBox(0, 10, 4, 14), Paths: 1},
		{BBox: model.NewBBox(0, 20, 4, 24), Paths: 3},
	}
	want := []Interval{{0, 1}}
	if got := d.LineArtIntervals(arts); !reflect.DeepEqual(got, want) {
		t.Errorf("LineArtIntervals() = %v, want %v", got, want)
	}
}
