package model

import "math"

// BBox is an axis-aligned rectangle in page coordinates (PDF convention:
// Y grows upward, so Top >= Bottom).
type BBox struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// NewBBox creates a bounding box from its four edges
func NewBBox(left, bottom, right, top float64) BBox {
	return BBox{Left: left, Bottom: bottom, Right: right, Top: top}
}

// NewBBoxFromSize creates a bounding box from an origin and a size
func NewBBoxFromSize(x, y, width, height float64) BBox {
	return BBox{Left: x, Bottom: y, Right: x + width, Top: y + height}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Top - b.Bottom
}

// CenterX returns the horizontal center
func (b BBox) CenterX() float64 {
	return (b.Left + b.Right) / 2
}

// CenterY returns the vertical center
func (b BBox) CenterY() float64 {
	return (b.Bottom + b.Top) / 2
}

// IsValid reports whether left <= right and bottom <= top
func (b BBox) IsValid() bool {
	return b.Left <= b.Right && b.Bottom <= b.Top
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Width() * b.Height()
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right && y >= b.Bottom && y <= b.Top
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right < other.Left ||
		b.Left > other.Right ||
		b.Top < other.Bottom ||
		b.Bottom > other.Top)
}

// Intersection returns the intersection of two bounding boxes, or the zero
// box when they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		Left:   math.Max(b.Left, other.Left),
		Bottom: math.Max(b.Bottom, other.Bottom),
		Right:  math.Min(b.Right, other.Right),
		Top:    math.Min(b.Top, other.Top),
	}
}

// Union returns the smallest box covering both boxes. The receiver is not
// modified.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		Left:   math.Min(b.Left, other.Left),
		Bottom: math.Min(b.Bottom, other.Bottom),
		Right:  math.Max(b.Right, other.Right),
		Top:    math.Max(b.Top, other.Top),
	}
}

// HorizontalOverlap returns the length of the shared X range (0 if disjoint)
func (b BBox) HorizontalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Right, other.Right)-math.Max(b.Left, other.Left))
}

// VerticalOverlap returns the length of the shared Y range (0 if disjoint)
func (b BBox) VerticalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Top, other.Top)-math.Max(b.Bottom, other.Bottom))
}

// Expand expands the bounding box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		Left:   b.Left - margin,
		Bottom: b.Bottom - margin,
		Right:  b.Right + margin,
		Top:    b.Top + margin,
	}
}

// UnionAll returns the union of the given boxes and false when boxes is empty
func UnionAll(boxes ...BBox) (BBox, bool) {
	if len(boxes) == 0 {
		return BBox{}, false
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u, true
}
