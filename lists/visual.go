package lists

import (
	"image"
	"math"
	"math/bits"

	"golang.org/x/image/draw"

	"github.com/tsawler/semtag/model"
)

// ImageIntervals groups consecutive images that look like the same label
// glyph: equal size within SizeTolerance and, when both images are decoded,
// a close average hash.
func (d *Detector) ImageIntervals(images []*model.ImageChunk) []Interval {
	hashes := make([]uint64, len(images))
	hashed := make([]bool, len(images))
	for i, img := range images {
		if img != nil && img.Pixels != nil {
			hashes[i], hashed[i] = d.averageHash(img.Pixels), true
		}
	}

	return d.runs(len(images), func(i int) bool {
		prev, cur := images[i-1], images[i]
		if prev == nil || cur == nil || !d.sameSize(prev.BBox, cur.BBox) {
			return false
		}
		if hashed[i-1] && hashed[i] {
			return bits.OnesCount64(hashes[i-1]^hashes[i]) <= d.config.HashDistance
		}
		return true
	})
}

// LineArtIntervals groups consecutive line-art pieces of the same size and
// path count
func (d *Detector) LineArtIntervals(arts []*model.LineArtChunk) []Interval {
	return d.runs(len(arts), func(i int) bool {
		prev, cur := arts[i-1], arts[i]
		if prev == nil || cur == nil {
			return false
		}
		return prev.Paths == cur.Paths && d.sameSize(prev.BBox, cur.BBox)
	})
}

func (d *Detector) sameSize(a, b model.BBox) bool {
	return within(a.Width(), b.Width(), d.config.SizeTolerance) &&
		within(a.Height(), b.Height(), d.config.SizeTolerance)
}

func within(a, b, tolerance float64) bool {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return true
	}
	return math.Abs(a-b) <= tolerance*m
}

// averageHash downsamples img to a square thumbnail and sets one bit per
// pixel brighter than the thumbnail mean. Thumbnails larger than 8x8 are
// folded into 64 bits by sampling.
func (d *Detector) averageHash(img image.Image) uint64 {
	size := d.config.ThumbnailSize
	if size <= 0 {
		size = 8
	}
	thumb := image.NewGray(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, img.Bounds(), draw.Src, nil)

	total := 0
	for _, p := range thumb.Pix {
		total += int(p)
	}
	mean := total / len(thumb.Pix)

	var hash uint64
	n := len(thumb.Pix)
	for bit := 0; bit < 64 && bit < n; bit++ {
		idx := bit * n / int(math.Min(64, float64(n)))
		if int(thumb.Pix[idx]) > mean {
			hash |= 1 << uint(bit)
		}
	}
	return hash
}
