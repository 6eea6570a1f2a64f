package compositor

import (
	"image"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// Swatch is one dominant colour of an image.
type Swatch struct {
	Hex    string  `json:"hex"`
	Weight float64 `json:"weight"`
}

// Palette returns up to k dominant colours of img. Colours with zero alpha
// are skipped.
func Palette(img image.Image, k int) []Swatch {
	if k <= 0 || img.Bounds().Empty() {
		return nil
	}

	var out []Swatch
	for _, c := range dominantcolor.FindWeight(img, k) {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			// Zero alpha.
			continue
		}
		out = append(out, Swatch{Hex: col.Clamped().Hex(), Weight: c.Weight})
	}
	return out
}
