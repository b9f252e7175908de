// Package render turns escape maps into heat-map images. The numerical core
// never renders; this is the visualization collaborator that consumes its
// output grid.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/gabeclass/go-performance-minicourse/escape"
)

// Heatmap colors an escape map. Points that exhausted the budget are drawn
// black; everything else gets a hue ramp on the escape index.
func Heatmap(m *escape.Map, maxIter int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Width(), m.Height()))
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			it := m.At(x, y)
			var col color.RGBA
			if it >= maxIter {
				col = color.RGBA{A: 255}
			} else {
				hue := math.Mod(float64(it)*0.02, 1.0)
				col = hsv(hue, 1, 1)
			}
			img.SetRGBA(x, y, col)
		}
	}
	return img
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// Simple HSV to RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}
