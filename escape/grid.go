package escape

import (
	"errors"
	"fmt"
	"image"
)

// Region is a rectangular window of the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

var errBadDims = errors.New("escape: grid dimensions must be positive")

// Grid is a rectangular grid of complex sample points, row-major.
// A Grid is immutable once constructed.
type Grid struct {
	w, h int
	pts  []complex128
}

// NewGrid builds a w x h grid from row-major points. The input must be
// rectangular: exactly w*h points.
func NewGrid(w, h int, pts []complex128) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, errBadDims
	}
	if len(pts) != w*h {
		return nil, fmt.Errorf("escape: %d points cannot fill a %dx%d grid", len(pts), w, h)
	}
	p := make([]complex128, len(pts))
	copy(p, pts)
	return &Grid{w: w, h: h, pts: p}, nil
}

// SampleRegion samples r uniformly at w x h points.
func SampleRegion(r Region, w, h int) (*Grid, error) {
	return SampleTile(r, image.Rect(0, 0, w, h), w, h)
}

// SampleTile samples only the tile sub-rectangle of an imgW x imgH sampling
// of r. Tile coordinates are global image coordinates, so a tile's samples
// are exactly the corresponding samples of the full grid.
func SampleTile(r Region, tile image.Rectangle, imgW, imgH int) (*Grid, error) {
	if imgW <= 0 || imgH <= 0 || tile.Dx() <= 0 || tile.Dy() <= 0 {
		return nil, errBadDims
	}
	pts := make([]complex128, 0, tile.Dx()*tile.Dy())
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		y := r.Ymin + (float64(py)/float64(imgH))*(r.Ymax-r.Ymin)
		for px := tile.Min.X; px < tile.Max.X; px++ {
			x := r.Xmin + (float64(px)/float64(imgW))*(r.Xmax-r.Xmin)
			pts = append(pts, complex(x, y))
		}
	}
	return &Grid{w: tile.Dx(), h: tile.Dy(), pts: pts}, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// At returns the sample at column x, row y.
func (g *Grid) At(x, y int) complex128 { return g.pts[y*g.w+x] }

// Rows returns rows [y0, y1) as a fresh grid.
func (g *Grid) Rows(y0, y1 int) (*Grid, error) {
	if y0 < 0 || y1 > g.h || y0 >= y1 {
		return nil, fmt.Errorf("escape: row band [%d,%d) outside grid of height %d", y0, y1, g.h)
	}
	return NewGrid(g.w, y1-y0, g.pts[y0*g.w:y1*g.w])
}

// Map is an escape map: for every grid point, the 1-based iteration at
// which its orbit left the escape radius, or the iteration budget if it
// never did.
type Map struct {
	w, h  int
	iters []int
}

// NewMap builds a w x h map from row-major escape counts.
func NewMap(w, h int, iters []int) (*Map, error) {
	if w <= 0 || h <= 0 {
		return nil, errBadDims
	}
	if len(iters) != w*h {
		return nil, fmt.Errorf("escape: %d counts cannot fill a %dx%d map", len(iters), w, h)
	}
	it := make([]int, len(iters))
	copy(it, iters)
	return &Map{w: w, h: h, iters: it}, nil
}

func (m *Map) Width() int  { return m.w }
func (m *Map) Height() int { return m.h }

// At returns the escape count at column x, row y.
func (m *Map) At(x, y int) int { return m.iters[y*m.w+x] }

// Iters returns the backing row-major slice. Callers must treat it as
// read-only.
func (m *Map) Iters() []int { return m.iters }
