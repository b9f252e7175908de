// Package escape implements the escape-time iteration used to render
// Mandelbrot-type fractals: repeatedly applying z = z*z + c and recording
// the iteration at which |z| leaves a bounded disk.
//
// The same computation is offered under two strategies so their wall-clock
// behavior can be compared: a pointwise loop that runs every sample to
// completion, and a bulk form that advances the whole grid one iteration
// per pass. Both return bit-identical maps.
package escape

import (
	"errors"
	"fmt"
)

// Strategy selects how Compute walks the grid. The choice is always made
// explicitly by the caller; there is no implicit dispatch.
type Strategy int

const (
	// StrategyPointwise iterates each point to completion independently,
	// exiting its loop as soon as the point diverges.
	StrategyPointwise Strategy = iota
	// StrategyBulk advances the entire grid one iteration per pass,
	// clamping diverged points so they cannot overflow on later passes.
	StrategyBulk
)

func (s Strategy) String() string {
	switch s {
	case StrategyPointwise:
		return "pointwise"
	case StrategyBulk:
		return "bulk"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a strategy from its CLI name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "pointwise":
		return StrategyPointwise, nil
	case "bulk":
		return StrategyBulk, nil
	}
	return 0, fmt.Errorf("escape: unknown strategy %q (have pointwise, bulk)", name)
}

// DefaultEscapeRadius is the classic divergence threshold: once |z| > 2 the
// orbit is guaranteed to escape.
const DefaultEscapeRadius = 2.0

// Options parameterize one Compute call.
type Options struct {
	// MaxIterations is the iteration budget per point. Must be positive.
	MaxIterations int
	// EscapeRadius is the divergence threshold. Zero means
	// DefaultEscapeRadius; negative values are rejected.
	EscapeRadius float64
	Strategy     Strategy
}

func (o Options) radius() (float64, error) {
	if o.EscapeRadius == 0 {
		return DefaultEscapeRadius, nil
	}
	if o.EscapeRadius < 0 {
		return 0, fmt.Errorf("escape: escape radius must be positive, got %v", o.EscapeRadius)
	}
	return o.EscapeRadius, nil
}

// Compute evaluates the escape-time iteration for every point of g and
// returns a fresh same-shaped map. Entries are in [1, MaxIterations]; the
// budget itself means the point never diverged within it.
//
// Compute holds no state between calls and the points are fully independent
// of each other, so callers may partition a grid into disjoint bands,
// compute them separately and concatenate the results.
func Compute(g *Grid, opts Options) (*Map, error) {
	if g == nil {
		return nil, errors.New("escape: nil grid")
	}
	if opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("escape: max iterations must be positive, got %d", opts.MaxIterations)
	}
	radius, err := opts.radius()
	if err != nil {
		return nil, err
	}
	var iters []int
	switch opts.Strategy {
	case StrategyPointwise:
		iters = computePointwise(g.pts, opts.MaxIterations, radius)
	case StrategyBulk:
		iters = computeBulk(g.pts, opts.MaxIterations, radius)
	default:
		return nil, fmt.Errorf("escape: unknown strategy %v", opts.Strategy)
	}
	return &Map{w: g.w, h: g.h, iters: iters}, nil
}

// EscapeIndex is the scalar kernel: starting from z = c it applies
// z = z*z + c up to maxIter times and returns the 1-based iteration at
// which |z| first exceeds radius, or maxIter if it never does.
func EscapeIndex(c complex128, maxIter int, radius float64) int {
	r2 := radius * radius
	z := c
	for it := 1; it <= maxIter; it++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > r2 {
			return it
		}
	}
	return maxIter
}

func computePointwise(pts []complex128, maxIter int, radius float64) []int {
	iters := make([]int, len(pts))
	for i, c := range pts {
		iters[i] = EscapeIndex(c, maxIter, radius)
	}
	return iters
}

// computeBulk advances every point one step per pass over the whole grid.
// Diverged points have z clamped to 0 so later passes cannot overflow into
// Inf/NaN; their recorded index is never rewritten. The per-point float
// operations match EscapeIndex exactly, so both strategies agree bit for
// bit.
func computeBulk(pts []complex128, maxIter int, radius float64) []int {
	r2 := radius * radius
	z := make([]complex128, len(pts))
	copy(z, pts)
	iters := make([]int, len(pts))
	remaining := len(pts)
	for it := 1; it <= maxIter && remaining > 0; it++ {
		for i, c := range pts {
			zi := z[i]*z[i] + c
			if real(zi)*real(zi)+imag(zi)*imag(zi) > r2 {
				if iters[i] == 0 {
					iters[i] = it
					remaining--
				}
				zi = 0
			}
			z[i] = zi
		}
	}
	for i := range iters {
		if iters[i] == 0 {
			iters[i] = maxIter
		}
	}
	return iters
}
