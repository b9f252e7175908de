// Package parallel fans the escape-time computation out across goroutines.
//
// Each worker gets a disjoint band of grid rows and writes into a disjoint
// range of the shared output slice, so the parallel phase needs no locking;
// a single join suffices before the map is assembled.
package parallel

import (
	"runtime"
	"sync"

	"github.com/gabeclass/go-performance-minicourse/escape"
)

// Config controls how Compute splits work across goroutines.
type Config struct {
	// Workers is the number of goroutines. Zero means runtime.NumCPU().
	Workers int
	// MinRowsPerBand keeps small grids on the serial path; splitting a
	// handful of rows across workers costs more than it saves.
	MinRowsPerBand int
}

// DefaultConfig uses every CPU with a modest band floor.
func DefaultConfig() Config {
	return Config{Workers: 0, MinRowsPerBand: 16}
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Compute evaluates g with opts, one goroutine per row band. Results are
// identical to escape.Compute on the whole grid: the bands are disjoint and
// every point depends only on its own sample.
func Compute(g *escape.Grid, opts escape.Options, cfg Config) (*escape.Map, error) {
	workers := cfg.workers()
	if workers == 1 || g == nil || g.Height() < 2*max(cfg.MinRowsPerBand, 1) {
		return escape.Compute(g, opts)
	}

	bands := bandBounds(g.Height(), workers, cfg.MinRowsPerBand)
	iters := make([]int, g.Width()*g.Height())
	errs := make([]error, len(bands))

	var wg sync.WaitGroup
	for bi, b := range bands {
		bi, b := bi, b
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub, err := g.Rows(b.y0, b.y1)
			if err != nil {
				errs[bi] = err
				return
			}
			m, err := escape.Compute(sub, opts)
			if err != nil {
				errs[bi] = err
				return
			}
			copy(iters[b.y0*g.Width():b.y1*g.Width()], m.Iters())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return escape.NewMap(g.Width(), g.Height(), iters)
}

type band struct {
	y0, y1 int
}

// bandBounds splits h rows into at most workers bands of at least minRows
// rows each. Leftover rows go to the leading bands one at a time.
func bandBounds(h, workers, minRows int) []band {
	if minRows < 1 {
		minRows = 1
	}
	n := workers
	if h/n < minRows {
		n = h / minRows
		if n < 1 {
			n = 1
		}
	}

	bands := make([]band, 0, n)
	rows := h / n
	extra := h % n
	y := 0
	for i := 0; i < n; i++ {
		r := rows
		if i < extra {
			r++
		}
		bands = append(bands, band{y0: y, y1: y + r})
		y += r
	}
	return bands
}
