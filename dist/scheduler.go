// Package dist distributes one large escape-map computation across worker
// connections. The coordinator splits the image into tiles, hands tiles to
// whichever workers are connected, and assembles the finished map; workers
// only ever see one tile at a time.
package dist

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/gabeclass/go-performance-minicourse/escape"
)

// DefaultTileSize is the tile edge used when a Job does not set one.
const DefaultTileSize = 64

// Job describes one full escape-map computation to distribute.
type Job struct {
	Width, Height int
	Region        escape.Region
	MaxIterations int
	// TileW and TileH default to DefaultTileSize when zero.
	TileW, TileH int
}

// Worker computes the escape counts for one tile of a larger image. It
// returns tile.Dx()*tile.Dy() row-major counts. Implementations may live
// in-process or on the far side of a connection.
type Worker interface {
	ComputeTile(r escape.Region, tile image.Rectangle, imgW, imgH, maxIter int) ([]int, error)
}

// LocalWorker computes tiles in-process.
type LocalWorker struct {
	Strategy escape.Strategy
}

var _ Worker = LocalWorker{}

func (w LocalWorker) ComputeTile(r escape.Region, tile image.Rectangle, imgW, imgH, maxIter int) ([]int, error) {
	g, err := escape.SampleTile(r, tile, imgW, imgH)
	if err != nil {
		return nil, err
	}
	m, err := escape.Compute(g, escape.Options{MaxIterations: maxIter, Strategy: w.Strategy})
	if err != nil {
		return nil, err
	}
	return m.Iters(), nil
}

// Scheduler farms a Job's tiles out to workers and assembles the full map.
// Tiles are disjoint, so finished tiles land in disjoint regions of the
// global slice and the only lock guards the bookkeeping maps.
type Scheduler struct {
	job   Job
	iters []int

	ctx       context.Context
	ctxCancel context.CancelFunc

	totalPixels    int
	finishedPixels int

	workers   int
	unstarted map[image.Rectangle]struct{}
	inProcess map[image.Rectangle]struct{}
	finished  map[image.Rectangle]struct{}
	m         sync.Mutex
}

// NewScheduler validates the job and splits it into tiles.
func NewScheduler(job Job) (*Scheduler, error) {
	if job.Width <= 0 || job.Height <= 0 {
		return nil, fmt.Errorf("dist: image dimensions must be positive, got %dx%d", job.Width, job.Height)
	}
	if job.MaxIterations <= 0 {
		return nil, fmt.Errorf("dist: max iterations must be positive, got %d", job.MaxIterations)
	}
	if job.TileW == 0 {
		job.TileW = DefaultTileSize
	}
	if job.TileH == 0 {
		job.TileH = DefaultTileSize
	}
	if job.TileW < 0 || job.TileH < 0 {
		return nil, fmt.Errorf("dist: tile dimensions must be positive, got %dx%d", job.TileW, job.TileH)
	}

	tiles := SplitTiles(image.Rect(0, 0, job.Width, job.Height), job.TileW, job.TileH)
	unstarted := make(map[image.Rectangle]struct{}, len(tiles))
	for _, t := range tiles {
		unstarted[t] = struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		job:         job,
		iters:       make([]int, job.Width*job.Height),
		ctx:         ctx,
		ctxCancel:   cancel,
		totalPixels: job.Width * job.Height,
		unstarted:   unstarted,
		inProcess:   make(map[image.Rectangle]struct{}),
		finished:    make(map[image.Rectangle]struct{}, len(tiles)),
	}, nil
}

// Job returns the job being scheduled.
func (s *Scheduler) Job() Job { return s.job }

// Done is closed once every tile has been assembled.
func (s *Scheduler) Done() <-chan struct{} { return s.ctx.Done() }

// popTile hands out an unstarted tile if one exists. Otherwise an
// in-process tile is re-issued, so an idle worker can race a straggler
// instead of sitting out the end of the job.
func (s *Scheduler) popTile() (tile image.Rectangle, found bool) {
	s.m.Lock()
	defer s.m.Unlock()

	if len(s.unstarted) > 0 {
		for tile = range s.unstarted {
			break
		}
		delete(s.unstarted, tile)
		s.inProcess[tile] = struct{}{}
		return tile, true
	}

	if len(s.inProcess) > 0 {
		for tile = range s.inProcess {
			break
		}
		return tile, true
	}

	return image.Rectangle{}, false
}

// tileFinished copies a finished tile into its region of the global map.
// A tile may arrive more than once when it was re-issued; the write is
// idempotent and progress is counted only the first time.
func (s *Scheduler) tileFinished(tile image.Rectangle, tileIters []int) error {
	if len(tileIters) != tile.Dx()*tile.Dy() {
		return fmt.Errorf("dist: tile %v expects %d counts, got %d", tile, tile.Dx()*tile.Dy(), len(tileIters))
	}

	s.m.Lock()
	defer s.m.Unlock()

	for row := 0; row < tile.Dy(); row++ {
		dst := (tile.Min.Y+row)*s.job.Width + tile.Min.X
		copy(s.iters[dst:dst+tile.Dx()], tileIters[row*tile.Dx():(row+1)*tile.Dx()])
	}

	if _, found := s.inProcess[tile]; found {
		s.finishedPixels += tile.Dx() * tile.Dy()
		delete(s.inProcess, tile)
		s.finished[tile] = struct{}{}
	}

	if len(s.unstarted) == 0 && len(s.inProcess) == 0 {
		s.ctxCancel()
	}
	return nil
}

// Run feeds tiles to w until none remain. It is safe to call from many
// goroutines, one per connected worker. On a worker error the tile stays
// in-process and will be re-issued to another worker.
func (s *Scheduler) Run(w Worker) error {
	s.incActiveWorkers()
	defer s.decActiveWorkers()

	for {
		tile, found := s.popTile()
		if !found {
			return nil
		}
		iters, err := w.ComputeTile(s.job.Region, tile, s.job.Width, s.job.Height, s.job.MaxIterations)
		if err != nil {
			return fmt.Errorf("dist: tile %v: %w", tile, err)
		}
		if err := s.tileFinished(tile, iters); err != nil {
			return err
		}
	}
}

// Result blocks until the job completes, then returns the assembled map.
func (s *Scheduler) Result(ctx context.Context) (*escape.Map, error) {
	select {
	case <-s.ctx.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.m.Lock()
	defer s.m.Unlock()
	return escape.NewMap(s.job.Width, s.job.Height, s.iters)
}

// Snapshot returns a copy of the map assembled so far. Entries of tiles
// that have not finished yet are zero.
func (s *Scheduler) Snapshot() (*escape.Map, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return escape.NewMap(s.job.Width, s.job.Height, s.iters)
}

// Progress reports the finished fraction of pixels in [0, 1].
func (s *Scheduler) Progress() float64 {
	s.m.Lock()
	defer s.m.Unlock()
	return float64(s.finishedPixels) / float64(s.totalPixels)
}

// ActiveWorkers reports how many Run loops are currently attached.
func (s *Scheduler) ActiveWorkers() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.workers
}

// TotalTiles reports the number of tiles in the job.
func (s *Scheduler) TotalTiles() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.unstarted) + len(s.inProcess) + len(s.finished)
}

// FinishedTiles returns the tiles assembled so far.
func (s *Scheduler) FinishedTiles() []image.Rectangle {
	s.m.Lock()
	defer s.m.Unlock()
	tiles := make([]image.Rectangle, 0, len(s.finished))
	for t := range s.finished {
		tiles = append(tiles, t)
	}
	return tiles
}

func (s *Scheduler) incActiveWorkers() {
	s.m.Lock()
	s.workers++
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}

func (s *Scheduler) decActiveWorkers() {
	s.m.Lock()
	s.workers--
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}
