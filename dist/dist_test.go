package dist

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gabeclass/go-performance-minicourse/escape"
)

func TestSplitTiles(t *testing.T) {
	cases := []struct {
		rect         image.Rectangle
		tileW, tileH int
		want         int
	}{
		{image.Rect(0, 0, 128, 128), 64, 64, 4},
		{image.Rect(0, 0, 100, 60), 64, 64, 2},
		{image.Rect(0, 0, 1, 1), 64, 64, 1},
		{image.Rect(10, 20, 110, 85), 32, 32, 4 * 3},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v_%dx%d", tc.rect, tc.tileW, tc.tileH), func(t *testing.T) {
			tiles := SplitTiles(tc.rect, tc.tileW, tc.tileH)
			if len(tiles) != tc.want {
				t.Errorf("got %d tiles, want %d", len(tiles), tc.want)
			}
			// Tiles must be disjoint and cover the rect exactly.
			area := 0
			for i, a := range tiles {
				if !a.In(tc.rect) {
					t.Errorf("tile %v outside %v", a, tc.rect)
				}
				area += a.Dx() * a.Dy()
				for _, b := range tiles[i+1:] {
					if a.Overlaps(b) {
						t.Errorf("tiles %v and %v overlap", a, b)
					}
				}
			}
			if area != tc.rect.Dx()*tc.rect.Dy() {
				t.Errorf("tiles cover %d pixels, want %d", area, tc.rect.Dx()*tc.rect.Dy())
			}
		})
	}
}

func TestSplitTilesPanicsOnBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic for zero tile width")
		}
	}()
	SplitTiles(image.Rect(0, 0, 10, 10), 0, 8)
}

func referenceMap(t *testing.T, job Job) *escape.Map {
	t.Helper()
	g, err := escape.SampleRegion(job.Region, job.Width, job.Height)
	if err != nil {
		t.Fatal(err)
	}
	m, err := escape.Compute(g, escape.Options{MaxIterations: job.MaxIterations})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func assertMapsEqual(t *testing.T, got, want *escape.Map) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("map is %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for i, v := range want.Iters() {
		if got.Iters()[i] != v {
			t.Fatalf("maps differ at index %d: %d vs %d", i, got.Iters()[i], v)
		}
	}
}

func TestSchedulerAssemblesFullMap(t *testing.T) {
	job := Job{
		Width: 90, Height: 70,
		Region:        escape.SeahorseValley,
		MaxIterations: 60,
		TileW:         32, TileH: 16,
	}
	sched, err := NewScheduler(job)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sched.Run(LocalWorker{}); err != nil {
				t.Errorf("Run: %v", err)
			}
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := sched.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertMapsEqual(t, got, referenceMap(t, job))

	if p := sched.Progress(); p != 1 {
		t.Errorf("progress = %v, want 1", p)
	}
	if n := len(sched.FinishedTiles()); n != sched.TotalTiles() {
		t.Errorf("%d finished tiles, want %d", n, sched.TotalTiles())
	}
	if w := sched.ActiveWorkers(); w != 0 {
		t.Errorf("%d active workers after completion", w)
	}
}

func TestSchedulerRejectsBadJobs(t *testing.T) {
	if _, err := NewScheduler(Job{Width: 0, Height: 10, MaxIterations: 5}); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := NewScheduler(Job{Width: 10, Height: 10, MaxIterations: 0}); err == nil {
		t.Error("zero iteration budget accepted")
	}
	if _, err := NewScheduler(Job{Width: 10, Height: 10, MaxIterations: 5, TileW: -4}); err == nil {
		t.Error("negative tile width accepted")
	}
}

func TestSchedulerResultHonorsContext(t *testing.T) {
	sched, err := NewScheduler(Job{Width: 16, Height: 16, Region: escape.FullSet, MaxIterations: 10})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sched.Result(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Result on canceled context: %v", err)
	}
}

func TestSchedulerRejectsWrongTileLength(t *testing.T) {
	sched, err := NewScheduler(Job{Width: 16, Height: 16, Region: escape.FullSet, MaxIterations: 10, TileW: 8, TileH: 8})
	if err != nil {
		t.Fatal(err)
	}
	tile, found := sched.popTile()
	if !found {
		t.Fatal("no tile to pop")
	}
	if err := sched.tileFinished(tile, make([]int, 3)); err == nil {
		t.Error("short tile result accepted")
	}
}

// failingWorker fails every tile, exercising re-issue.
type failingWorker struct{}

func (failingWorker) ComputeTile(escape.Region, image.Rectangle, int, int, int) ([]int, error) {
	return nil, errors.New("boom")
}

func TestSchedulerReissuesAfterWorkerFailure(t *testing.T) {
	job := Job{Width: 32, Height: 32, Region: escape.SeahorseValley, MaxIterations: 30, TileW: 16, TileH: 16}
	sched, err := NewScheduler(job)
	if err != nil {
		t.Fatal(err)
	}
	if err := sched.Run(failingWorker{}); err == nil {
		t.Fatal("failing worker reported success")
	}
	// The failed tile stays in-process and a healthy worker finishes the job.
	if err := sched.Run(LocalWorker{}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := sched.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertMapsEqual(t, got, referenceMap(t, job))
}

func TestProtocolOverPipe(t *testing.T) {
	job := Job{Width: 48, Height: 48, Region: escape.ElephantValley, MaxIterations: 40, TileW: 16, TileH: 16}
	sched, err := NewScheduler(job)
	if err != nil {
		t.Fatal(err)
	}

	coord, worker := net.Pipe()
	defer coord.Close()
	defer worker.Close()

	workerDone := make(chan error, 1)
	coordDone := make(chan error, 1)
	go func() { workerDone <- ServeWorker(worker, "test-worker", LocalWorker{}) }()
	go func() {
		defer coord.Close()
		coordDone <- handleConn(coord, sched)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	got, err := sched.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertMapsEqual(t, got, referenceMap(t, job))

	if err := <-coordDone; err != nil {
		t.Errorf("handleConn: %v", err)
	}
	if err := <-workerDone; err != nil {
		t.Errorf("ServeWorker: %v", err)
	}
}

func TestServeOverTCP(t *testing.T) {
	job := Job{Width: 40, Height: 30, Region: escape.TripleSpiral, MaxIterations: 50, TileW: 16, TileH: 16}
	sched, err := NewScheduler(job)
	if err != nil {
		t.Fatal(err)
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	serveDone := make(chan error, 1)
	go func() { serveDone <- Serve(lis, sched) }()

	for i := 0; i < 2; i++ {
		conn, err := net.Dial("tcp", lis.Addr().String())
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close()
		go ServeWorker(conn, fmt.Sprintf("worker-%d", i), LocalWorker{Strategy: escape.StrategyBulk})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	got, err := sched.Result(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertMapsEqual(t, got, referenceMap(t, job))

	select {
	case err := <-serveDone:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Serve did not stop after completion")
	}
}

func TestSnapshotBeforeAnyWork(t *testing.T) {
	sched, err := NewScheduler(Job{Width: 8, Height: 8, Region: escape.FullSet, MaxIterations: 10})
	if err != nil {
		t.Fatal(err)
	}
	m, err := sched.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range m.Iters() {
		if v != 0 {
			t.Fatalf("fresh snapshot contains %d", v)
		}
	}
}
