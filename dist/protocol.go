package dist

import (
	"encoding/gob"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/gabeclass/go-performance-minicourse/escape"
)

// Wire protocol: a worker opens a connection, introduces itself with a
// hello, then answers tile requests until the coordinator closes the
// stream. Messages are gob streams over any net.Conn, so TCP and the
// websocket adapter share one code path.

type helloMsg struct {
	WorkerID string
	Procs    int
}

type tileRequest struct {
	Seq           uint64
	Region        escape.Region
	Tile          image.Rectangle
	ImgW, ImgH    int
	MaxIterations int
}

type tileResult struct {
	Seq   uint64
	Iters []int
	Err   string
}

// remoteWorker adapts one coordinator-side connection to the Worker
// interface. One request is in flight per connection at a time.
type remoteWorker struct {
	id  string
	enc *gob.Encoder
	dec *gob.Decoder
	seq uint64
	mu  sync.Mutex
}

var _ Worker = (*remoteWorker)(nil)

func (w *remoteWorker) ComputeTile(r escape.Region, tile image.Rectangle, imgW, imgH, maxIter int) ([]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	req := tileRequest{
		Seq:           w.seq,
		Region:        r,
		Tile:          tile,
		ImgW:          imgW,
		ImgH:          imgH,
		MaxIterations: maxIter,
	}
	if err := w.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("dist: send tile request to %s: %w", w.id, err)
	}

	var res tileResult
	if err := w.dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("dist: read tile result from %s: %w", w.id, err)
	}
	if res.Seq != req.Seq {
		return nil, fmt.Errorf("dist: worker %s answered seq %d, want %d", w.id, res.Seq, req.Seq)
	}
	if res.Err != "" {
		return nil, fmt.Errorf("dist: worker %s: %s", w.id, res.Err)
	}
	return res.Iters, nil
}

// ServeWorker answers tile requests on conn using w until the coordinator
// closes the connection. An empty id gets a fresh uuid.
func ServeWorker(conn net.Conn, id string, w Worker) error {
	if id == "" {
		id = uuid.NewString()
	}
	enc := gob.NewEncoder(conn)
	dec := gob.NewDecoder(conn)

	if err := enc.Encode(helloMsg{WorkerID: id, Procs: runtime.NumCPU()}); err != nil {
		return fmt.Errorf("dist: send hello: %w", err)
	}

	for {
		var req tileRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("dist: read tile request: %w", err)
		}

		iters, err := w.ComputeTile(req.Region, req.Tile, req.ImgW, req.ImgH, req.MaxIterations)
		res := tileResult{Seq: req.Seq, Iters: iters}
		if err != nil {
			res = tileResult{Seq: req.Seq, Err: err.Error()}
		}
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("dist: send tile result: %w", err)
		}
	}
}
