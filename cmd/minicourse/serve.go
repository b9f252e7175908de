package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabeclass/go-performance-minicourse/dist"
	"github.com/gabeclass/go-performance-minicourse/escape"
	"github.com/gabeclass/go-performance-minicourse/render"
)

func serveCmd() *cobra.Command {
	var (
		regionName string
		width      int
		height     int
		maxIter    int
		tileSize   int
		tcpPort    int
		httpPort   int
		out        string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "coordinate a distributed render across connected workers",
		Long: `serve splits one large escape-map computation into tiles and hands them
to whichever workers connect, over plain TCP or websocket. Progress and a
PNG snapshot of the partial map are available over HTTP while the job runs;
the final image is written once every tile is in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := escape.LookupRegion(envString(cmd, "region", regionName))
			if err != nil {
				return err
			}
			sched, err := dist.NewScheduler(dist.Job{
				Width:         width,
				Height:        height,
				Region:        region,
				MaxIterations: maxIter,
				TileW:         tileSize,
				TileH:         tileSize,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			// TCP workers.
			tcpLis, err := net.Listen("tcp", fmt.Sprintf(":%d", tcpPort))
			if err != nil {
				return fmt.Errorf("net.Listen: %w", err)
			}
			log.Printf("tcp listening on port: %d", tcpPort)

			// Websocket workers share the HTTP port with the status surface.
			wsLis := dist.NewWSListener(ctx, fmt.Sprintf(":%d/ws", httpPort))
			mux := http.NewServeMux()
			mux.HandleFunc("/ws", dist.WebsocketHandler(wsLis))
			mux.HandleFunc("/progress", progressHandler(sched))
			mux.HandleFunc("/snapshot.png", snapshotHandler(sched))
			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", httpPort),
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("httpServer: %v", err)
				}
			}()
			go func() {
				if err := dist.Serve(tcpLis, sched); err != nil {
					log.Fatalf("serve tcp: %v", err)
				}
			}()
			go func() {
				if err := dist.Serve(wsLis, sched); err != nil {
					log.Fatalf("serve ws: %v", err)
				}
			}()

			log.Printf("waiting for workers on tcp :%d and ws://localhost:%d/ws", tcpPort, httpPort)
			m, err := sched.Result(ctx)
			if err != nil {
				return err
			}
			log.Printf("all %d tiles finished", sched.TotalTiles())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("http shutdown: %v", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %q: %w", out, err)
			}
			defer f.Close()
			if err := render.WritePNG(f, render.Heatmap(m, maxIter)); err != nil {
				return err
			}
			log.Printf("fully rendered file saved to %q", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&regionName, "region", "seahorse", "landmark region to render")
	cmd.Flags().IntVar(&width, "width", 1920, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 1080, "image height in pixels")
	cmd.Flags().IntVar(&maxIter, "max-iter", 1000, "iteration budget per point")
	cmd.Flags().IntVar(&tileSize, "tile-size", dist.DefaultTileSize, "tile edge length")
	cmd.Flags().IntVar(&tcpPort, "tcp-port", 8081, "port for TCP workers")
	cmd.Flags().IntVar(&httpPort, "http-port", 8080, "port for HTTP status and websocket workers")
	cmd.Flags().StringVar(&out, "out", "mandel.png", "output file")
	return cmd
}

func progressHandler(sched *dist.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(struct {
			Progress      float64 `json:"progress"`
			Workers       int     `json:"workers"`
			FinishedTiles int     `json:"finishedTiles"`
			TotalTiles    int     `json:"totalTiles"`
		}{
			Progress:      sched.Progress(),
			Workers:       sched.ActiveWorkers(),
			FinishedTiles: len(sched.FinishedTiles()),
			TotalTiles:    sched.TotalTiles(),
		})
		if err != nil {
			log.Printf("progress: %v", err)
		}
	}
}

func snapshotHandler(sched *dist.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := sched.Snapshot()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := render.WritePNG(w, render.Heatmap(m, sched.Job().MaxIterations)); err != nil {
			log.Printf("snapshot: %v", err)
		}
	}
}
