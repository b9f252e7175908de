package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabeclass/go-performance-minicourse/escape"
	"github.com/gabeclass/go-performance-minicourse/parallel"
	"github.com/gabeclass/go-performance-minicourse/render"
)

func renderCmd() *cobra.Command {
	var (
		regionName string
		width      int
		height     int
		maxIter    int
		strategy   string
		workers    int
		out        string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "compute an escape map locally and write it as a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := escape.LookupRegion(envString(cmd, "region", regionName))
			if err != nil {
				return err
			}
			strat, err := escape.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			g, err := escape.SampleRegion(region, width, height)
			if err != nil {
				return err
			}

			start := time.Now()
			m, err := parallel.Compute(g,
				escape.Options{MaxIterations: maxIter, Strategy: strat},
				parallel.Config{Workers: workers, MinRowsPerBand: 16})
			if err != nil {
				return err
			}
			log.Printf("computed %dx%d (%s, %d iterations) in %v", width, height, strat, maxIter, time.Since(start))

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %q: %w", out, err)
			}
			defer f.Close()

			if err := render.WritePNG(f, render.Heatmap(m, maxIter)); err != nil {
				return err
			}
			log.Printf("wrote %q", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&regionName, "region", "seahorse", "landmark region to render")
	cmd.Flags().IntVar(&width, "width", 1920, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 1080, "image height in pixels")
	cmd.Flags().IntVar(&maxIter, "max-iter", 1000, "iteration budget per point")
	cmd.Flags().StringVar(&strategy, "strategy", "pointwise", "kernel strategy: pointwise or bulk")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines, 0 for all CPUs")
	cmd.Flags().StringVar(&out, "out", "mandel.png", "output file")
	return cmd
}
