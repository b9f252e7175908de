package main

import (
	"log"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gabeclass/go-performance-minicourse/bench"
	"github.com/gabeclass/go-performance-minicourse/escape"
	"github.com/gabeclass/go-performance-minicourse/parallel"
)

func benchCmd() *cobra.Command {
	var (
		regionName string
		size       int
		maxIter    int
		rounds     int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "compare kernel strategies on the same grid",
		Long: `bench runs the same escape-time computation as a pointwise loop, a bulk
array pass, and a parallel row-band run, and prints the wall-clock
comparison. The point of the exercise is seeing the same five-line kernel
behave differently under each execution strategy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := escape.LookupRegion(envString(cmd, "region", regionName))
			if err != nil {
				return err
			}
			g, err := escape.SampleRegion(region, size, size)
			if err != nil {
				return err
			}

			pointwise := escape.Options{MaxIterations: maxIter, Strategy: escape.StrategyPointwise}
			bulk := escape.Options{MaxIterations: maxIter, Strategy: escape.StrategyBulk}
			cfg := parallel.DefaultConfig()

			log.Printf("benchmarking %dx%d, %d iterations, %d rounds, %d CPUs",
				size, size, maxIter, rounds, runtime.NumCPU())

			mustCompute := func(opts escape.Options) func() {
				return func() {
					if _, err := escape.Compute(g, opts); err != nil {
						log.Fatalf("compute: %v", err)
					}
				}
			}

			results := []bench.Result{
				bench.Measure("pointwise", rounds, mustCompute(pointwise)),
				bench.Measure("bulk", rounds, mustCompute(bulk)),
				bench.Measure("parallel", rounds, func() {
					if _, err := parallel.Compute(g, pointwise, cfg); err != nil {
						log.Fatalf("parallel compute: %v", err)
					}
				}),
			}
			return bench.WriteTable(os.Stdout, results)
		},
	}

	cmd.Flags().StringVar(&regionName, "region", "seahorse", "landmark region to compute")
	cmd.Flags().IntVar(&size, "size", 512, "grid edge length")
	cmd.Flags().IntVar(&maxIter, "max-iter", 500, "iteration budget per point")
	cmd.Flags().IntVar(&rounds, "rounds", 3, "rounds per strategy")
	return cmd
}
