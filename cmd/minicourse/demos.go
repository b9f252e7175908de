package main

import (
	"log"
	"math"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gabeclass/go-performance-minicourse/fit"
	"github.com/gabeclass/go-performance-minicourse/impute"
	"github.com/gabeclass/go-performance-minicourse/mcmc"
)

func mcmcCmd() *cobra.Command {
	var (
		n     int
		burn  int
		step  float64
		mu    float64
		sigma float64
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "mcmc",
		Short: "sample a normal target with Metropolis-Hastings",
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := mcmc.Sample(mcmc.NormalLogDensity(mu, sigma), mu, step, n, rand.NewSource(seed))
			if err != nil {
				return err
			}
			sum, err := chain.Summarize(burn)
			if err != nil {
				return err
			}
			log.Printf("target: Normal(%v, %v)", mu, sigma)
			log.Printf("chain: %d samples, %d burned, acceptance %.2f", n, burn, chain.AcceptanceRate())
			log.Printf("estimate: mean %.4f, stddev %.4f", sum.Mean, sum.StdDev)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "samples", 50000, "chain length")
	cmd.Flags().IntVar(&burn, "burn", 1000, "burn-in samples to drop")
	cmd.Flags().Float64Var(&step, "step", 1.0, "proposal step size")
	cmd.Flags().Float64Var(&mu, "mu", 0, "target mean")
	cmd.Flags().Float64Var(&sigma, "sigma", 1, "target stddev")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random source seed")
	return cmd
}

func fitCmd() *cobra.Command {
	var (
		n     int
		mu    float64
		sigma float64
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "recover normal parameters by minimizing the negative log-likelihood",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := distuv.Normal{Mu: mu, Sigma: sigma, Src: rand.NewSource(seed)}
			samples := make([]float64, n)
			for i := range samples {
				samples[i] = gen.Rand()
			}

			params, err := fit.FitNormal(samples)
			if err != nil {
				return err
			}
			log.Printf("true parameters: mu %.4f, sigma %.4f", mu, sigma)
			log.Printf("fitted by NLL:   mu %.4f, sigma %.4f (%d samples)", params.Mu, params.Sigma, n)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "samples", 2000, "synthetic sample count")
	cmd.Flags().Float64Var(&mu, "mu", 12.5, "true mean")
	cmd.Flags().Float64Var(&sigma, "sigma", 3.2, "true stddev")
	cmd.Flags().Uint64Var(&seed, "seed", 7, "random source seed")
	return cmd
}

func imputeCmd() *cobra.Command {
	var (
		days   int
		window int
	)

	cmd := &cobra.Command{
		Use:   "impute",
		Short: "fill gaps in a synthetic temperature series",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A yearly sine with every seventh reading lost.
			series := make([]float64, days)
			for i := range series {
				series[i] = 15 + 10*math.Sin(2*math.Pi*float64(i)/365)
				if i%7 == 3 {
					series[i] = math.NaN()
				}
			}

			before := impute.Describe(series)
			log.Printf("observed: %d missing of %d, mean %.2f", before.Missing, days, before.Mean)

			filled, err := impute.Interpolate(series)
			if err != nil {
				return err
			}
			smoothed, err := impute.RollingMean(filled, window)
			if err != nil {
				return err
			}

			after := impute.Describe(smoothed)
			log.Printf("imputed and smoothed: %d missing, mean %.2f, range [%.2f, %.2f]",
				after.Missing, after.Mean, after.Min, after.Max)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 365, "series length")
	cmd.Flags().IntVar(&window, "window", 7, "rolling mean window (odd)")
	return cmd
}
