// Package mcmc implements Metropolis-Hastings sampling of a one-dimensional
// target density, the course's second classic kernel: a few lines of
// arithmetic whose cost is dominated by how often they run.
package mcmc

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogDensity is an unnormalized log target density.
type LogDensity func(x float64) float64

// NormalLogDensity returns the log density of a Normal(mu, sigma) up to an
// additive constant.
func NormalLogDensity(mu, sigma float64) LogDensity {
	return func(x float64) float64 {
		d := (x - mu) / sigma
		return -0.5 * d * d
	}
}

// Chain holds the samples of one run.
type Chain struct {
	Samples  []float64
	Accepted int
}

// AcceptanceRate is the fraction of proposals that were accepted.
func (c Chain) AcceptanceRate() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(len(c.Samples))
}

// Summary describes a chain after burn-in.
type Summary struct {
	Mean, StdDev float64
}

// Summarize drops the first burn samples and summarizes the rest.
func (c Chain) Summarize(burn int) (Summary, error) {
	if burn < 0 || burn >= len(c.Samples) {
		return Summary{}, fmt.Errorf("mcmc: burn-in %d outside chain of length %d", burn, len(c.Samples))
	}
	s := c.Samples[burn:]
	return Summary{Mean: stat.Mean(s, nil), StdDev: stat.StdDev(s, nil)}, nil
}

// Sample runs n Metropolis-Hastings steps from x0 with a Gaussian random
// walk proposal of the given step size. Acceptance is decided in log space,
// so very small densities cannot underflow the ratio. The chain is
// deterministic for a fixed src; a nil src uses the global source.
func Sample(logp LogDensity, x0, step float64, n int, src rand.Source) (Chain, error) {
	if logp == nil {
		return Chain{}, errors.New("mcmc: nil log density")
	}
	if n <= 0 {
		return Chain{}, fmt.Errorf("mcmc: sample count must be positive, got %d", n)
	}
	if step <= 0 {
		return Chain{}, fmt.Errorf("mcmc: step must be positive, got %v", step)
	}

	proposal := distuv.Normal{Mu: 0, Sigma: step, Src: src}
	unif := distuv.Uniform{Min: 0, Max: 1, Src: src}

	samples := make([]float64, n)
	x := x0
	lp := logp(x)
	accepted := 0
	for i := 0; i < n; i++ {
		cand := x + proposal.Rand()
		clp := logp(cand)
		if clp-lp >= 0 || math.Log(unif.Rand()) < clp-lp {
			x, lp = cand, clp
			accepted++
		}
		samples[i] = x
	}
	return Chain{Samples: samples, Accepted: accepted}, nil
}
