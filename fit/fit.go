// Package fit estimates model parameters by minimizing a negative
// log-likelihood, the course's curve-fitting demo. The heavy lifting is a
// thin wrapper over gonum's optimizers.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// NormalParams are the fitted parameters of a normal model.
type NormalParams struct {
	Mu, Sigma float64
}

// NormalNLL returns the negative log-likelihood of a normal model over
// samples as a function of x = [mu, log sigma]. The log parameterization
// keeps sigma positive without constrained optimization.
func NormalNLL(samples []float64) func(x []float64) float64 {
	n := float64(len(samples))
	return func(x []float64) float64 {
		mu, logSigma := x[0], x[1]
		sigma2 := math.Exp(2 * logSigma)
		ss := 0.0
		for _, s := range samples {
			d := s - mu
			ss += d * d
		}
		return 0.5*n*math.Log(2*math.Pi*sigma2) + ss/(2*sigma2)
	}
}

// FitNormal estimates mu and sigma by minimizing the negative
// log-likelihood with L-BFGS and finite-difference gradients.
func FitNormal(samples []float64) (NormalParams, error) {
	if len(samples) < 2 {
		return NormalParams{}, errors.New("fit: need at least two samples")
	}
	sd := stat.StdDev(samples, nil)
	if sd == 0 {
		return NormalParams{}, errors.New("fit: samples have zero variance")
	}

	nll := NormalNLL(samples)
	problem := optimize.Problem{
		Func: nll,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, nll, x, nil)
		},
	}

	// Moment estimates start close to the optimum.
	x0 := []float64{stat.Mean(samples, nil), math.Log(sd)}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.LBFGS{})
	if err != nil {
		return NormalParams{}, fmt.Errorf("fit: minimize: %w", err)
	}
	if err := result.Status.Err(); err != nil {
		return NormalParams{}, fmt.Errorf("fit: %w", err)
	}
	return NormalParams{Mu: result.X[0], Sigma: math.Exp(result.X[1])}, nil
}
