// Package impute fills gaps in observed series, the course's
// temperature-record demo. Missing observations are NaN.
package impute

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Interpolate fills NaN gaps in series by linear interpolation between the
// nearest observed neighbors. Leading and trailing gaps hold the nearest
// observation. The input is left untouched.
func Interpolate(series []float64) ([]float64, error) {
	out := make([]float64, len(series))
	copy(out, series)

	first, last := -1, -1
	for i, v := range out {
		if !math.IsNaN(v) {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return nil, errors.New("impute: series has no observed values")
	}

	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := last + 1; i < len(out); i++ {
		out[i] = out[last]
	}

	i := first
	for i < last {
		if !math.IsNaN(out[i+1]) {
			i++
			continue
		}
		j := i + 1
		for math.IsNaN(out[j]) {
			j++
		}
		slope := (out[j] - out[i]) / float64(j-i)
		for k := i + 1; k < j; k++ {
			out[k] = out[i] + float64(k-i)*slope
		}
		i = j
	}
	return out, nil
}

// RollingMean smooths series with a centered window of odd width. Windows
// are truncated at the edges.
func RollingMean(series []float64, window int) ([]float64, error) {
	if window <= 0 || window%2 == 0 {
		return nil, fmt.Errorf("impute: window must be odd and positive, got %d", window)
	}
	half := window / 2
	out := make([]float64, len(series))
	for i := range series {
		lo := max(i-half, 0)
		hi := min(i+half+1, len(series))
		out[i] = stat.Mean(series[lo:hi], nil)
	}
	return out, nil
}

// Stats summarizes the observed part of a series.
type Stats struct {
	Mean, StdDev float64
	Min, Max     float64
	Missing      int
}

// Describe summarizes a series, skipping NaN entries.
func Describe(series []float64) Stats {
	obs := make([]float64, 0, len(series))
	missing := 0
	for _, v := range series {
		if math.IsNaN(v) {
			missing++
			continue
		}
		obs = append(obs, v)
	}
	if len(obs) == 0 {
		return Stats{
			Mean:    math.NaN(),
			StdDev:  math.NaN(),
			Min:     math.NaN(),
			Max:     math.NaN(),
			Missing: missing,
		}
	}
	return Stats{
		Mean:    stat.Mean(obs, nil),
		StdDev:  stat.StdDev(obs, nil),
		Min:     floats.Min(obs),
		Max:     floats.Max(obs),
		Missing: missing,
	}
}
