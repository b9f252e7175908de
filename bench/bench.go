// Package bench measures wall-clock cost of the same computation under
// different execution strategies and prints the comparison. It is the
// course's measuring stick, not a profiler.
package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Result is the timing of one measured configuration.
type Result struct {
	Name   string
	Rounds int
	Total  time.Duration
}

// PerOp is the average cost of one round.
func (r Result) PerOp() time.Duration {
	if r.Rounds == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Rounds)
}

// Measure runs f rounds times and records the total wall-clock cost.
func Measure(name string, rounds int, f func()) Result {
	if rounds < 1 {
		rounds = 1
	}
	start := time.Now()
	for i := 0; i < rounds; i++ {
		f()
	}
	return Result{Name: name, Rounds: rounds, Total: time.Since(start)}
}

// Speedup reports how much faster r is than base.
func Speedup(base, r Result) float64 {
	if r.PerOp() == 0 {
		return 0
	}
	return float64(base.PerOp()) / float64(r.PerOp())
}

// WriteTable prints results with speedups relative to the first row.
func WriteTable(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "strategy\tper op\tspeedup")
	base := results[0]
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%v\t%.2fx\n", r.Name, r.PerOp(), Speedup(base, r))
	}
	return tw.Flush()
}
