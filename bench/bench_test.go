package bench

import (
	"strings"
	"testing"
	"time"
)

func TestMeasureRunsEveryRound(t *testing.T) {
	calls := 0
	r := Measure("count", 5, func() { calls++ })
	if calls != 5 {
		t.Errorf("f ran %d times, want 5", calls)
	}
	if r.Rounds != 5 || r.Name != "count" {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestMeasureClampsRounds(t *testing.T) {
	calls := 0
	r := Measure("clamp", 0, func() { calls++ })
	if calls != 1 || r.Rounds != 1 {
		t.Errorf("zero rounds should run once, ran %d", calls)
	}
}

func TestPerOpAndSpeedup(t *testing.T) {
	base := Result{Name: "slow", Rounds: 2, Total: 2 * time.Second}
	fast := Result{Name: "fast", Rounds: 2, Total: time.Second}
	if got := base.PerOp(); got != time.Second {
		t.Errorf("PerOp = %v, want 1s", got)
	}
	if got := Speedup(base, fast); got != 2 {
		t.Errorf("Speedup = %v, want 2", got)
	}
	if got := Speedup(base, Result{}); got != 0 {
		t.Errorf("Speedup against zero result = %v, want 0", got)
	}
}

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	results := []Result{
		{Name: "pointwise", Rounds: 1, Total: 4 * time.Millisecond},
		{Name: "bulk", Rounds: 1, Total: 2 * time.Millisecond},
	}
	if err := WriteTable(&sb, results); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"pointwise", "bulk", "2.00x"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	var empty strings.Builder
	if err := WriteTable(&empty, nil); err != nil || empty.Len() != 0 {
		t.Errorf("empty table: err=%v out=%q", err, empty.String())
	}
}
