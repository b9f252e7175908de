package impute

import (
	"math"
	"testing"
)

var nan = math.NaN()

func TestInterpolateFillsGaps(t *testing.T) {
	got, err := Interpolate([]float64{1, nan, nan, 4, nan, 6})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2, 3, 4, 5, 6}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("index %d = %v, want %v", i, got[i], v)
		}
	}
}

func TestInterpolateHoldsEdges(t *testing.T) {
	got, err := Interpolate([]float64{nan, nan, 5, 7, nan})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 5, 5, 7, 7}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("index %d = %v, want %v", i, got[i], v)
		}
	}
}

func TestInterpolateLeavesInputUntouched(t *testing.T) {
	in := []float64{1, nan, 3}
	if _, err := Interpolate(in); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(in[1]) {
		t.Error("input series modified")
	}
}

func TestInterpolateAllMissing(t *testing.T) {
	if _, err := Interpolate([]float64{nan, nan}); err == nil {
		t.Error("all-NaN series accepted")
	}
}

func TestRollingMean(t *testing.T) {
	got, err := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.5, 2, 3, 4, 4.5}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("index %d = %v, want %v", i, got[i], v)
		}
	}
}

func TestRollingMeanRejectsBadWindows(t *testing.T) {
	if _, err := RollingMean([]float64{1, 2}, 0); err == nil {
		t.Error("zero window accepted")
	}
	if _, err := RollingMean([]float64{1, 2}, 4); err == nil {
		t.Error("even window accepted")
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, nan, 4, nan, 6})
	if s.Missing != 2 {
		t.Errorf("missing = %d, want 2", s.Missing)
	}
	if s.Mean != 4 {
		t.Errorf("mean = %v, want 4", s.Mean)
	}
	if s.Min != 2 || s.Max != 6 {
		t.Errorf("min/max = %v/%v, want 2/6", s.Min, s.Max)
	}

	empty := Describe([]float64{nan})
	if empty.Missing != 1 || !math.IsNaN(empty.Mean) {
		t.Errorf("empty summary = %+v", empty)
	}
}
