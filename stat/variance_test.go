package stat

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want Summary
	}{
		{
			name: "empty",
			in:   nil,
			want: Summary{},
		},
		{
			name: "single",
			in:   []int{7},
			want: Summary{Average: 7},
		},
		{
			name: "sentence lengths",
			in:   []int{5, 8, 5},
			want: Summary{Average: 6, Stdev: math.Sqrt(3), Range: 3, Oscillation: 1},
		},
		{
			name: "constant",
			in:   []int{3, 3, 3},
			want: Summary{Average: 3, Range: 0},
		},
		{
			name: "two values",
			in:   []int{2, 4},
			want: Summary{Average: 3, Stdev: math.Sqrt(2), Range: 2, Oscillation: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Measure(tt.in)
			if !almostEqual(got.Average, tt.want.Average) {
				t.Errorf("average: expected %v, got %v", tt.want.Average, got.Average)
			}
			if !almostEqual(got.Stdev, tt.want.Stdev) {
				t.Errorf("stdev: expected %v, got %v", tt.want.Stdev, got.Stdev)
			}
			if got.Range != tt.want.Range {
				t.Errorf("range: expected %d, got %d", tt.want.Range, got.Range)
			}
			if !almostEqual(got.Oscillation, tt.want.Oscillation) {
				t.Errorf("oscillation: expected %v, got %v", tt.want.Oscillation, got.Oscillation)
			}
		})
	}
}

func TestMeasureRangeIsMaxMinusMin(t *testing.T) {
	seqs := [][]int{
		{1},
		{4, 1, 9, 2},
		{10, 10, 3, 12, 0},
		{-3, 5},
	}

	for _, s := range seqs {
		hi, lo := s[0], s[0]
		for _, x := range s {
			if x > hi {
				hi = x
			}
			if x < lo {
				lo = x
			}
		}

		if got := Measure(s).Range; got != hi-lo {
			t.Errorf("%v: expected range %d, got %d", s, hi-lo, got)
		}
	}
}

func TestOscillation(t *testing.T) {
	tests := []struct {
		in   []int
		want float64
	}{
		{nil, 0},
		{[]int{4}, 0},
		{[]int{3, 3, 5}, 0.5},
		{[]int{3, 5, 3}, 0.5},
		{[]int{5, 3, 3}, 0.5},
		{[]int{3, 3, 3}, 0},
		{[]int{1, 2, 3, 4}, 1},
	}

	for _, tt := range tests {
		if got := Oscillation(tt.in); !almostEqual(got, tt.want) {
			t.Errorf("%v: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestOscillationReverseInvariant(t *testing.T) {
	s := []int{1, 1, 2, 7, 7, 7, 3}
	r := make([]int, len(s))
	for i, x := range s {
		r[len(s)-1-i] = x
	}

	if a, b := Oscillation(s), Oscillation(r); !almostEqual(a, b) {
		t.Fatalf("expected reversal to keep oscillation, got %v and %v", a, b)
	}

	// a permutation of the same multiset may not
	if a, b := Oscillation([]int{1, 1, 2}), Oscillation([]int{1, 2, 1}); almostEqual(a, b) {
		t.Fatalf("expected order to matter, got %v for both", a)
	}
}
