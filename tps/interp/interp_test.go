package interp

import (
	"errors"
	"math"
	"testing"
)

func TestLinearIdentityOnRamp(t *testing.T) {
	in, err := New([]float64{0, 1, 2, 3}, []float64{0, 2, 4, 6}, ModeLinear)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, tc := range []struct {
		x float64
		w float64
	}{
		{x: 0.0, w: 0.0},
		{x: 0.25, w: 0.5},
		{x: 1.5, w: 3.0},
		{x: 3.0, w: 6.0},
	} {
		got := in.At(tc.x)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("x=%v: got %v want %v", tc.x, got, tc.w)
		}
	}
}

func TestDecreasingPositions(t *testing.T) {
	// Pixel traces run right to left as energy rises.
	xs := []float64{300, 200, 100}
	ys := []float64{1, 2, 3}
	in, err := New(xs, ys, ModeLinear)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := in.At(150); math.Abs(got-2.5) > 1e-12 {
		t.Fatalf("At(150) = %v, want 2.5", got)
	}
	lo, hi := in.Domain()
	if lo != 100 || hi != 300 {
		t.Fatalf("Domain() = %v, %v, want 100, 300", lo, hi)
	}
	// inputs must not be reordered in place
	if xs[0] != 300 || ys[0] != 1 {
		t.Fatalf("input mutated: xs=%v ys=%v", xs, ys)
	}
}

func TestLinearExtrapolation(t *testing.T) {
	in, err := New([]float64{0, 1, 2}, []float64{10, 12, 16}, ModeLinear)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := in.At(-0.5); math.Abs(got-9) > 1e-12 {
		t.Fatalf("At(-0.5) = %v, want 9", got)
	}
	if got := in.At(2.5); math.Abs(got-18) > 1e-12 {
		t.Fatalf("At(2.5) = %v, want 18", got)
	}
	if in.Contains(2.5) || !in.Contains(2) {
		t.Fatal("Contains() disagrees with domain")
	}
}

func TestMonotoneCubicPreservesMonotonicity(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 0.1, 0.2, 3, 3.1, 3.2}
	in, err := New(xs, ys, ModeMonotoneCubic)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	prev := in.At(0)
	for x := 0.01; x <= 5; x += 0.01 {
		v := in.At(x)
		if v < prev-1e-12 {
			t.Fatalf("cubic overshoot at x=%v: %v < %v", x, v, prev)
		}
		prev = v
	}
	for i, x := range xs {
		if got := in.At(x); math.Abs(got-ys[i]) > 1e-12 {
			t.Fatalf("At(%v) = %v, want node value %v", x, got, ys[i])
		}
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want error
	}{
		{name: "mismatch", xs: []float64{0, 1}, ys: []float64{0}, want: ErrLengthMismatch},
		{name: "short", xs: []float64{0}, ys: []float64{0}, want: ErrTooFewPoints},
		{name: "zigzag", xs: []float64{0, 2, 1}, ys: []float64{0, 1, 2}, want: ErrNonMonotonic},
		{name: "plateau", xs: []float64{3, 2, 2}, ys: []float64{0, 1, 2}, want: ErrNonMonotonic},
		{name: "nan", xs: []float64{0, math.NaN(), 2}, ys: []float64{0, 1, 2}, want: ErrNonMonotonic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.xs, tt.ys, ModeLinear)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Mode
	}{
		{"linear", ModeLinear},
		{"", ModeLinear},
		{"cubic", ModeMonotoneCubic},
		{"monotone-cubic", ModeMonotoneCubic},
	} {
		got, err := ParseMode(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseMode(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseMode("spline"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if ModeMonotoneCubic.String() != "monotone-cubic" {
		t.Fatalf("String() = %q", ModeMonotoneCubic.String())
	}
}
