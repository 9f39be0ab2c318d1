package interp

import (
	"errors"
	"fmt"
	"math"
	"slices"

	gonuminterp "gonum.org/v1/gonum/interp"
)

var (
	// ErrNonMonotonic indicates sample positions that are neither strictly
	// increasing nor strictly decreasing.
	ErrNonMonotonic = errors.New("interp: sample positions are not strictly monotonic")
	// ErrTooFewPoints indicates fewer than two samples.
	ErrTooFewPoints = errors.New("interp: at least two samples are required")
	// ErrLengthMismatch indicates xs and ys of different length.
	ErrLengthMismatch = errors.New("interp: xs and ys must have the same length")
)

// Mode selects the interpolation method.
type Mode int

const (
	// ModeLinear is piecewise linear interpolation.
	ModeLinear Mode = iota
	// ModeMonotoneCubic is Fritsch-Butland monotone cubic interpolation.
	ModeMonotoneCubic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeMonotoneCubic:
		return "monotone-cubic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "linear", "":
		return ModeLinear, nil
	case "cubic", "monotone-cubic":
		return ModeMonotoneCubic, nil
	default:
		return ModeLinear, fmt.Errorf("interp: unknown mode %q", s)
	}
}

// Interpolant evaluates a function sampled at strictly monotonic positions.
// It is immutable after construction and safe for concurrent use.
type Interpolant struct {
	xs, ys []float64 // ascending
	pred   gonuminterp.Predictor

	loSlope, hiSlope float64
}

// New fits an interpolant to the samples (xs[i], ys[i]). The inputs are
// copied. xs must be strictly increasing or strictly decreasing.
func New(xs, ys []float64, mode Mode) (*Interpolant, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, n, len(ys))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}

	ax := slices.Clone(xs)
	ay := slices.Clone(ys)
	if ax[n-1] < ax[0] {
		slices.Reverse(ax)
		slices.Reverse(ay)
	}
	for i := 1; i < n; i++ {
		if !(ax[i] > ax[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%g after %g", ErrNonMonotonic, i, ax[i], ax[i-1])
		}
	}
	for i, y := range ay {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("interp: non-finite sample value at %d: %v", i, y)
		}
	}

	var fp gonuminterp.FittablePredictor
	switch mode {
	case ModeMonotoneCubic:
		fp = &gonuminterp.FritschButland{}
	default:
		fp = &gonuminterp.PiecewiseLinear{}
	}
	if err := fp.Fit(ax, ay); err != nil {
		return nil, fmt.Errorf("interp: fit failed: %w", err)
	}

	return &Interpolant{
		xs:      ax,
		ys:      ay,
		pred:    fp,
		loSlope: (ay[1] - ay[0]) / (ax[1] - ax[0]),
		hiSlope: (ay[n-1] - ay[n-2]) / (ax[n-1] - ax[n-2]),
	}, nil
}

// At returns the interpolated value at x. Outside the sampled domain the
// first or last segment is extended linearly.
func (in *Interpolant) At(x float64) float64 {
	n := len(in.xs)
	switch {
	case x < in.xs[0]:
		return in.ys[0] + in.loSlope*(x-in.xs[0])
	case x > in.xs[n-1]:
		return in.ys[n-1] + in.hiSlope*(x-in.xs[n-1])
	default:
		return in.pred.Predict(x)
	}
}

// AtAll evaluates the interpolant at every position in xs.
func (in *Interpolant) AtAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = in.At(x)
	}
	return out
}

// Domain returns the smallest and largest sampled position.
func (in *Interpolant) Domain() (lo, hi float64) {
	return in.xs[0], in.xs[len(in.xs)-1]
}

// Contains reports whether x lies inside the sampled domain.
func (in *Interpolant) Contains(x float64) bool {
	return x >= in.xs[0] && x <= in.xs[len(in.xs)-1]
}

// Len returns the number of samples.
func (in *Interpolant) Len() int {
	return len(in.xs)
}
