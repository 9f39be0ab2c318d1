// Package transform maps a physical ion trace onto detector pixel
// coordinates: rotation about the physical origin, uniform scaling, then
// translation to the calibrated zero point.
package transform

import (
	"errors"
	"fmt"
	"math"
	"slices"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-tps/tps/trajectory"
	"github.com/cwbudde/algo-tps/tps/units"
)

// ErrInvalidScale indicates a non-positive scale. It matches
// trajectory.ErrInvalidConfig under errors.Is.
var ErrInvalidScale = fmt.Errorf("%w: transform scale must be > 0", trajectory.ErrInvalidConfig)

// Params holds the detector calibration.
type Params struct {
	Scale     float64 // pixels per cm
	DX, DY    float64 // pixel position of the zero-deflection point
	RotateDeg float64 // detector tilt, counter-clockwise positive
}

// ParamsFromConfig returns Params using the scale of cfg.
func ParamsFromConfig(cfg trajectory.DeviceConfig, dx, dy, rotateDeg float64) Params {
	return Params{Scale: cfg.Scale, DX: dx, DY: dy, RotateDeg: rotateDeg}
}

// Trace is a trajectory in pixel coordinates. Energy is copied from the
// physical trace it was computed from (J, ascending).
type Trace struct {
	Energy []float64
	X, Y   []float64
}

// Len returns the number of samples.
func (t Trace) Len() int { return len(t.Energy) }

// Apply maps tr into pixel space:
//
//	x = (cos θ·x0 − sin θ·y0) · Scale · 100 + DX
//	y = (sin θ·x0 + cos θ·y0) · Scale · 100 + DY
//
// The factor 100 converts the per-cm scale to metres, the length unit of
// the physical trace.
func Apply(tr trajectory.Trace, p Params) (Trace, error) {
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		return Trace{}, fmt.Errorf("%w: %g", ErrInvalidScale, p.Scale)
	}
	if len(tr.X) != len(tr.Energy) || len(tr.Y) != len(tr.Energy) {
		return Trace{}, errors.New("transform: trace slices differ in length")
	}

	n := len(tr.Energy)
	theta := p.RotateDeg * units.Deg
	k := p.Scale * units.PixelsPerScaleUnit
	cos, sin := math.Cos(theta)*k, math.Sin(theta)*k

	out := Trace{
		Energy: slices.Clone(tr.Energy),
		X:      make([]float64, n),
		Y:      make([]float64, n),
	}
	if n == 0 {
		return out, nil
	}

	tmp := make([]float64, n)

	vecmath.ScaleBlock(out.X, tr.X, cos)
	vecmath.ScaleBlock(tmp, tr.Y, -sin)
	vecmath.AddBlockInPlace(out.X, tmp)
	floats.AddConst(p.DX, out.X)

	vecmath.ScaleBlock(out.Y, tr.X, sin)
	vecmath.ScaleBlock(tmp, tr.Y, cos)
	vecmath.AddBlockInPlace(out.Y, tmp)
	floats.AddConst(p.DY, out.Y)

	return out, nil
}
