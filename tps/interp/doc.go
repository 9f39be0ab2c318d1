// Package interp provides the 1-D interpolants used to invert the ion trace:
// kinetic energy and vertical position as functions of the horizontal pixel
// coordinate, and flux density as a function of energy.
//
// Available methods:
//
//   - [ModeLinear]:        piecewise linear (default)
//   - [ModeMonotoneCubic]: Fritsch-Butland monotone piecewise cubic
//
// Sample positions may be strictly increasing or strictly decreasing; any
// other ordering is rejected with [ErrNonMonotonic]. Inside the sampled
// domain the chosen method is used. Outside it, [Interpolant.At]
// extrapolates linearly along the first or last segment, so callers that
// step half a pixel past the end of a trace get a continued slope rather
// than a clamped value.
package interp
