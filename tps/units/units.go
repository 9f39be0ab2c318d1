// Package units holds the physical constants and unit factors shared by the
// trajectory model, the coordinate transform and the spectrum extractor.
//
// All quantities inside the tps packages are SI. Multiply a value by a unit
// factor to convert it into SI, divide to convert it back:
//
//	e := 20 * units.KVPerCM // 2e6 V/m
//	l := 10 * units.CM      // 0.1 m
//	mev := ek / units.MeV
package units

import "math"

// Physical constants (CODATA 2018).
const (
	ElementaryCharge = 1.602176634e-19   // C
	SpeedOfLight     = 299792458.0       // m/s
	AtomicMassUnit   = 1.66053906660e-27 // kg
)

// Energy units in joules.
const (
	EV  = ElementaryCharge
	KeV = 1e3 * EV
	MeV = 1e6 * EV
)

// Length units in metres.
const (
	M  = 1.0
	CM = 1e-2
	MM = 1e-3
)

// Field units.
const (
	Tesla   = 1.0
	Volt    = 1.0
	KV      = 1e3
	KVPerCM = KV / CM // V/m
	VPerCM  = Volt / CM
)

// Deg converts degrees to radians.
const Deg = math.Pi / 180

// PixelsPerScaleUnit is the multiplier between a configured scale
// (pixels per cm) and pixels per metre.
const PixelsPerScaleUnit = 1 / CM
