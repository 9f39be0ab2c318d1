package trajectory

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the trajectory model.
var (
	ErrInvalidConfig    = errors.New("trajectory: invalid configuration")
	ErrTrajectoryDomain = errors.New("trajectory: cyclotron radius does not exceed magnet length for any energy")
)

// DeviceConfig describes the spectrometer and the ion species. All fields
// are SI; use the factors in package units to convert from lab units.
//
// The field order follows the parameter file: B, E, L_M, L_ME, L_E, L_ES,
// then Scale.
type DeviceConfig struct {
	ChargeState int     // ion charge in elementary charges, >= 1
	IonMass     float64 // ion mass in atomic mass units

	MagneticField float64 // B, tesla
	ElectricField float64 // E, V/m

	MagnetLength       float64 // L_M, m
	MagnetElectrodeGap float64 // L_ME, m
	ElectrodeLength    float64 // L_E, m
	ElectrodeScreenGap float64 // L_ES, m

	Scale float64 // detector scale, pixels per cm
}

// Validate checks the positivity invariants and reports the first
// offending field.
func (c DeviceConfig) Validate() error {
	if c.ChargeState < 1 {
		return fmt.Errorf("%w: charge state must be >= 1: %d", ErrInvalidConfig, c.ChargeState)
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"ion mass", c.IonMass},
		{"magnetic field", c.MagneticField},
		{"electric field", c.ElectricField},
		{"magnet length", c.MagnetLength},
		{"magnet-electrode gap", c.MagnetElectrodeGap},
		{"electrode length", c.ElectrodeLength},
		{"electrode-screen gap", c.ElectrodeScreenGap},
		{"scale", c.Scale},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be > 0: %g", ErrInvalidConfig, f.name, f.value)
		}
	}

	return nil
}
