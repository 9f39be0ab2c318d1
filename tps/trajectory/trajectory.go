package trajectory

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tps/tps/core"
	"github.com/cwbudde/algo-tps/tps/units"
)

// Default energy sampling.
const (
	DefaultSamples = 200

	// Default bounds per unit charge state.
	DefaultMinEnergyPerCharge = 1 * units.MeV
	DefaultMaxEnergyPerCharge = 80 * units.MeV
)

// Trace is the ion landing position in the undeflected reference frame of
// the detector plane, sampled in ascending kinetic energy.
type Trace struct {
	Energy []float64 // kinetic energy, J
	Radius []float64 // cyclotron radius in the magnet, m
	X      []float64 // magnetic deflection, m
	Y      []float64 // electric deflection, m
}

// Len returns the number of samples.
func (t Trace) Len() int { return len(t.Energy) }

// EnergyMeV returns the sample energies in MeV.
func (t Trace) EnergyMeV() []float64 {
	out := make([]float64, len(t.Energy))
	for i, e := range t.Energy {
		out[i] = e / units.MeV
	}
	return out
}

// Option configures Compute.
type Option func(*config)

type config struct {
	emin, emax float64
	samples    int
}

// WithEnergyRange sets the kinetic energy bounds in joules. Both must be
// positive with min < max; Compute rejects anything else.
func WithEnergyRange(min, max float64) Option {
	return func(cfg *config) {
		cfg.emin = min
		cfg.emax = max
	}
}

// WithSamples sets the number of energy samples. Values below 2 are ignored.
func WithSamples(n int) Option {
	return func(cfg *config) {
		if n >= 2 {
			cfg.samples = n
		}
	}
}

func defaultConfig(charge int) config {
	return config{
		emin:    float64(charge) * DefaultMinEnergyPerCharge,
		emax:    float64(charge) * DefaultMaxEnergyPerCharge,
		samples: DefaultSamples,
	}
}

// Momentum returns the relativistic momentum (kg m/s) of a particle of rest
// mass massKg with kinetic energy ek (J).
func Momentum(massKg, ek float64) float64 {
	c := units.SpeedOfLight
	em := massKg * c * c
	et := ek + em
	return math.Sqrt(et*et-em*em) / c
}

// Gamma returns the Lorentz factor for kinetic energy ek (J).
func Gamma(massKg, ek float64) float64 {
	c := units.SpeedOfLight
	return ek/(massKg*c*c) + 1
}

// CyclotronRadius returns r = p/(qB) in metres for an ion described by cfg
// with kinetic energy ek (J).
func CyclotronRadius(cfg DeviceConfig, ek float64) float64 {
	q := float64(cfg.ChargeState) * units.ElementaryCharge
	return Momentum(cfg.IonMass*units.AtomicMassUnit, ek) / (q * cfg.MagneticField)
}

// Compute samples the ion trace of cfg at geometrically spaced kinetic
// energies.
//
// For every energy E_k with E_m = m c²:
//
//	p  = sqrt((E_k + E_m)² − E_m²) / c
//	γ  = E_k / E_m + 1
//	r  = p / (q B)
//	x0 = r − sqrt(r² − L_M²) + L_M (L_E + L_ME + L_ES) / sqrt(r² − L_M²)
//	y0 = q E (L_ES + L_E) L_E / (p² (1 − (L_M/r)²)) γ m
//
// A sample is valid only when r > L_M. Low energies bend the most, so
// invalid samples sit at the start of the series; the returned trace starts
// at the first valid sample. If no sample is valid Compute returns
// ErrTrajectoryDomain.
func Compute(cfg DeviceConfig, opts ...Option) (Trace, error) {
	if err := cfg.Validate(); err != nil {
		return Trace{}, err
	}

	c := defaultConfig(cfg.ChargeState)
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if !(c.emin > 0) || !(c.emax > c.emin) || math.IsInf(c.emax, 0) {
		return Trace{}, fmt.Errorf("%w: energy range must satisfy 0 < min < max: [%g, %g] J",
			ErrInvalidConfig, c.emin, c.emax)
	}

	energies := core.Geomspace(c.emin, c.emax, c.samples)
	radii := make([]float64, len(energies))
	first := -1
	for i, ek := range energies {
		radii[i] = CyclotronRadius(cfg, ek)
		if first < 0 && radii[i] > cfg.MagnetLength {
			first = i
		}
	}
	if first < 0 {
		last := len(energies) - 1
		return Trace{}, fmt.Errorf("%w: r=%g m at %g MeV, magnet length %g m",
			ErrTrajectoryDomain, radii[last], energies[last]/units.MeV, cfg.MagnetLength)
	}

	end := first
	for end < len(energies) && radii[end] > cfg.MagnetLength {
		end++
	}

	q := float64(cfg.ChargeState) * units.ElementaryCharge
	m := cfg.IonMass * units.AtomicMassUnit
	lm := cfg.MagnetLength
	drift := cfg.ElectrodeLength + cfg.MagnetElectrodeGap + cfg.ElectrodeScreenGap
	efield := q * cfg.ElectricField * (cfg.ElectrodeScreenGap + cfg.ElectrodeLength) * cfg.ElectrodeLength

	n := end - first
	tr := Trace{
		Energy: make([]float64, n),
		Radius: make([]float64, n),
		X:      make([]float64, n),
		Y:      make([]float64, n),
	}
	for k := 0; k < n; k++ {
		ek := energies[first+k]
		r := radii[first+k]
		p := Momentum(m, ek)
		leg := math.Sqrt(r*r - lm*lm)
		ratio := lm / r

		tr.Energy[k] = ek
		tr.Radius[k] = r
		tr.X[k] = (r - leg) + lm*drift/leg
		tr.Y[k] = efield / (p * p * (1 - ratio*ratio)) * Gamma(m, ek) * m
	}

	return tr, nil
}
