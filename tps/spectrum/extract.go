package spectrum

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-tps/detector"
	"github.com/cwbudde/algo-tps/tps/core"
	"github.com/cwbudde/algo-tps/tps/interp"
	"github.com/cwbudde/algo-tps/tps/transform"
	"github.com/cwbudde/algo-tps/tps/units"
)

var (
	// ErrTraceNotVisible indicates a trace that does not cross enough of
	// the image to integrate.
	ErrTraceNotVisible = errors.New("spectrum: trace not visible on detector")
	// ErrNonMonotonicTrace indicates pixel x-coordinates that do not vary
	// monotonically with energy. Errors carrying it also match
	// interp.ErrNonMonotonic.
	ErrNonMonotonicTrace = errors.New("spectrum: trace x-coordinates are not monotonic")
	// ErrInvalidOption indicates an unusable extraction setting.
	ErrInvalidOption = errors.New("spectrum: invalid option")
)

// Defaults used by Extract.
const (
	DefaultHalfWidth  = 5
	DefaultGridSize   = 200
	DefaultSubSamples = 100
)

// Spectrum is an energy-binned ion spectrum.
type Spectrum struct {
	Energy []float64 // bin centres, MeV, ascending and uniformly spaced
	Flux   []float64 // counts per bin, PSL
}

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s.Energy) }

// BinWidth returns the spacing of the bin centres, or 0 for fewer than two
// bins.
func (s Spectrum) BinWidth() float64 {
	if len(s.Energy) < 2 {
		return 0
	}
	return s.Energy[1] - s.Energy[0]
}

// Total returns the summed flux.
func (s Spectrum) Total() float64 { return vecmath.Sum(s.Flux) }

// RawSpectrum is the per-column series before resampling. Entries are
// ordered by ascending energy.
type RawSpectrum struct {
	Column  []int     // detector column
	Energy  []float64 // MeV at the column centre
	Counts  []float64 // summed signal in the column window, PSL
	Density []float64 // dN/dE, PSL/MeV
}

// Len returns the number of columns.
func (r RawSpectrum) Len() int { return len(r.Column) }

type config struct {
	halfWidth  int
	gridSize   int
	subSamples int
	mode       interp.Mode
}

// Option configures Extract and Raw.
type Option func(*config)

// WithHalfWidth sets the number of rows summed on each side of the trace.
// Values below 1 are ignored.
func WithHalfWidth(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.halfWidth = n
		}
	}
}

// WithGridSize sets the number of uniform grid points; the spectrum has
// one bin fewer. Values below 2 are ignored.
func WithGridSize(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.gridSize = n
		}
	}
}

// WithSubSamples sets the number of points of the trapezoid rule used per
// bin. Values below 2 are ignored.
func WithSubSamples(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.subSamples = n
		}
	}
}

// WithInterpolation selects how dN/dE is interpolated between columns
// during resampling. The trace itself is always interpolated linearly.
func WithInterpolation(mode interp.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

func newConfig(opts []Option) (config, error) {
	cfg := config{
		halfWidth:  DefaultHalfWidth,
		gridSize:   DefaultGridSize,
		subSamples: DefaultSubSamples,
		mode:       interp.ModeLinear,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.mode != interp.ModeLinear && cfg.mode != interp.ModeMonotoneCubic {
		return cfg, fmt.Errorf("%w: interpolation %v", ErrInvalidOption, cfg.mode)
	}
	return cfg, nil
}

// Extract integrates img along tr and returns the spectrum on a uniform
// energy grid.
func Extract(img *detector.Image, tr transform.Trace, opts ...Option) (Spectrum, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Spectrum{}, err
	}
	raw, err := extractRaw(img, tr, cfg)
	if err != nil {
		return Spectrum{}, err
	}
	return resample(raw.Energy, raw.Density, cfg)
}

// Raw integrates img along tr and returns the per-column series without
// resampling.
func Raw(img *detector.Image, tr transform.Trace, opts ...Option) (RawSpectrum, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return RawSpectrum{}, err
	}
	return extractRaw(img, tr, cfg)
}

// Resample integrates the density dN/dE sampled at energy (MeV, strictly
// monotonic) over a uniform grid spanning the samples.
func Resample(energy, density []float64, opts ...Option) (Spectrum, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Spectrum{}, err
	}
	return resample(energy, density, cfg)
}

// entryIndex returns the first sample, scanning from low energy, whose
// integration window fits on the detector.
func entryIndex(img *detector.Image, tr transform.Trace, hw int) int {
	w, h := float64(img.Width), float64(img.Height)
	for i := range tr.X {
		if math.RoundToEven(tr.X[i]) < w && math.RoundToEven(tr.Y[i])+float64(hw) < h {
			return i
		}
	}
	return -1
}

func extractRaw(img *detector.Image, tr transform.Trace, cfg config) (RawSpectrum, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return RawSpectrum{}, fmt.Errorf("%w: empty image", ErrTraceNotVisible)
	}
	n := tr.Len()
	if len(tr.X) != n || len(tr.Y) != n {
		return RawSpectrum{}, errors.New("spectrum: trace slices differ in length")
	}
	if n < 2 {
		return RawSpectrum{}, fmt.Errorf("%w: trace has %d samples", ErrTraceNotVisible, n)
	}

	hw := cfg.halfWidth
	entry := entryIndex(img, tr, hw)
	if entry < 0 {
		return RawSpectrum{}, fmt.Errorf("%w: no sample inside %dx%d with half-width %d",
			ErrTraceNotVisible, img.Width, img.Height, hw)
	}

	// One sample before the entry keeps the half-column step at the first
	// column inside the fitted range.
	start := max(entry-1, 0)
	xs, es, ys := tr.X[start:], tr.Energy[start:], tr.Y[start:]
	fE, err := interp.New(xs, es, interp.ModeLinear)
	if err != nil {
		return RawSpectrum{}, traceError(err)
	}
	fY, err := interp.New(xs, ys, interp.ModeLinear)
	if err != nil {
		return RawSpectrum{}, traceError(err)
	}

	first := int(math.Floor(tr.X[entry]))
	stop := max(int(math.Ceil(tr.X[n-1])), -1)
	if first <= stop+1 {
		return RawSpectrum{}, fmt.Errorf("%w: %d columns between x=%g and x=%g",
			ErrTraceNotVisible, max(first-stop, 0), tr.X[entry], tr.X[n-1])
	}

	size := first - stop
	raw := RawSpectrum{
		Column:  make([]int, 0, size),
		Energy:  make([]float64, 0, size),
		Counts:  make([]float64, 0, size),
		Density: make([]float64, 0, size),
	}
	buf := make([]float64, 0, 2*hw)
	for c := first; c > stop; c-- {
		x := float64(c)
		yc := int(fY.At(x))
		buf = img.Column(buf, c, yc-hw, yc+hw)
		dN := vecmath.Sum(buf)
		dE := fE.At(x+0.5) - fE.At(x-0.5)

		raw.Column = append(raw.Column, c)
		raw.Energy = append(raw.Energy, fE.At(x)/units.MeV)
		raw.Counts = append(raw.Counts, dN)
		raw.Density = append(raw.Density, -dN/dE*units.MeV)
	}
	return raw, nil
}

func traceError(err error) error {
	if errors.Is(err, interp.ErrNonMonotonic) {
		return fmt.Errorf("%w: %w", ErrNonMonotonicTrace, err)
	}
	return fmt.Errorf("spectrum: trace interpolation: %w", err)
}

func resample(energy, density []float64, cfg config) (Spectrum, error) {
	f, err := interp.New(energy, density, cfg.mode)
	if err != nil {
		if errors.Is(err, interp.ErrTooFewPoints) {
			return Spectrum{}, fmt.Errorf("%w: %w", ErrTraceNotVisible, err)
		}
		return Spectrum{}, traceError(err)
	}

	lo, hi := f.Domain()
	grid := core.Linspace(lo, hi, cfg.gridSize)
	bins := cfg.gridSize - 1
	out := Spectrum{
		Energy: make([]float64, bins),
		Flux:   make([]float64, bins),
	}

	xs := make([]float64, cfg.subSamples)
	fs := make([]float64, cfg.subSamples)
	for i := range bins {
		floats.Span(xs, grid[i], grid[i+1])
		for j, x := range xs {
			fs[j] = f.At(x)
		}
		out.Energy[i] = 0.5 * (grid[i] + grid[i+1])
		out.Flux[i] = integrate.Trapezoidal(xs, fs)
	}
	return out, nil
}
