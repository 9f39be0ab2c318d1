package spectrum

import (
	"fmt"
	"math"
	"slices"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Smooth convolves the flux with a normalised Gaussian of standard
// deviation sigmaMeV. Bins near the ends are renormalised by the part of
// the kernel that overlaps the spectrum, so a flat spectrum stays flat.
// A non-positive sigma returns a copy of s.
func Smooth(s Spectrum, sigmaMeV float64) (Spectrum, error) {
	out := Spectrum{Energy: slices.Clone(s.Energy), Flux: slices.Clone(s.Flux)}
	if !(sigmaMeV > 0) || s.Len() < 2 {
		return out, nil
	}
	if len(s.Flux) != len(s.Energy) {
		return Spectrum{}, fmt.Errorf("%w: %d energies, %d flux values", ErrInvalidOption, len(s.Energy), len(s.Flux))
	}
	width := s.BinWidth()
	if !(width > 0) {
		return Spectrum{}, fmt.Errorf("%w: bin width %g", ErrInvalidOption, width)
	}

	kernel := gaussianKernel(sigmaMeV/width, s.Len())
	if len(kernel) == 1 {
		return out, nil
	}

	c, err := newConvolver(kernel, s.Len())
	if err != nil {
		return Spectrum{}, err
	}
	flux, err := c.apply(s.Flux)
	if err != nil {
		return Spectrum{}, err
	}
	ones := make([]float64, s.Len())
	for i := range ones {
		ones[i] = 1
	}
	weight, err := c.apply(ones)
	if err != nil {
		return Spectrum{}, err
	}
	for i := range out.Flux {
		out.Flux[i] = flux[i] / weight[i]
	}
	return out, nil
}

// gaussianKernel returns an odd-length kernel of unit sum covering ±4σ,
// capped at n taps on each side.
func gaussianKernel(sigmaBins float64, n int) []float64 {
	half := min(int(math.Ceil(4*sigmaBins)), n)
	k := make([]float64, 2*half+1)
	for i := range k {
		d := float64(i-half) / sigmaBins
		k[i] = math.Exp(-0.5 * d * d)
	}
	vecmath.ScaleBlockInPlace(k, 1/vecmath.Sum(k))
	return k
}

// convolver computes centred linear convolutions of length-n signals with
// a fixed kernel.
type convolver struct {
	plan      *algofft.Plan[complex128]
	kernelFFT []complex128
	n, half   int
	fftSize   int
}

func newConvolver(kernel []float64, n int) (*convolver, error) {
	fftSize := nextPowerOf2(n + len(kernel) - 1)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	c := &convolver{
		plan:      plan,
		kernelFFT: make([]complex128, fftSize),
		n:         n,
		half:      len(kernel) / 2,
		fftSize:   fftSize,
	}
	if err := plan.Forward(c.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	return c, nil
}

func (c *convolver) apply(x []float64) ([]float64, error) {
	in := make([]complex128, c.fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	freq := make([]complex128, c.fftSize)
	if err := c.plan.Forward(freq, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	for i := range freq {
		freq[i] *= c.kernelFFT[i]
	}
	if err := c.plan.Inverse(in, freq); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	out := make([]float64, c.n)
	for i := range out {
		out[i] = real(in[i+c.half])
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
