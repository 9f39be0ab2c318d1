package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tps/detector"
	"github.com/cwbudde/algo-tps/tps/interp"
	"github.com/cwbudde/algo-tps/tps/transform"
	"github.com/cwbudde/algo-tps/tps/units"
)

// UniformImage returns a w×h image with every pixel set to value.
func UniformImage(w, h int, value float64) *detector.Image {
	img := &detector.Image{Width: w, Height: h, Pix: make([]float64, w*h)}
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

// NoiseImage returns a w×h image of uniform noise in [0, amplitude) with a
// fixed seed for reproducibility.
func NoiseImage(seed int64, amplitude float64, w, h int) *detector.Image {
	rng := rand.New(rand.NewSource(seed))
	img := &detector.Image{Width: w, Height: h, Pix: make([]float64, w*h)}
	for i := range img.Pix {
		img.Pix[i] = rng.Float64() * amplitude
	}
	return img
}

// DepositSpectrum adds signal along a pixel trace so that a column-wise
// integration recovers dN/dE = profile(E) with E in MeV. Each column's
// counts are split evenly over the rows y−1, y, y+1 around the trace centre.
// Columns outside the image or the trace are left untouched.
func DepositSpectrum(img *detector.Image, tr transform.Trace, profile func(mev float64) float64) error {
	fE, err := interp.New(tr.X, tr.Energy, interp.ModeLinear)
	if err != nil {
		return err
	}
	fY, err := interp.New(tr.X, tr.Y, interp.ModeLinear)
	if err != nil {
		return err
	}

	lo, hi := fE.Domain()
	for c := max(int(math.Ceil(lo)), 0); c <= min(int(math.Floor(hi)), img.Width-1); c++ {
		x := float64(c)
		dE := math.Abs(fE.At(x+0.5)-fE.At(x-0.5)) / units.MeV
		counts := profile(fE.At(x)/units.MeV) * dE
		yc := int(fY.At(x))
		for r := yc - 1; r <= yc+1; r++ {
			if r >= 0 && r < img.Height {
				img.Pix[r*img.Width+c] += counts / 3
			}
		}
	}
	return nil
}
