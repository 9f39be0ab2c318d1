// Command tpspec extracts an ion energy spectrum from a Thomson parabola
// detector image.
//
// Usage:
//
//	tpspec -image shot.spe [flags]
//
// The ion trace is computed from the parameter file and the chosen isotope,
// mapped onto the image and integrated column by column. The spectrum is
// written as a two-column table.
//
// Examples:
//
//	tpspec -image shot.spe -params params.txt -element H -A 1 -o proton.csv
//	tpspec -image shot.spe -crop 201:701 -flip -element C -A 12 -charge 6
//	tpspec -image shot.fits -smooth 0.5 -compare reference.csv -v
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tps/detector"
	"github.com/cwbudde/algo-tps/isotope"
	"github.com/cwbudde/algo-tps/params"
	"github.com/cwbudde/algo-tps/tps/core"
	"github.com/cwbudde/algo-tps/tps/interp"
	"github.com/cwbudde/algo-tps/tps/spectrum"
	"github.com/cwbudde/algo-tps/tps/trajectory"
	"github.com/cwbudde/algo-tps/tps/transform"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tpspec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	imagePath := fs.String("image", "", "detector image (.spe, .fits)")
	paramPath := fs.String("params", "", "parameter file (default: built-in settings)")
	element := fs.String("element", isotope.DefaultElement, "element symbol or table name such as 1H")
	massNumber := fs.Int("A", isotope.DefaultMassNumber, "mass number of the isotope")
	charge := fs.Int("charge", 1, "charge state")
	out := fs.String("o", "-", "output spectrum table, - for stdout")
	halfWidth := fs.Int("halfwidth", spectrum.DefaultHalfWidth, "rows summed on each side of the trace")
	grid := fs.Int("grid", spectrum.DefaultGridSize, "points of the uniform energy grid")
	mode := fs.String("interp", "linear", "dN/dE interpolation: linear or cubic")
	sigma := fs.Float64("smooth", 0, "Gaussian smoothing sigma in MeV, 0 disables")
	crop := fs.String("crop", "", "keep image rows r0:r1")
	flip := fs.Bool("flip", false, "reverse the image row order after cropping")
	isotopePath := fs.String("isotopes", "", "isotope table (default: built-in)")
	compare := fs.String("compare", "", "reference spectrum table to compare against")
	verbose := fs.Bool("v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tpspec -image file [flags]\n\n")
		fmt.Fprintf(stderr, "Extracts an ion energy spectrum from a Thomson parabola image.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tpspec -image shot.spe -params params.txt -element H -A 1 -o proton.csv\n")
		fmt.Fprintf(stderr, "  tpspec -image shot.spe -crop 201:701 -flip -element C -A 12 -charge 6\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *imagePath == "" {
		fs.Usage()
		return errors.New("-image is required")
	}

	if *verbose {
		core.SetLogger(log.New(stderr, "tpspec: ", 0).Printf)
	} else {
		core.SetLogger(nil)
	}

	table := isotope.Default()
	if *isotopePath != "" {
		var err error
		if table, err = isotope.Load(*isotopePath); err != nil {
			return err
		}
	}
	el, err := table.Element(*element)
	if err != nil {
		return err
	}
	iso, err := el.Isotope(*massNumber)
	if err != nil {
		return err
	}
	if *charge < 1 || *charge > el.MaxCharge() {
		return fmt.Errorf("charge %d out of range 1..%d for %s", *charge, el.MaxCharge(), el.Name())
	}

	p := params.Defaults()
	if *paramPath != "" {
		if p, err = params.Load(*paramPath); err != nil {
			return err
		}
	}

	cfg := p.DeviceConfig(*charge, iso.Mass)
	tr, err := trajectory.Compute(cfg)
	if err != nil {
		return err
	}
	mev := tr.EnergyMeV()
	core.Logf("%s-%d q=%d: %d trace samples, %.3f-%.3f MeV", el.Symbol, iso.A, *charge, tr.Len(), mev[0], mev[len(mev)-1])

	px, err := transform.Apply(tr, p.Transform())
	if err != nil {
		return err
	}

	img, err := loadImage(*imagePath, *crop, *flip)
	if err != nil {
		return err
	}
	core.Logf("image %s: %dx%d", *imagePath, img.Width, img.Height)

	m, err := interp.ParseMode(*mode)
	if err != nil {
		return err
	}
	s, err := spectrum.Extract(img, px,
		spectrum.WithHalfWidth(*halfWidth),
		spectrum.WithGridSize(*grid),
		spectrum.WithInterpolation(m),
	)
	if err != nil {
		return err
	}
	if *sigma > 0 {
		if s, err = spectrum.Smooth(s, *sigma); err != nil {
			return err
		}
	}
	core.Logf("spectrum: %d bins, %.3f-%.3f MeV, total %.6g PSL", s.Len(), s.Energy[0], s.Energy[s.Len()-1], s.Total())

	if *compare != "" {
		ref, err := spectrum.ReadFile(*compare)
		if err != nil {
			return err
		}
		dev, err := maxDeviation(s, ref)
		if err != nil {
			return fmt.Errorf("%s: %w", *compare, err)
		}
		fmt.Fprintf(stderr, "compare %s: max deviation %.3g of peak flux\n", *compare, dev)
	}

	if *out == "-" {
		return spectrum.Write(stdout, s)
	}
	if err := spectrum.WriteFile(*out, s); err != nil {
		return err
	}
	core.Logf("wrote %s", *out)
	return nil
}

// loadImage reads the detector image and applies the row crop and flip.
// SPE files are cropped while decoding.
func loadImage(path, crop string, flip bool) (*detector.Image, error) {
	r0, r1, err := parseCrop(crop)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".spe") {
		var opts []detector.SPEOption
		if r1 > 0 {
			opts = append(opts, detector.WithSPECrop(r0, r1))
		}
		if flip {
			opts = append(opts, detector.WithSPEFlip())
		}
		return detector.LoadSPE(path, opts...)
	}

	img, err := detector.Load(path)
	if err != nil {
		return nil, err
	}
	if r1 > 0 {
		if img, err = img.Crop(r0, r1, 0, img.Width); err != nil {
			return nil, err
		}
	}
	if flip {
		img = img.FlipRows()
	}
	return img, nil
}

// parseCrop parses "r0:r1". The empty string means no crop.
func parseCrop(s string) (r0, r1 int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("crop %q: want r0:r1", s)
	}
	if r0, err = strconv.Atoi(a); err != nil {
		return 0, 0, fmt.Errorf("crop %q: %w", s, err)
	}
	if r1, err = strconv.Atoi(b); err != nil {
		return 0, 0, fmt.Errorf("crop %q: %w", s, err)
	}
	if r0 < 0 || r1 <= r0 {
		return 0, 0, fmt.Errorf("crop %q: want 0 <= r0 < r1", s)
	}
	return r0, r1, nil
}

// maxDeviation returns the largest flux difference between s and ref
// relative to the peak of ref.
func maxDeviation(s, ref spectrum.Spectrum) (float64, error) {
	if s.Len() != ref.Len() {
		return 0, fmt.Errorf("%d bins, reference has %d", s.Len(), ref.Len())
	}
	peak := vecmath.MaxAbs(ref.Flux)
	if peak == 0 {
		return 0, errors.New("reference spectrum is empty")
	}
	var dev float64
	for i := range s.Flux {
		dev = math.Max(dev, math.Abs(s.Flux[i]-ref.Flux[i]))
	}
	return dev / peak, nil
}
