// Command tpstrace prints the computed ion trace of a Thomson parabola
// spectrometer in physical and detector coordinates.
//
// Usage:
//
//	tpstrace [flags]
//
// Examples:
//
//	tpstrace
//	tpstrace -params params.txt -element C -A 12 -charge 6
//	tpstrace -mass 2.014 -n 40 -emin 0.5 -emax 20
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-tps/isotope"
	"github.com/cwbudde/algo-tps/params"
	"github.com/cwbudde/algo-tps/tps/trajectory"
	"github.com/cwbudde/algo-tps/tps/transform"
	"github.com/cwbudde/algo-tps/tps/units"
)

type options struct {
	paramPath  string
	element    string
	massNumber int
	mass       float64
	charge     int
	rows       int
	samples    int
	emin, emax float64
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tpstrace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.paramPath, "params", "", "parameter file (default: built-in settings)")
	fs.StringVar(&o.element, "element", isotope.DefaultElement, "element symbol or table name such as 1H")
	fs.IntVar(&o.massNumber, "A", isotope.DefaultMassNumber, "mass number of the isotope")
	fs.Float64Var(&o.mass, "mass", 0, "ion mass in u, overrides -element and -A")
	fs.IntVar(&o.charge, "charge", 1, "charge state")
	fs.IntVar(&o.rows, "n", 20, "number of rows to print")
	fs.IntVar(&o.samples, "samples", trajectory.DefaultSamples, "number of trace samples")
	fs.Float64Var(&o.emin, "emin", math.NaN(), "lowest energy in MeV (default: charge × 1 MeV)")
	fs.Float64Var(&o.emax, "emax", math.NaN(), "highest energy in MeV (default: charge × 80 MeV)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tpstrace [flags]\n\n")
		fmt.Fprintf(stderr, "Prints the ion trace in physical and detector coordinates.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tpstrace -params params.txt -element C -A 12 -charge 6\n")
		fmt.Fprintf(stderr, "  tpstrace -mass 2.014 -n 40 -emin 0.5 -emax 20\n")
	}
	err := fs.Parse(args)
	return o, err
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	p := params.Defaults()
	if o.paramPath != "" {
		if p, err = params.Load(o.paramPath); err != nil {
			fail(err)
		}
	}

	m := o.mass
	if m <= 0 {
		if m, err = isotope.Default().Lookup(o.element, o.massNumber); err != nil {
			fail(err)
		}
	}

	opts := []trajectory.Option{trajectory.WithSamples(o.samples)}
	if !math.IsNaN(o.emin) || !math.IsNaN(o.emax) {
		lo, hi := float64(o.charge), 80*float64(o.charge)
		if !math.IsNaN(o.emin) {
			lo = o.emin
		}
		if !math.IsNaN(o.emax) {
			hi = o.emax
		}
		opts = append(opts, trajectory.WithEnergyRange(lo*units.MeV, hi*units.MeV))
	}

	tr, err := trajectory.Compute(p.DeviceConfig(o.charge, m), opts...)
	if err != nil {
		fail(err)
	}
	px, err := transform.Apply(tr, p.Transform())
	if err != nil {
		fail(err)
	}

	if err := printTrace(os.Stdout, tr, px, o.rows); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// rowIndices picks n indices spread evenly over [0, size), always
// including both ends.
func rowIndices(size, n int) []int {
	if n <= 0 || n >= size {
		n = size
	}
	if n == 1 {
		return []int{0}
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = int(math.Round(float64(i) * float64(size-1) / float64(n-1)))
	}
	return idx
}

func printTrace(w io.Writer, tr trajectory.Trace, px transform.Trace, rows int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "E [MeV]\tr [m]\tx0 [cm]\ty0 [cm]\tx [px]\ty [px]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-------\t-----\t-------\t-------\t------\t------\n"); err != nil {
		return err
	}
	for _, i := range rowIndices(tr.Len(), rows) {
		if _, err := fmt.Fprintf(tw, "%.4f\t%.4f\t%.4f\t%.4f\t%.1f\t%.1f\n",
			tr.Energy[i]/units.MeV,
			tr.Radius[i],
			tr.X[i]/units.CM,
			tr.Y[i]/units.CM,
			px.X[i],
			px.Y[i],
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}
