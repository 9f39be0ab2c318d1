// Package params reads and writes the spectrometer parameter file.
//
// The file holds one "<label> : <value>" line per setting in a fixed
// order:
//
//	B field (T) : 0.44
//	E field (V/cm) : 20.0
//	L_M (cm) : 10.0
//	...
//	Scale : 154.0
//
// The electric-field label is historical; the value is in kV/cm.
package params

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-tps/tps/trajectory"
	"github.com/cwbudde/algo-tps/tps/transform"
	"github.com/cwbudde/algo-tps/tps/units"
)

// ErrCorrupt indicates a parameter file with missing, reordered or
// unparsable lines.
var ErrCorrupt = errors.New("params: corrupted parameter file")

// File holds the settings in file units.
type File struct {
	B     float64 // T
	E     float64 // kV/cm
	LM    float64 // magnet length, cm
	LME   float64 // magnet to electrode gap, cm
	LE    float64 // electrode length, cm
	LES   float64 // electrode to screen gap, cm
	X0    float64 // zero-deflection column, px
	Y0    float64 // zero-deflection row, px
	Tilt  float64 // deg
	Scale float64 // px/cm
}

// Defaults returns the settings of a freshly started session.
func Defaults() File {
	return File{
		B:     0.44,
		E:     20,
		LM:    10,
		LME:   5,
		LE:    22.5,
		LES:   7,
		X0:    127,
		Y0:    153,
		Tilt:  0,
		Scale: 154,
	}
}

type field struct {
	name, label string
	get         func(*File) *float64
}

var fields = []field{
	{"B", "B field (T)", func(f *File) *float64 { return &f.B }},
	{"E", "E field (V/cm)", func(f *File) *float64 { return &f.E }},
	{"L_M", "L_M (cm)", func(f *File) *float64 { return &f.LM }},
	{"L_ME", "L_ME (cm)", func(f *File) *float64 { return &f.LME }},
	{"L_E", "L_E (cm)", func(f *File) *float64 { return &f.LE }},
	{"L_ES", "L_ES (cm)", func(f *File) *float64 { return &f.LES }},
	{"X0", "X0", func(f *File) *float64 { return &f.X0 }},
	{"Y0", "Y0", func(f *File) *float64 { return &f.Y0 }},
	{"Tilt", "Tilt", func(f *File) *float64 { return &f.Tilt }},
	{"Scale", "Scale", func(f *File) *float64 { return &f.Scale }},
}

// DeviceConfig converts the file to SI units for an ion of the given
// charge state and mass in u.
func (f File) DeviceConfig(charge int, massU float64) trajectory.DeviceConfig {
	return trajectory.DeviceConfig{
		ChargeState:        charge,
		IonMass:            massU,
		MagneticField:      f.B * units.Tesla,
		ElectricField:      f.E * units.KVPerCM,
		MagnetLength:       f.LM * units.CM,
		MagnetElectrodeGap: f.LME * units.CM,
		ElectrodeLength:    f.LE * units.CM,
		ElectrodeScreenGap: f.LES * units.CM,
		Scale:              f.Scale,
	}
}

// Transform returns the detector calibration.
func (f File) Transform() transform.Params {
	return transform.Params{Scale: f.Scale, DX: f.X0, DY: f.Y0, RotateDeg: f.Tilt}
}

// Write emits f in file order.
func Write(w io.Writer, f File) error {
	bw := bufio.NewWriter(w)
	for _, fd := range fields {
		fmt.Fprintf(bw, "%s : %s\n", fd.label, formatValue(*fd.get(&f)))
	}
	return bw.Flush()
}

// Read parses a parameter file. Only the first token and the last token of
// each line are significant; lines beyond the tenth are ignored.
func Read(r io.Reader) (File, error) {
	var f File
	sc := bufio.NewScanner(r)
	for _, fd := range fields {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return File{}, err
			}
			return File{}, fmt.Errorf("%w: missing %s", ErrCorrupt, fd.name)
		}
		tok := strings.Fields(sc.Text())
		if len(tok) < 2 || tok[0] != fd.name {
			return File{}, fmt.Errorf("%w: expected %s, got %q", ErrCorrupt, fd.name, sc.Text())
		}
		v, err := strconv.ParseFloat(tok[len(tok)-1], 64)
		if err != nil {
			return File{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, fd.name, err)
		}
		*fd.get(&f) = v
	}
	return f, nil
}

// Load reads the parameter file at path.
func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()

	f, err := Read(fh)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path, replacing any existing file.
func Save(path string, f File) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// formatValue prints integral values with a trailing ".0".
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
