// Package isotope parses the table of stable isotopes used to pick the ion
// species of a trace.
//
// The table is tab separated. A row with more than two columns starts a new
// element and lists atomic number, symbol, mass number and mass in u; the
// rows that follow list further isotopes of the same element as mass
// number and mass:
//
//	1	H	1	1.00782503223
//	    2	2.01410177812
//
// Default returns the table shipped with the package.
package isotope

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrUnknownIsotope indicates an element or mass number missing from
	// the table.
	ErrUnknownIsotope = errors.New("isotope: unknown isotope")
	// ErrFormat indicates a malformed table.
	ErrFormat = errors.New("isotope: malformed table")
)

// Species selected when a command is given no isotope.
const (
	DefaultElement    = "H"
	DefaultMassNumber = 1
)

//go:embed isotope.txt
var defaultTable string

// Isotope is one stable isotope of an element.
type Isotope struct {
	A    int     // mass number
	Mass float64 // u
}

// Element is a chemical element and its stable isotopes.
type Element struct {
	Z        int
	Symbol   string
	Isotopes []Isotope
}

// Name returns the display name, atomic number followed by symbol ("1H").
func (e Element) Name() string {
	return strconv.Itoa(e.Z) + e.Symbol
}

// MaxCharge returns the highest charge state, a fully stripped ion.
func (e Element) MaxCharge() int { return e.Z }

// Charges returns the charge states 1..Z.
func (e Element) Charges() []int {
	out := make([]int, e.Z)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Isotope returns the isotope with mass number a.
func (e Element) Isotope(a int) (Isotope, error) {
	for _, iso := range e.Isotopes {
		if iso.A == a {
			return iso, nil
		}
	}
	return Isotope{}, fmt.Errorf("%w: %s-%d", ErrUnknownIsotope, e.Symbol, a)
}

// Table is an ordered list of elements.
type Table struct {
	Elements []Element
}

// Element returns the element with the given symbol ("H") or display name
// ("1H"). Symbols match case-insensitively.
func (t *Table) Element(name string) (Element, error) {
	for _, e := range t.Elements {
		if strings.EqualFold(e.Symbol, name) || strings.EqualFold(e.Name(), name) {
			return e, nil
		}
	}
	return Element{}, fmt.Errorf("%w: element %q", ErrUnknownIsotope, name)
}

// Lookup returns the mass in u of isotope a of the named element.
func (t *Table) Lookup(name string, a int) (float64, error) {
	e, err := t.Element(name)
	if err != nil {
		return 0, err
	}
	iso, err := e.Isotope(a)
	if err != nil {
		return 0, err
	}
	return iso.Mass, nil
}

// Default returns the embedded table.
func Default() *Table {
	t, err := Read(strings.NewReader(defaultTable))
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a table from path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a table. Blank lines are skipped.
func Read(r io.Reader) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		switch {
		case len(fields) > 2:
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: %d columns", ErrFormat, line, len(fields))
			}
			z, err := strconv.Atoi(fields[0])
			if err != nil || z < 1 {
				return nil, fmt.Errorf("%w: line %d: atomic number %q", ErrFormat, line, fields[0])
			}
			iso, err := parseIsotope(fields[2], fields[3])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
			t.Elements = append(t.Elements, Element{Z: z, Symbol: fields[1], Isotopes: []Isotope{iso}})
		case len(fields) == 2:
			if len(t.Elements) == 0 {
				return nil, fmt.Errorf("%w: line %d: isotope before first element", ErrFormat, line)
			}
			iso, err := parseIsotope(fields[0], fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
			}
			e := &t.Elements[len(t.Elements)-1]
			e.Isotopes = append(e.Isotopes, iso)
		default:
			return nil, fmt.Errorf("%w: line %d: %q", ErrFormat, line, text)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(t.Elements) == 0 {
		return nil, fmt.Errorf("%w: no elements", ErrFormat)
	}
	return t, nil
}

func parseIsotope(a, mass string) (Isotope, error) {
	n, err := strconv.Atoi(a)
	if err != nil || n < 1 {
		return Isotope{}, fmt.Errorf("mass number %q", a)
	}
	m, err := strconv.ParseFloat(mass, 64)
	if err != nil || !(m > 0) {
		return Isotope{}, fmt.Errorf("mass %q", mass)
	}
	return Isotope{A: n, Mass: m}, nil
}
