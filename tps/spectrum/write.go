package spectrum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header is the first line of a spectrum table.
const Header = "Energy(MeV), dN/dE(PSL/MeV)"

// ErrFormat indicates a malformed spectrum table.
var ErrFormat = errors.New("spectrum: malformed table")

// Write emits s as a two-column text table, one bin per line in spectrum
// order.
func Write(w io.Writer, s Spectrum) error {
	if len(s.Energy) != len(s.Flux) {
		return fmt.Errorf("%w: %d energies, %d flux values", ErrFormat, len(s.Energy), len(s.Flux))
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(Header)
	bw.WriteByte('\n')
	for i := range s.Energy {
		bw.WriteString(strconv.FormatFloat(s.Energy[i], 'g', -1, 64))
		bw.WriteString(", ")
		bw.WriteString(strconv.FormatFloat(s.Flux[i], 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes s to path, replacing any existing file.
func WriteFile(path string, s Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a table produced by Write. Blank lines are skipped.
func Read(r io.Reader) (Spectrum, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Spectrum{}, err
		}
		return Spectrum{}, fmt.Errorf("%w: empty input", ErrFormat)
	}
	if strings.TrimSpace(sc.Text()) != Header {
		return Spectrum{}, fmt.Errorf("%w: header %q", ErrFormat, sc.Text())
	}

	var s Spectrum
	for line := 2; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		e, f, ok := strings.Cut(text, ",")
		if !ok {
			return Spectrum{}, fmt.Errorf("%w: line %d: %q", ErrFormat, line, text)
		}
		ev, err := strconv.ParseFloat(strings.TrimSpace(e), 64)
		if err != nil {
			return Spectrum{}, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		fv, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Spectrum{}, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		s.Energy = append(s.Energy, ev)
		s.Flux = append(s.Flux, fv)
	}
	if err := sc.Err(); err != nil {
		return Spectrum{}, err
	}
	return s, nil
}

// ReadFile parses the table at path.
func ReadFile(path string) (Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spectrum{}, err
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return Spectrum{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
