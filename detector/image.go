// Package detector provides the read-only detector image consumed by the
// spectrum extractor, together with readers for Princeton Instruments .SPE
// files and FITS images.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cwbudde/algo-tps/tps/core"
)

var (
	// ErrFormat indicates a malformed or unsupported image file.
	ErrFormat = errors.New("detector: unsupported or malformed image")
	// ErrBounds indicates an out-of-range crop or pixel request.
	ErrBounds = errors.New("detector: region outside image")
)

// Image is a dense row-major array of pixel intensities.
type Image struct {
	Width, Height int
	Pix           []float64 // len Width*Height, row r starts at r*Width
}

// New returns an image of the given size backed by pix. A nil pix
// allocates a zero image.
func New(width, height int, pix []float64) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrFormat, width, height)
	}
	if pix == nil {
		pix = make([]float64, width*height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrFormat, len(pix), width, height)
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// At returns the intensity at (row, col). It panics outside the image.
func (m *Image) At(row, col int) float64 {
	return m.Pix[row*m.Width+col]
}

// Set stores v at (row, col).
func (m *Image) Set(row, col int, v float64) {
	m.Pix[row*m.Width+col] = v
}

// Row returns row r without copying.
func (m *Image) Row(r int) []float64 {
	return m.Pix[r*m.Width : (r+1)*m.Width]
}

// Column copies rows [r0, r1) of column c into dst and returns it. The
// range is clipped to the image.
func (m *Image) Column(dst []float64, c, r0, r1 int) []float64 {
	dst = dst[:0]
	if c < 0 || c >= m.Width {
		return dst
	}
	r0 = core.ClampInt(r0, 0, m.Height)
	r1 = core.ClampInt(r1, 0, m.Height)
	for r := r0; r < r1; r++ {
		dst = append(dst, m.Pix[r*m.Width+c])
	}
	return dst
}

// Crop returns a copy of rows [r0, r1) and columns [c0, c1).
func (m *Image) Crop(r0, r1, c0, c1 int) (*Image, error) {
	if r0 < 0 || c0 < 0 || r1 > m.Height || c1 > m.Width || r0 >= r1 || c0 >= c1 {
		return nil, fmt.Errorf("%w: rows [%d,%d) cols [%d,%d) of %dx%d",
			ErrBounds, r0, r1, c0, c1, m.Width, m.Height)
	}
	w, h := c1-c0, r1-r0
	pix := make([]float64, 0, w*h)
	for r := r0; r < r1; r++ {
		pix = append(pix, m.Pix[r*m.Width+c0:r*m.Width+c1]...)
	}
	return &Image{Width: w, Height: h, Pix: pix}, nil
}

// FlipRows returns a copy with the row order reversed.
func (m *Image) FlipRows() *Image {
	out := &Image{Width: m.Width, Height: m.Height, Pix: make([]float64, 0, len(m.Pix))}
	for r := m.Height - 1; r >= 0; r-- {
		out.Pix = append(out.Pix, m.Row(r)...)
	}
	return out
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	return &Image{Width: m.Width, Height: m.Height, Pix: slices.Clone(m.Pix)}
}

// Load reads an image, choosing the reader by file extension.
func Load(path string) (*Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".spe":
		return LoadSPE(path)
	case ".fits", ".fit", ".fts":
		return LoadFITS(path)
	default:
		return nil, fmt.Errorf("%w: unknown extension %q", ErrFormat, filepath.Ext(path))
	}
}
