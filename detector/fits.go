package detector

import (
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"
)

// LoadFITS opens and reads the primary image of a FITS file.
func LoadFITS(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := ReadFITS(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ReadFITS decodes the primary HDU of a FITS stream as a 2-D image.
// BITPIX 8, 16, 32, -32 and -64 are supported; BZERO and BSCALE are applied,
// so unsigned 16-bit frames stored with BZERO=32768 read back unsigned.
// FITS stores the bottom row first, which is kept as row 0.
func ReadFITS(r io.Reader) (*Image, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer f.Close()

	hdu, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: primary HDU is not an image", ErrFormat)
	}
	hdr := hdu.Header()
	axes := hdr.Axes()
	if len(axes) != 2 || axes[0] <= 0 || axes[1] <= 0 {
		return nil, fmt.Errorf("%w: FITS axes %v, want 2-D", ErrFormat, axes)
	}
	w, h := axes[0], axes[1]

	pix, err := readPixels(hdu, hdr.Bitpix())
	if err != nil {
		return nil, err
	}
	if len(pix) != w*h {
		return nil, fmt.Errorf("%w: FITS data %d pixels, want %d", ErrFormat, len(pix), w*h)
	}

	zero := cardFloat(hdr, "BZERO", 0)
	scale := cardFloat(hdr, "BSCALE", 1)
	if zero != 0 || scale != 1 {
		for i, v := range pix {
			pix[i] = zero + scale*v
		}
	}
	return &Image{Width: w, Height: h, Pix: pix}, nil
}

// readPixels reads the HDU into the slice type matching bitpix and widens
// it to float64.
func readPixels(hdu fitsio.Image, bitpix int) ([]float64, error) {
	var pix []float64
	var err error
	switch bitpix {
	case 8:
		var raw []uint8
		err = hdu.Read(&raw)
		pix = widen(raw)
	case 16:
		var raw []int16
		err = hdu.Read(&raw)
		pix = widen(raw)
	case 32:
		var raw []int32
		err = hdu.Read(&raw)
		pix = widen(raw)
	case -32:
		var raw []float32
		err = hdu.Read(&raw)
		pix = widen(raw)
	case -64:
		err = hdu.Read(&pix)
	default:
		return nil, fmt.Errorf("%w: BITPIX %d", ErrFormat, bitpix)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FITS data: %v", ErrFormat, err)
	}
	return pix, nil
}

func widen[T uint8 | int16 | int32 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

func cardFloat(hdr *fitsio.Header, key string, def float64) float64 {
	card := hdr.Get(key)
	if card == nil {
		return def
	}
	switch v := card.Value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	default:
		return def
	}
}
