package detector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// SPE header layout (Princeton Instruments WinView/WinSpec, little endian).
const (
	speXDimOffset     = 42
	speDataTypeOffset = 108
	speYDimOffset     = 656
	speDataOffset     = 4100
)

// SPE pixel data types.
const (
	speFloat32 = 0
	speInt32   = 1
	speInt16   = 2
	speUint16  = 3
)

type speConfig struct {
	r0, r1 int
	flip   bool
}

// SPEOption configures ReadSPE.
type SPEOption func(*speConfig)

// WithSPECrop keeps rows [r0, r1) of the stored frame.
func WithSPECrop(r0, r1 int) SPEOption {
	return func(cfg *speConfig) {
		cfg.r0, cfg.r1 = r0, r1
	}
}

// WithSPEFlip reverses the row order after cropping, so that row 0 is the
// bottom of the detector.
func WithSPEFlip() SPEOption {
	return func(cfg *speConfig) {
		cfg.flip = true
	}
}

// LoadSPE opens and reads an .SPE file.
func LoadSPE(path string, opts ...SPEOption) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := ReadSPE(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ReadSPE decodes the first frame of an .SPE file.
func ReadSPE(r io.ReaderAt, opts ...SPEOption) (*Image, error) {
	var cfg speConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	xdim, err := readInt16(r, speXDimOffset)
	if err != nil {
		return nil, err
	}
	ydim, err := readInt16(r, speYDimOffset)
	if err != nil {
		return nil, err
	}
	dtype, err := readInt16(r, speDataTypeOffset)
	if err != nil {
		return nil, err
	}
	if xdim <= 0 || ydim <= 0 {
		return nil, fmt.Errorf("%w: SPE dimensions %dx%d", ErrFormat, xdim, ydim)
	}

	w, h := int(xdim), int(ydim)
	var size int
	switch dtype {
	case speInt16, speUint16:
		size = 2
	case speFloat32, speInt32:
		size = 4
	default:
		return nil, fmt.Errorf("%w: SPE data type %d", ErrFormat, dtype)
	}

	raw := make([]byte, w*h*size)
	if _, err := r.ReadAt(raw, speDataOffset); err != nil {
		return nil, fmt.Errorf("%w: SPE pixel data: %v", ErrFormat, err)
	}

	pix := make([]float64, w*h)
	le := binary.LittleEndian
	for i := range pix {
		b := raw[i*size:]
		switch dtype {
		case speUint16:
			pix[i] = float64(le.Uint16(b))
		case speInt16:
			pix[i] = float64(int16(le.Uint16(b)))
		case speInt32:
			pix[i] = float64(int32(le.Uint32(b)))
		case speFloat32:
			pix[i] = float64(math.Float32frombits(le.Uint32(b)))
		}
	}

	img := &Image{Width: w, Height: h, Pix: pix}
	if cfg.r1 > 0 {
		if img, err = img.Crop(cfg.r0, cfg.r1, 0, w); err != nil {
			return nil, err
		}
	}
	if cfg.flip {
		img = img.FlipRows()
	}
	return img, nil
}

func readInt16(r io.ReaderAt, off int64) (int16, error) {
	var b [2]byte
	if _, err := r.ReadAt(b[:], off); err != nil {
		return 0, fmt.Errorf("%w: SPE header at %d: %v", ErrFormat, off, err)
	}
	return int16(binary.LittleEndian.Uint16(b[:])), nil
}
