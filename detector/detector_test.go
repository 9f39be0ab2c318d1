package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0, 3, nil)
	require.ErrorIs(t, err, ErrFormat)

	_, err = New(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrFormat)

	img, err := New(3, 2, nil)
	require.NoError(t, err)
	assert.Len(t, img.Pix, 6)
}

func TestImageAccessors(t *testing.T) {
	img, err := New(3, 2, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	require.NoError(t, err)

	assert.Equal(t, 6.0, img.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, img.Row(1))
	assert.Equal(t, []float64{2, 5}, img.Column(nil, 1, -4, 10))
	assert.Empty(t, img.Column(nil, 3, 0, 2))
	assert.Empty(t, img.Column(nil, 0, 5, 9), "window below the image")
	assert.Empty(t, img.Column(nil, 0, -6, -1), "window above the image")
	assert.Equal(t, []float64{4}, img.Column(make([]float64, 8), 0, 1, 99))

	flipped := img.FlipRows()
	assert.Equal(t, []float64{4, 5, 6, 1, 2, 3}, flipped.Pix)

	crop, err := img.Crop(0, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, crop.Width)
	assert.Equal(t, []float64{2, 3, 5, 6}, crop.Pix)

	_, err = img.Crop(0, 3, 0, 3)
	assert.ErrorIs(t, err, ErrBounds)

	c := img.Clone()
	c.Set(0, 0, 99)
	assert.Equal(t, 1.0, img.At(0, 0))
}

func speBytes(t *testing.T, w, h int, dtype int16, pix []uint16) []byte {
	t.Helper()
	buf := make([]byte, speDataOffset+len(pix)*2)
	le := binary.LittleEndian
	le.PutUint16(buf[speXDimOffset:], uint16(w))
	le.PutUint16(buf[speYDimOffset:], uint16(h))
	le.PutUint16(buf[speDataTypeOffset:], uint16(dtype))
	for i, v := range pix {
		le.PutUint16(buf[speDataOffset+2*i:], v)
	}
	return buf
}

func TestReadSPE(t *testing.T) {
	pix := []uint16{
		10, 11, 12, 13,
		20, 21, 22, 23,
		30, 31, 32, 65535,
	}
	data := speBytes(t, 4, 3, speUint16, pix)

	img, err := ReadSPE(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, 21.0, img.At(1, 1))
	assert.Equal(t, 65535.0, img.At(2, 3))

	img, err = ReadSPE(bytes.NewReader(data), WithSPECrop(1, 3), WithSPEFlip())
	require.NoError(t, err)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []float64{30, 31, 32, 65535}, img.Row(0))
	assert.Equal(t, []float64{20, 21, 22, 23}, img.Row(1))
}

func TestReadSPESignedData(t *testing.T) {
	data := speBytes(t, 2, 1, speInt16, []uint16{0xFFFF, 7})
	img, err := ReadSPE(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 7}, img.Pix)
}

func TestReadSPEErrors(t *testing.T) {
	_, err := ReadSPE(bytes.NewReader(make([]byte, 10)))
	assert.ErrorIs(t, err, ErrFormat)

	data := speBytes(t, 4, 3, speUint16, make([]uint16, 4))
	_, err = ReadSPE(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrFormat, "truncated pixel data")

	data = speBytes(t, 1, 1, 9, []uint16{1})
	_, err = ReadSPE(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrFormat, "unknown data type")

	data = speBytes(t, 2, 2, speUint16, []uint16{1, 2, 3, 4})
	_, err = ReadSPE(bytes.NewReader(data), WithSPECrop(0, 5))
	assert.ErrorIs(t, err, ErrBounds)
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.SPE")
	require.NoError(t, os.WriteFile(path, speBytes(t, 2, 2, speUint16, []uint16{1, 2, 3, 4}), 0o644))

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, img.Pix)

	_, err = Load(filepath.Join(dir, "shot.png"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Load(filepath.Join(dir, "missing.spe"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadFITS(t *testing.T) {
	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	require.NoError(t, err)

	hdu := fitsio.NewImage(16, []int{3, 2})
	require.NoError(t, hdu.Write([]int16{1, 2, 3, -4, 500, 6}))
	require.NoError(t, f.Write(hdu))
	require.NoError(t, hdu.Close())
	require.NoError(t, f.Close())

	img, err := ReadFITS(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []float64{1, 2, 3, -4, 500, 6}, img.Pix)
}

func TestReadFITSFloat(t *testing.T) {
	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	require.NoError(t, err)

	hdu := fitsio.NewImage(-64, []int{2, 2})
	require.NoError(t, hdu.Write([]float64{0.5, math.Pi, -2, 1e6}))
	require.NoError(t, f.Write(hdu))
	require.NoError(t, hdu.Close())
	require.NoError(t, f.Close())

	img, err := ReadFITS(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, math.Pi, -2, 1e6}, img.Pix, 1e-12)
}

func TestReadFITSUnsigned16(t *testing.T) {
	// Unsigned frames are stored as int16 with BZERO=32768.
	want := []float64{0, 100, 32768, 65535}
	stored := make([]int16, len(want))
	for i, v := range want {
		stored[i] = int16(int32(v) - 32768)
	}

	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	require.NoError(t, err)

	hdu := fitsio.NewImage(16, []int{2, 2})
	require.NoError(t, hdu.Header().Append(fitsio.Card{Name: "BZERO", Value: 32768}))
	require.NoError(t, hdu.Write(stored))
	require.NoError(t, f.Write(hdu))
	require.NoError(t, hdu.Close())
	require.NoError(t, f.Close())

	img, err := ReadFITS(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, want, img.Pix)
}

func TestReadFITSRejectsGarbage(t *testing.T) {
	_, err := ReadFITS(bytes.NewReader([]byte("not a fits file")))
	assert.ErrorIs(t, err, ErrFormat)
}
