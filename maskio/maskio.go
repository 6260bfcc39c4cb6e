// Package maskio reads and writes collision masks in a compact binary form.
//
// A mask file is a 24-byte little-endian header followed by a payload:
//
//	offset  size  field
//	0       4     magic "PXMK"
//	4       1     format version (1)
//	5       1     compression (0 none, 1 zstd, 2 lz4)
//	6       2     reserved, zero
//	8       4     width
//	12      4     height
//	16      4     raw payload length
//	20      4     stored payload length
//
// The raw payload is the portable Roaring bitmap serialization of the set
// pixel indices y*width + x. Sparse sprites and large solid regions both
// encode to a few hundred bytes.
package maskio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gogpu/pixmask"
)

// Format errors.
var (
	// ErrBadMagic is returned when the input does not start with "PXMK".
	ErrBadMagic = errors.New("maskio: bad magic")

	// ErrUnsupportedVersion is returned for unknown format versions.
	ErrUnsupportedVersion = errors.New("maskio: unsupported version")

	// ErrUnknownCompression is returned for an unknown compression byte or name.
	ErrUnknownCompression = errors.New("maskio: unknown compression")

	// ErrCorrupt is returned when the payload cannot be decoded.
	ErrCorrupt = errors.New("maskio: corrupt payload")

	// ErrOutOfBounds is returned when a bitmap holds a pixel index outside
	// the mask dimensions.
	ErrOutOfBounds = errors.New("maskio: pixel index out of bounds")

	// ErrTooLarge is returned when a side exceeds MaxDimension, when
	// width*height does not fit in 32 bits, or when a decoded header asks
	// for more pixels than the configured limit.
	ErrTooLarge = errors.New("maskio: mask too large")
)

// MaxDimension is the largest width or height that can be stored.
const MaxDimension = 1 << 16

const (
	magic      = "PXMK"
	version    = 1
	headerSize = 24

	maxIndexSpace = math.MaxUint32

	// Upper bound of one serialized roaring container: an 8 KiB bitmap plus
	// its key, cardinality, offset and run-flag bit.
	containerBound = 8192 + 8 + 1
)

// maxRawLen bounds the portable roaring serialization of a bitmap over
// pixels indices.
func maxRawLen(pixels uint64) uint64 {
	containers := (pixels + 0xFFFF) >> 16
	return 16 + containers*containerBound
}

// maxStoredLen bounds the stored payload for a raw payload of rawLen bytes,
// leaving room for the framing overhead of incompressible input.
func maxStoredLen(rawLen uint64) uint64 {
	return rawLen + rawLen/64 + 128
}

func checkSize(width, height uint64) error {
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d per side", ErrTooLarge, width, height, MaxDimension)
	}
	if width*height > maxIndexSpace {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	return nil
}

// ToBitmap returns the set bits of m as pixel indices y*width + x.
// It returns ErrTooLarge if width*height does not fit in 32 bits.
func ToBitmap(m *pixmask.Mask) (*roaring.Bitmap, error) {
	w, h := m.Size()
	if uint64(w)*uint64(h) > maxIndexSpace {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	rb := roaring.New()
	for y := 0; y < h; y++ {
		row := m.Row(y)
		if row.IsEmpty() {
			continue
		}
		base := uint32(y * w)
		for x := 0; x < w; x++ {
			if row.Get(x) {
				rb.Add(base + uint32(x))
			}
		}
	}
	return rb, nil
}

// FromBitmap builds a width x height mask with the pixel indices in rb set.
// It returns ErrOutOfBounds if rb holds an index >= width*height.
func FromBitmap(rb *roaring.Bitmap, width, height int) (*pixmask.Mask, error) {
	m := pixmask.NewMask(width, height)
	if rb.IsEmpty() {
		return m, nil
	}
	if uint64(rb.Maximum()) >= uint64(m.Width())*uint64(m.Height()) {
		return nil, fmt.Errorf("%w: %d >= %dx%d", ErrOutOfBounds, rb.Maximum(), width, height)
	}
	w := m.Width()
	it := rb.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		m.Set(i%w, i/w, true)
	}
	return m, nil
}

// Encode writes m to w.
func Encode(w io.Writer, m *pixmask.Mask, opts ...Option) error {
	o := applyOptions(opts)
	width, height := m.Size()
	if err := checkSize(uint64(width), uint64(height)); err != nil {
		return err
	}

	rb, err := ToBitmap(m)
	if err != nil {
		return err
	}
	rb.RunOptimize()
	raw, err := rb.ToBytes()
	if err != nil {
		return fmt.Errorf("maskio: serialize bitmap: %w", err)
	}

	stored, comp, err := compress(raw, o.compression)
	if err != nil {
		return fmt.Errorf("maskio: compress %s: %w", o.compression, err)
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic)
	hdr[4] = version
	hdr[5] = byte(comp)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(width))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(height))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(hdr[20:], uint32(len(stored)))

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("maskio: write header: %w", err)
	}
	if _, err := w.Write(stored); err != nil {
		return fmt.Errorf("maskio: write payload: %w", err)
	}

	pixmask.Logger().Debug("mask encoded",
		"width", width, "height", height,
		"compression", comp,
		"raw", len(raw), "stored", len(stored))
	return nil
}

// Decode reads a mask written by [Encode]. Header sizes are validated
// before anything is allocated: sides are limited to MaxDimension, the
// pixel count to DefaultMaxPixels (see [WithMaxPixels]), and the payload
// lengths to what a bitmap of that many pixels can serialize to.
func Decode(r io.Reader, opts ...Option) (*pixmask.Mask, error) {
	o := applyOptions(opts)

	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("maskio: read header: %w", err)
	}
	if string(hdr[0:4]) != magic {
		return nil, ErrBadMagic
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr[4])
	}
	comp := Compression(hdr[5])
	if !comp.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, hdr[5])
	}

	width := uint64(binary.LittleEndian.Uint32(hdr[8:]))
	height := uint64(binary.LittleEndian.Uint32(hdr[12:]))
	rawLen := uint64(binary.LittleEndian.Uint32(hdr[16:]))
	storedLen := uint64(binary.LittleEndian.Uint32(hdr[20:]))
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if pixels := width * height; pixels > o.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, width, height, o.maxPixels)
	}
	if limit := maxRawLen(width * height); rawLen > limit {
		return nil, fmt.Errorf("%w: raw length %d exceeds %d", ErrCorrupt, rawLen, limit)
	}
	if limit := maxStoredLen(rawLen); storedLen > limit {
		return nil, fmt.Errorf("%w: stored length %d exceeds %d", ErrCorrupt, storedLen, limit)
	}
	if comp == CompressionNone && rawLen != storedLen {
		return nil, fmt.Errorf("%w: length mismatch %d != %d", ErrCorrupt, rawLen, storedLen)
	}

	stored, err := io.ReadAll(io.LimitReader(r, int64(storedLen)))
	if err != nil {
		return nil, fmt.Errorf("maskio: read payload: %w", err)
	}
	if uint64(len(stored)) != storedLen {
		return nil, fmt.Errorf("maskio: read payload: %w", io.ErrUnexpectedEOF)
	}

	raw, err := decompress(stored, comp, int(rawLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, comp, err)
	}

	rb := roaring.New()
	if err := rb.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("%w: bitmap: %v", ErrCorrupt, err)
	}

	pixmask.Logger().Debug("mask decoded",
		"width", width, "height", height,
		"compression", comp,
		"count", rb.GetCardinality())
	return FromBitmap(rb, int(width), int(height))
}

// WriteFile encodes m into the named file, creating or truncating it.
func WriteFile(path string, m *pixmask.Mask, opts ...Option) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("maskio: create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("maskio: close file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, m, opts...); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("maskio: flush: %w", err)
	}
	return nil
}

// ReadFile decodes the mask stored in the named file.
func ReadFile(path string, opts ...Option) (*pixmask.Mask, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("maskio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f), opts...)
}
