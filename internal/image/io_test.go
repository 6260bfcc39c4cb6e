package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(1, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	return img
}

func TestDecodeFormats(t *testing.T) {
	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) },
		"bmp":  func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) },
		"tiff": func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) },
	}
	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, encode(&buf, testImage()))

			img, format, err := LoadFromBytes(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, name, format)
			assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

			r, g, b, a := img.At(1, 2).RGBA()
			assert.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
		})
	}
}

func TestLoadFromBytesEmpty(t *testing.T) {
	_, _, err := LoadFromBytes(nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeTruncatedPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	_, _, err := Decode(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	img, format, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestIsImagePath(t *testing.T) {
	tests := map[string]bool{
		"a.png":        true,
		"b.JPG":        true,
		"c.webp":       true,
		"d.tiff":       true,
		"e.tif":        true,
		"f.jpeg":       true,
		"g.gif":        true,
		"h.bmp":        true,
		"sprite.pxm":   false,
		"no-extension": false,
	}
	for path, want := range tests {
		assert.Equal(t, want, IsImagePath(path), path)
	}
}
