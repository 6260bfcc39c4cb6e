package pixmask

import (
	"image"
	"image/color"
)

// PixelSource provides read access to a row-major RGBA byte buffer with
// 4 bytes per pixel. Channel(i) returns byte i of that buffer, so the alpha
// of pixel (x, y) is Channel((y*Width()+x)*4 + 3).
//
// Pixmap and ImageSource implement PixelSource. Any decoded framebuffer can
// be adapted by wrapping its native pixel storage.
type PixelSource interface {
	Width() int
	Height() int
	Channel(i int) uint8
}

// Tolerance is the per-channel threshold used by [FromColorThreshold].
type Tolerance struct {
	R, G, B, A int
}

// FromAlpha builds a mask with a bit set for every pixel whose alpha is
// strictly greater than the alpha threshold (default 127, see
// [WithAlphaThreshold]). The mask has the dimensions of src.
func FromAlpha(src PixelSource, opts ...BuildOption) *Mask {
	o := applyBuildOptions(opts)
	w, h := src.Width(), src.Height()
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := m.rows[y]
		for x := 0; x < w; x++ {
			if int(src.Channel((y*w+x)*4+3)) > o.alphaThreshold {
				row.Set(x, true)
			}
		}
	}

	if debugEnabled() {
		Logger().Debug("mask from alpha",
			"width", w, "height", h,
			"threshold", o.alphaThreshold,
			"count", m.Count())
	}
	return m
}

// FromImageAlpha is shorthand for FromAlpha(NewImageSource(img), opts...).
func FromImageAlpha(img image.Image, opts ...BuildOption) *Mask {
	return FromAlpha(NewImageSource(img), opts...)
}

// FromColorThreshold builds a mask with a bit set for every pixel whose color
// is within tolerance of c (default [DefaultTolerance], see [WithTolerance]).
// The alpha of c is ignored.
//
// With exactly {0, 0, 0, 255} a pixel matches when its R, G and B equal those
// of c and its alpha is >= 255. Any other tolerance t matches when, for each
// of R, G and B,
//
//	c - t - 1 < p < c + t + 1
//
// and the pixel alpha satisfies p.A > t.A - 1. Consequently a pixel with
// alpha 254 is rejected by {0, 0, 0, 255} but accepted by {0, 0, 0, 254}.
func FromColorThreshold(src PixelSource, c color.Color, opts ...BuildOption) *Mask {
	o := applyBuildOptions(opts)
	match := newColorMatcher(color.NRGBAModel.Convert(c).(color.NRGBA), o.tolerance)

	w, h := src.Width(), src.Height()
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := m.rows[y]
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if match(
				int(src.Channel(i)),
				int(src.Channel(i+1)),
				int(src.Channel(i+2)),
				int(src.Channel(i+3)),
			) {
				row.Set(x, true)
			}
		}
	}

	if debugEnabled() {
		Logger().Debug("mask from color threshold",
			"width", w, "height", h,
			"color", c,
			"tolerance", o.tolerance,
			"count", m.Count())
	}
	return m
}

type colorMatcher func(r, g, b, a int) bool

func newColorMatcher(c color.NRGBA, t Tolerance) colorMatcher {
	cr, cg, cb := int(c.R), int(c.G), int(c.B)

	if t == exactTolerance {
		return func(r, g, b, a int) bool {
			return r == cr && g == cg && b == cb && a >= t.A
		}
	}

	within := func(p, c, t int) bool {
		return c-t-1 < p && p < c+t+1
	}
	minAlpha := t.A - 1
	return func(r, g, b, a int) bool {
		return within(r, cr, t.R) &&
			within(g, cg, t.G) &&
			within(b, cb, t.B) &&
			a > minAlpha
	}
}
