package pixmask

import (
	"image"

	"golang.org/x/image/draw"
)

// ImageSource adapts an image.Image to [PixelSource]. The image is converted
// once to non-premultiplied RGBA with its origin moved to (0, 0).
type ImageSource struct {
	img *image.NRGBA
}

// NewImageSource wraps img. An *image.NRGBA that already starts at the
// origin with a tight stride is used without copying; other NRGBA images are
// copied row by row so straight alpha survives unchanged. Everything else
// goes through draw.Copy.
func NewImageSource(img image.Image) *ImageSource {
	b := img.Bounds()
	n, ok := img.(*image.NRGBA)
	if ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return &ImageSource{img: n}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if ok {
		for y := 0; y < b.Dy(); y++ {
			i := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], n.Pix[i:i+4*b.Dx()])
		}
		return &ImageSource{img: dst}
	}
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return &ImageSource{img: dst}
}

// Width returns the image width.
func (s *ImageSource) Width() int { return s.img.Rect.Dx() }

// Height returns the image height.
func (s *ImageSource) Height() int { return s.img.Rect.Dy() }

// Channel returns byte i of the RGBA buffer.
func (s *ImageSource) Channel(i int) uint8 { return s.img.Pix[i] }
