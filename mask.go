package pixmask

import (
	"errors"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/pixmask/bitvec"
)

// ErrMalformedMask is returned by [ParseMask] when rows differ in length.
var ErrMalformedMask = errors.New("pixmask: malformed mask text")

// Mask is a 2D collision mask: one bit per pixel, stored row-major as one
// [bitvec.BitVector32] per row.
//
// Dimensions are fixed at construction. Row indices outside [0, height) are
// programming errors and panic; column indices outside [0, width) read as
// false.
type Mask struct {
	width  int
	height int
	rows   []*bitvec.BitVector32
}

// NewMask creates a new empty mask with the given dimensions.
// All bits are initialized to 0. Negative dimensions are treated as 0.
func NewMask(width, height int) *Mask {
	width, height = max(width, 0), max(height, 0)
	rows := make([]*bitvec.BitVector32, height)
	for y := range rows {
		rows[y] = newRow(width)
	}
	return &Mask{
		width:  width,
		height: height,
		rows:   rows,
	}
}

func newRow(width int) *bitvec.BitVector32 {
	if width == 0 {
		// bitvec treats a zero width as "one word".
		r := bitvec.NewBitVector32(1)
		r.Resize(0)
		return r
	}
	return bitvec.NewBitVector32(width)
}

// Size returns the mask dimensions.
func (m *Mask) Size() (width, height int) { return m.width, m.height }

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Row returns the bit vector backing row y. It is shared with the mask.
func (m *Mask) Row(y int) *bitvec.BitVector32 { return m.rows[y] }

// At reports whether the bit at (x, y) is set.
func (m *Mask) At(x, y int) bool {
	return m.rows[y].Get(x)
}

// Set sets or clears the bit at (x, y).
func (m *Mask) Set(x, y int, value bool) {
	m.rows[y].Set(x, value)
}

// Fill sets every bit.
func (m *Mask) Fill() {
	for _, r := range m.rows {
		r.Fill()
	}
}

// Clear clears every bit.
func (m *Mask) Clear() {
	for _, r := range m.rows {
		r.Clear()
	}
}

// Invert flips every bit.
func (m *Mask) Invert() {
	for _, r := range m.rows {
		r.FlipRange(0, m.width)
	}
}

// Count returns the number of set bits.
func (m *Mask) Count() int {
	n := 0
	for _, r := range m.rows {
		n += r.Cardinality()
	}
	return n
}

// Clone creates a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	rows := make([]*bitvec.BitVector32, len(m.rows))
	for y, r := range m.rows {
		rows[y] = r.Clone()
	}
	return &Mask{width: m.width, height: m.height, rows: rows}
}

// overlapWindow is the intersection of two masks when the second is placed
// at (dx, dy) relative to the first. (x1, y1) is the window origin in the
// first mask, (x2, y2) in the second.
type overlapWindow struct {
	x1, y1 int
	x2, y2 int
	w, h   int
}

func newOverlapWindow(m, other *Mask, dx, dy int) (overlapWindow, bool) {
	var o overlapWindow
	if dx > 0 {
		o.x1 = dx
	} else {
		o.x2 = -dx
	}
	if dy > 0 {
		o.y1 = dy
	} else {
		o.y2 = -dy
	}
	o.w = min(m.width-o.x1, other.width-o.x2)
	o.h = min(m.height-o.y1, other.height-o.y2)
	return o, o.w > 0 && o.h > 0
}

// rows returns row r of the window from both masks, each cut to the window
// so that bit 0 of a lines up with bit 0 of b.
func (o overlapWindow) rows(m, other *Mask, r int) (a, b *bitvec.BitVector32) {
	return mustSlice(m.rows[o.y1+r], o.x1, o.x1+o.w),
		mustSlice(other.rows[o.y2+r], o.x2, o.x2+o.w)
}

func mustSlice(v *bitvec.BitVector32, from, to int) *bitvec.BitVector32 {
	s, err := v.Slice(from, to)
	if err != nil {
		// Window widths are positive.
		panic(err)
	}
	return s
}

// Overlap reports whether any set bit of m coincides with a set bit of other
// when other is placed at offset (dx, dy) relative to m.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	o, ok := newOverlapWindow(m, other, dx, dy)
	if !ok {
		return false
	}
	for r := 0; r < o.h; r++ {
		a, b := o.rows(m, other, r)
		if a.Intersects(b) {
			return true
		}
	}
	return false
}

// OverlapArea returns the number of overlapping set bits when other is
// placed at (dx, dy).
func (m *Mask) OverlapArea(other *Mask, dx, dy int) int {
	o, ok := newOverlapWindow(m, other, dx, dy)
	if !ok {
		return 0
	}
	n := 0
	for r := 0; r < o.h; r++ {
		a, b := o.rows(m, other, r)
		a.And(b)
		n += a.Cardinality()
	}
	return n
}

// OverlapMask returns a mask the size of m with the overlapping bits set.
func (m *Mask) OverlapMask(other *Mask, dx, dy int) *Mask {
	out := NewMask(m.width, m.height)
	o, ok := newOverlapWindow(m, other, dx, dy)
	if !ok {
		return out
	}
	for r := 0; r < o.h; r++ {
		a, b := o.rows(m, other, r)
		a.And(b)
		row := out.rows[o.y1+r]
		for i := 0; i < o.w; i++ {
			if a.Get(i) {
				row.Set(o.x1+i, true)
			}
		}
	}
	return out
}

// Draw sets every bit of m covered by a set bit of other placed at (dx, dy).
func (m *Mask) Draw(other *Mask, dx, dy int) {
	m.paint(other, dx, dy, true)
}

// Erase clears every bit of m covered by a set bit of other placed at (dx, dy).
func (m *Mask) Erase(other *Mask, dx, dy int) {
	m.paint(other, dx, dy, false)
}

func (m *Mask) paint(other *Mask, dx, dy int, value bool) {
	o, ok := newOverlapWindow(m, other, dx, dy)
	if !ok {
		return
	}
	for r := 0; r < o.h; r++ {
		src := other.rows[o.y2+r]
		dst := m.rows[o.y1+r]
		for i := 0; i < o.w; i++ {
			if src.Get(o.x2 + i) {
				dst.Set(o.x1+i, value)
			}
		}
	}
}

// Centroid returns the integer centre of mass of the set bits,
// or (0, 0) for an empty mask.
func (m *Mask) Centroid() (x, y int) {
	var sx, sy, n int
	m.each(func(px, py int) {
		sx += px
		sy += py
		n++
	})
	if n == 0 {
		return 0, 0
	}
	return sx / n, sy / n
}

// BoundingRect returns the smallest rectangle containing every set bit.
// It is empty for an empty mask.
func (m *Mask) BoundingRect() image.Rectangle {
	var r image.Rectangle
	m.each(func(x, y int) {
		r = r.Union(image.Rect(x, y, x+1, y+1))
	})
	return r
}

// each calls fn for every set bit in row-major order.
func (m *Mask) each(fn func(x, y int)) {
	for y, row := range m.rows {
		if row.IsEmpty() {
			continue
		}
		for x := 0; x < m.width; x++ {
			if row.Get(x) {
				fn(x, y)
			}
		}
	}
}

// Format renders the mask row by row, using on for set bits and off for
// clear bits. Rows are separated by '\n'.
func (m *Mask) Format(on, off rune) string {
	var sb strings.Builder
	for y, row := range m.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < m.width; x++ {
			if row.Get(x) {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
	}
	return sb.String()
}

// String renders the mask with '1' for set bits and '0' for clear bits.
func (m *Mask) String() string {
	return m.Format('1', '0')
}

// ParseMask builds a mask from text produced by [Mask.Format]. Every rune
// equal to on sets a bit; any other rune leaves it clear. All lines must
// have the same number of runes.
//
// The empty string parses as a 0x0 mask. A 0x1 mask also formats as "",
// so its height does not survive a Format/ParseMask round trip.
func ParseMask(s string, on rune) (*Mask, error) {
	if s == "" {
		return NewMask(0, 0), nil
	}
	lines := strings.Split(s, "\n")
	width := utf8.RuneCountInString(lines[0])
	m := NewMask(width, len(lines))
	for y, line := range lines {
		if utf8.RuneCountInString(line) != width {
			return nil, ErrMalformedMask
		}
		x := 0
		for _, c := range line {
			if c == on {
				m.rows[y].Set(x, true)
			}
			x++
		}
	}
	return m, nil
}
