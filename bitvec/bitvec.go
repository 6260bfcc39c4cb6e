// Package bitvec implements resizable bit vectors packed into fixed-width words.
//
// Three word sizes are provided: [BitVector] (8-bit words), [BitVector16] and
// [BitVector32]. All of them index bits the same way: bit i lives in word
// i/B at position i%B, counted from the most significant bit of the word, so
// bit k of a B-bit word is the mask 1<<(B-1-k).
//
// A Vector has a logical width and a physical size (number of words times the
// word size). Bits past the width inside the last word are padding and are
// always zero.
//
// Vectors carry no internal synchronization. Concurrent mutation must be
// serialized by the caller.
package bitvec

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrInvalidRange is returned when a half-open range [from, to) is empty or
// reversed.
var ErrInvalidRange = errors.New("bitvec: invalid range")

// RangeError reports the offending bounds of an invalid range.
// It unwraps to [ErrInvalidRange].
type RangeError struct {
	From int
	To   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("bitvec: invalid range [%d, %d)", e.From, e.To)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// Word is the set of unsigned integer types usable as backing storage.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

// Vector is a resizable sequence of bits packed into words of type W.
type Vector[W Word] struct {
	width int
	words []W
}

// Word size variants.
type (
	// BitVector packs bits into 8-bit words.
	BitVector = Vector[uint8]
	// BitVector16 packs bits into 16-bit words.
	BitVector16 = Vector[uint16]
	// BitVector32 packs bits into 32-bit words.
	BitVector32 = Vector[uint32]
)

// New creates a zeroed vector holding width bits.
// A non-positive width selects the default of one word.
func New[W Word](width int) *Vector[W] {
	ws := wordBits[W]()
	if width <= 0 {
		width = ws
	}
	return &Vector[W]{
		width: width,
		words: make([]W, wordsFor(width, ws)),
	}
}

// NewBitVector creates a vector backed by 8-bit words.
func NewBitVector(width int) *BitVector { return New[uint8](width) }

// NewBitVector16 creates a vector backed by 16-bit words.
func NewBitVector16(width int) *BitVector16 { return New[uint16](width) }

// NewBitVector32 creates a vector backed by 32-bit words.
func NewBitVector32(width int) *BitVector32 { return New[uint32](width) }

func wordBits[W Word]() int {
	return bits.Len64(uint64(^W(0)))
}

func wordsFor(width, ws int) int {
	return (width + ws - 1) / ws
}

// bitmask returns the mask for bit k of a word, MSB first.
func bitmask[W Word](k int) W {
	return W(1) << (wordBits[W]() - 1 - k)
}

// Width returns the logical number of bits.
func (v *Vector[W]) Width() int { return v.width }

// WordSize returns the number of bits per backing word.
func (v *Vector[W]) WordSize() int { return wordBits[W]() }

// Size returns the physical bit capacity (words times word size).
func (v *Vector[W]) Size() int { return len(v.words) * v.WordSize() }

// Words returns the backing words. The slice is shared with the vector.
func (v *Vector[W]) Words() []W { return v.words }

// Get reports whether bit i is set.
// Indices outside [0, width) read as false.
func (v *Vector[W]) Get(i int) bool {
	if i < 0 || i >= v.width {
		return false
	}
	ws := v.WordSize()
	return v.words[i/ws]&bitmask[W](i%ws) != 0
}

// Slice returns a new vector of to-from bits copied from [from, to).
// Bits past the width of v read as zero. An empty or reversed range
// returns a *RangeError.
func (v *Vector[W]) Slice(from, to int) (*Vector[W], error) {
	if to-from <= 0 {
		return nil, &RangeError{From: from, To: to}
	}
	out := New[W](to - from)
	end := min(to, v.width)
	for i := max(from, 0); i < end; i++ {
		if v.Get(i) {
			out.Set(i-from, true)
		}
	}
	return out, nil
}

// Set sets or clears bit i. Setting a bit past the width grows the vector to
// i+1 bits; clearing a bit past the width does nothing.
// Set panics if i is negative.
func (v *Vector[W]) Set(i int, value bool) {
	if i < 0 {
		panic(fmt.Sprintf("bitvec: negative index %d", i))
	}
	if i >= v.width {
		if !value {
			return
		}
		v.Resize(i + 1)
	}
	ws := v.WordSize()
	if value {
		v.words[i/ws] |= bitmask[W](i % ws)
	} else {
		v.words[i/ws] &^= bitmask[W](i % ws)
	}
}

// Fill sets every bit in [0, width).
func (v *Vector[W]) Fill() {
	for j := range v.words {
		v.words[j] = ^W(0)
	}
	v.trim()
}

// FillAt sets bit i.
func (v *Vector[W]) FillAt(i int) { v.Set(i, true) }

// FillRange sets every bit in [from, to), growing the vector if needed.
func (v *Vector[W]) FillRange(from, to int) {
	for i := from; i < to; i++ {
		v.Set(i, true)
	}
}

// Clear zeroes every bit.
func (v *Vector[W]) Clear() {
	clear(v.words)
}

// ClearAt clears bit i.
func (v *Vector[W]) ClearAt(i int) { v.Set(i, false) }

// ClearRange clears every bit in [from, to).
func (v *Vector[W]) ClearRange(from, to int) {
	for i := from; i < min(to, v.width); i++ {
		v.Set(i, false)
	}
}

// Flip toggles bit i. Flipping a bit past the width grows the vector.
func (v *Vector[W]) Flip(i int) { v.Set(i, !v.Get(i)) }

// FlipRange toggles every bit in [from, to). If to exceeds the width the
// vector is resized first.
func (v *Vector[W]) FlipRange(from, to int) {
	if to > v.width {
		v.Resize(to)
	}
	if from == 0 && to == v.width {
		for j := range v.words {
			v.words[j] = ^v.words[j]
		}
		v.trim()
		return
	}
	for i := from; i < to; i++ {
		v.Set(i, !v.Get(i))
	}
}

// Cardinality returns the number of set bits.
func (v *Vector[W]) Cardinality() int {
	n := 0
	for _, w := range v.words {
		n += bits.OnesCount64(uint64(w))
	}
	return n
}

// Intersects reports whether any word of v shares a set bit with the word
// at the same position in other. Only the shorter word array is compared;
// callers align both vectors beforehand (see [Vector.Slice]).
func (v *Vector[W]) Intersects(other *Vector[W]) bool {
	n := min(len(v.words), len(other.words))
	for j := 0; j < n; j++ {
		if v.words[j]&other.words[j] != 0 {
			return true
		}
	}
	return false
}

// And intersects v with other in place, word by word.
// Words past the shorter of the two arrays are left untouched.
func (v *Vector[W]) And(other *Vector[W]) {
	n := min(len(v.words), len(other.words))
	for j := 0; j < n; j++ {
		v.words[j] &= other.words[j]
	}
}

// Or merges other into v in place, word by word.
// Words past the shorter of the two arrays are left untouched.
func (v *Vector[W]) Or(other *Vector[W]) {
	n := min(len(v.words), len(other.words))
	for j := 0; j < n; j++ {
		v.words[j] |= other.words[j]
	}
	v.trim()
}

// Xor applies exclusive or with other in place, word by word.
// Words past the shorter of the two arrays are left untouched.
func (v *Vector[W]) Xor(other *Vector[W]) {
	n := min(len(v.words), len(other.words))
	for j := 0; j < n; j++ {
		v.words[j] ^= other.words[j]
	}
	v.trim()
}

// Resize changes the logical width to n bits.
//
// Growing reallocates only when n exceeds the physical size; new words are
// zero. Shrinking never drops a set bit: n is raised to Len() when needed,
// and trailing whole words are released once n <= Size()-WordSize().
// Resize panics if n is negative.
func (v *Vector[W]) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("bitvec: negative width %d", n))
	}
	ws := v.WordSize()
	if n < v.width {
		if l := v.Len(); n < l {
			n = l
		}
		v.width = n
		if n <= v.Size()-ws {
			v.realloc(wordsFor(n, ws))
		}
		return
	}
	v.width = n
	if n > v.Size() {
		v.realloc(wordsFor(n, ws))
	}
}

func (v *Vector[W]) realloc(nwords int) {
	words := make([]W, nwords)
	copy(words, v.words)
	v.words = words
}

// Len returns the index of the highest set bit plus one, or 0 when no bit
// is set. It is the used length, as opposed to [Vector.Width].
func (v *Vector[W]) Len() int {
	ws := v.WordSize()
	for j := len(v.words) - 1; j >= 0; j-- {
		if w := v.words[j]; w != 0 {
			// MSB-first: the highest index is the lowest set bit.
			return j*ws + ws - bits.TrailingZeros64(uint64(w))
		}
	}
	return 0
}

// IsEmpty reports whether no bit is set.
func (v *Vector[W]) IsEmpty() bool {
	for _, w := range v.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v *Vector[W]) Clone() *Vector[W] {
	words := make([]W, len(v.words))
	copy(words, v.words)
	return &Vector[W]{width: v.width, words: words}
}

// String renders bits [0, width) as '0' and '1' characters.
func (v *Vector[W]) String() string {
	var sb strings.Builder
	sb.Grow(v.width)
	for i := 0; i < v.width; i++ {
		if v.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// trim zeroes the padding bits of the last word.
func (v *Vector[W]) trim() {
	ws := v.WordSize()
	if r := v.width % ws; r != 0 && len(v.words) > 0 {
		v.words[len(v.words)-1] &= ^W(0) << (ws - r)
	}
}
