package bitvec

import (
	"errors"
	"testing"
)

func TestNewDefaultWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		wordSize int
	}{
		{"8-bit", NewBitVector(0).Width(), 8},
		{"16-bit", NewBitVector16(0).Width(), 16},
		{"32-bit", NewBitVector32(0).Width(), 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.width != tt.wordSize {
				t.Errorf("default width = %d, want %d", tt.width, tt.wordSize)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}
	for _, tt := range tests {
		v := NewBitVector(tt.width)
		if got := len(v.Words()); got != tt.want {
			t.Errorf("NewBitVector(%d) words = %d, want %d", tt.width, got, tt.want)
		}
		if got := v.Size(); got != tt.want*8 {
			t.Errorf("NewBitVector(%d).Size() = %d, want %d", tt.width, got, tt.want*8)
		}
	}
}

func TestBitOrderMSBFirst(t *testing.T) {
	v8 := NewBitVector(8)
	v8.Set(0, true)
	if got := v8.Words()[0]; got != 0x80 {
		t.Errorf("8-bit word after Set(0) = %#x, want 0x80", got)
	}
	v8.Set(7, true)
	if got := v8.Words()[0]; got != 0x81 {
		t.Errorf("8-bit word after Set(7) = %#x, want 0x81", got)
	}

	v16 := NewBitVector16(16)
	v16.Set(1, true)
	if got := v16.Words()[0]; got != 0x4000 {
		t.Errorf("16-bit word after Set(1) = %#x, want 0x4000", got)
	}

	v32 := NewBitVector32(64)
	v32.Set(33, true)
	if got := v32.Words()[1]; got != 0x40000000 {
		t.Errorf("32-bit word[1] after Set(33) = %#x, want 0x40000000", got)
	}
}

func testRoundTrip[W Word](t *testing.T) {
	t.Helper()
	v := New[W](70)
	for i := 0; i < v.Width(); i++ {
		v.Set(i, true)
		if !v.Get(i) {
			t.Fatalf("Get(%d) = false after Set(true)", i)
		}
		v.Set(i, false)
		if v.Get(i) {
			t.Fatalf("Get(%d) = true after Set(false)", i)
		}
	}
	if !v.IsEmpty() {
		t.Error("vector should be empty after round trip")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Run("8", testRoundTrip[uint8])
	t.Run("16", testRoundTrip[uint16])
	t.Run("32", testRoundTrip[uint32])
}

func TestGetOutOfRange(t *testing.T) {
	v := NewBitVector(10)
	v.Fill()
	if v.Get(10) {
		t.Error("Get(width) = true, want false")
	}
	if v.Get(1000) {
		t.Error("Get(1000) = true, want false")
	}
	if v.Get(-1) {
		t.Error("Get(-1) = true, want false")
	}
}

func TestSetGrows(t *testing.T) {
	v := NewBitVector(8)
	v.Set(20, true)
	if v.Width() != 21 {
		t.Errorf("Width() = %d, want 21", v.Width())
	}
	if len(v.Words()) != 3 {
		t.Errorf("words = %d, want 3", len(v.Words()))
	}
	if !v.Get(20) {
		t.Error("Get(20) = false after growth")
	}
}

func TestClearBeyondWidthIsNoop(t *testing.T) {
	v := NewBitVector(8)
	v.Set(20, false)
	if v.Width() != 8 {
		t.Errorf("Width() = %d, want 8", v.Width())
	}
}

func TestSetNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Set(-1) did not panic")
		}
	}()
	NewBitVector(8).Set(-1, true)
}

func TestSlice(t *testing.T) {
	v := NewBitVector16(20)
	for _, i := range []int{3, 5, 6, 19} {
		v.Set(i, true)
	}

	s, err := v.Slice(3, 7)
	if err != nil {
		t.Fatalf("Slice(3, 7) error = %v", err)
	}
	if s.Width() != 4 {
		t.Errorf("slice width = %d, want 4", s.Width())
	}
	if got := s.String(); got != "1011" {
		t.Errorf("slice = %q, want %q", got, "1011")
	}

	// Clamped past width: trailing bits stay zero.
	s, err = v.Slice(18, 30)
	if err != nil {
		t.Fatalf("Slice(18, 30) error = %v", err)
	}
	if s.Width() != 12 {
		t.Errorf("clamped slice width = %d, want 12", s.Width())
	}
	if got := s.String(); got != "010000000000" {
		t.Errorf("clamped slice = %q", got)
	}
}

func TestSliceInvalidRange(t *testing.T) {
	v := NewBitVector(8)
	for _, r := range [][2]int{{3, 3}, {5, 2}} {
		_, err := v.Slice(r[0], r[1])
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Slice(%d, %d) error = %v, want ErrInvalidRange", r[0], r[1], err)
		}
		var re *RangeError
		if !errors.As(err, &re) || re.From != r[0] || re.To != r[1] {
			t.Errorf("Slice(%d, %d) error = %#v, want *RangeError", r[0], r[1], err)
		}
	}
}

func TestFillAndClear(t *testing.T) {
	v := NewBitVector(11)
	v.Fill()
	if got := v.Cardinality(); got != 11 {
		t.Errorf("Cardinality() after Fill = %d, want 11", got)
	}
	if got := v.Words()[1]; got != 0xE0 {
		t.Errorf("padding not zero after Fill: last word = %#x", got)
	}

	v.Clear()
	if !v.IsEmpty() {
		t.Error("IsEmpty() = false after Clear")
	}

	v.FillAt(4)
	if !v.Get(4) || v.Cardinality() != 1 {
		t.Error("FillAt(4) did not set exactly bit 4")
	}

	v.FillRange(6, 9)
	if got := v.String(); got != "00001011100" {
		t.Errorf("after FillRange = %q", got)
	}

	v.ClearRange(7, 20)
	if got := v.String(); got != "00001010000" {
		t.Errorf("after ClearRange = %q", got)
	}

	v.ClearAt(4)
	if v.Get(4) {
		t.Error("ClearAt(4) left bit set")
	}
}

func TestFillRangeGrows(t *testing.T) {
	v := NewBitVector(4)
	v.FillRange(2, 12)
	if v.Width() != 12 {
		t.Errorf("Width() = %d, want 12", v.Width())
	}
	if v.Cardinality() != 10 {
		t.Errorf("Cardinality() = %d, want 10", v.Cardinality())
	}
}

func TestFlip(t *testing.T) {
	v := NewBitVector32(40)
	v.Set(1, true)
	v.Flip(1)
	v.Flip(2)
	if v.Get(1) || !v.Get(2) {
		t.Errorf("Flip single bits: got %s", v.String()[:4])
	}

	// Full-width flip is word-wise and keeps padding zero.
	v.FlipRange(0, 40)
	if got := v.Cardinality(); got != 39 {
		t.Errorf("Cardinality() after full flip = %d, want 39", got)
	}
	if v.Get(2) {
		t.Error("bit 2 should be clear after full flip")
	}

	v.FlipRange(10, 13)
	if v.Get(10) || v.Get(11) || v.Get(12) || !v.Get(13) {
		t.Error("partial FlipRange toggled wrong bits")
	}
}

func TestFlipRangeResizes(t *testing.T) {
	v := NewBitVector(8)
	v.FlipRange(4, 20)
	if v.Width() != 20 {
		t.Errorf("Width() = %d, want 20", v.Width())
	}
	if v.Cardinality() != 16 {
		t.Errorf("Cardinality() = %d, want 16", v.Cardinality())
	}
}

func TestCardinalityMatchesGet(t *testing.T) {
	v := NewBitVector16(100)
	for i := 0; i < 100; i += 3 {
		v.Set(i, true)
	}
	want := 0
	for i := 0; i < v.Width(); i++ {
		if v.Get(i) {
			want++
		}
	}
	if got := v.Cardinality(); got != want {
		t.Errorf("Cardinality() = %d, want %d", got, want)
	}
}

func TestIntersects(t *testing.T) {
	a := NewBitVector(16)
	b := NewBitVector(24)
	a.Set(3, true)
	b.Set(4, true)
	if a.Intersects(b) {
		t.Error("disjoint vectors reported as intersecting")
	}
	b.Set(3, true)
	if !a.Intersects(b) {
		t.Error("overlapping vectors reported as disjoint")
	}

	// Only the shorter word array is compared.
	c := NewBitVector(8)
	d := NewBitVector(24)
	c.Fill()
	d.Set(20, true)
	if c.Intersects(d) {
		t.Error("bits past the shorter array must not count")
	}
}

func TestBitwiseOps(t *testing.T) {
	newVec := func(bits string) *BitVector {
		v := NewBitVector(len(bits))
		for i, c := range bits {
			v.Set(i, c == '1')
		}
		return v
	}

	tests := []struct {
		name string
		op   func(a, b *BitVector)
		a, b string
		want string
	}{
		{"and", (*BitVector).And, "11001100", "10101010", "10001000"},
		{"or", (*BitVector).Or, "11001100", "10101010", "11101110"},
		{"xor", (*BitVector).Xor, "11001100", "10101010", "01100110"},
		{"and shorter other", (*BitVector).And, "1100110011", "10101010", "1000100011"},
		{"or trims padding", (*BitVector).Or, "000", "11111111", "111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := newVec(tt.a), newVec(tt.b)
			tt.op(a, b)
			if got := a.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if got := a.Cardinality(); got != newVec(tt.want).Cardinality() {
				t.Errorf("Cardinality() = %d, padding leaked", got)
			}
		})
	}
}

func TestResizeGrowthPreservesData(t *testing.T) {
	v := NewBitVector16(20)
	set := map[int]bool{0: true, 7: true, 15: true, 19: true}
	for i := range set {
		v.Set(i, true)
	}
	orig := v.Width()
	v.Resize(orig * 2)
	if v.Width() != 40 {
		t.Errorf("Width() = %d, want 40", v.Width())
	}
	for i := 0; i < orig; i++ {
		if v.Get(i) != set[i] {
			t.Errorf("Get(%d) = %v after growth, want %v", i, v.Get(i), set[i])
		}
	}
	if len(v.Words()) != 3 {
		t.Errorf("words = %d, want 3", len(v.Words()))
	}
}

func TestResizeWithinCapacityKeepsWords(t *testing.T) {
	v := NewBitVector(9)
	words := v.Words()
	v.Resize(16)
	if &v.Words()[0] != &words[0] {
		t.Error("growth within capacity reallocated the word array")
	}
}

func TestResizeShrinkNeverDropsSetBits(t *testing.T) {
	v := NewBitVector(64)
	v.Set(20, true)
	v.Resize(20)
	if v.Width() < 21 {
		t.Errorf("Width() = %d, want >= 21", v.Width())
	}
	if !v.Get(20) {
		t.Error("Get(20) = false after shrink")
	}
	if len(v.Words()) != 3 {
		t.Errorf("words = %d, want 3 after dropping trailing words", len(v.Words()))
	}
}

func TestResizeShrinkEmpty(t *testing.T) {
	v := NewBitVector32(100)
	v.Resize(0)
	if v.Width() != 0 || v.Size() != 0 {
		t.Errorf("Width() = %d, Size() = %d, want 0, 0", v.Width(), v.Size())
	}
	v.Set(3, true)
	if !v.Get(3) || v.Width() != 4 {
		t.Error("vector did not regrow after shrinking to zero")
	}
}

func TestLen(t *testing.T) {
	v := NewBitVector(30)
	if got := v.Len(); got != 0 {
		t.Errorf("Len() of empty vector = %d, want 0", got)
	}
	v.Set(5, true)
	if got := v.Len(); got != 6 {
		t.Errorf("Len() = %d, want 6", got)
	}
	v.Set(17, true)
	if got := v.Len(); got != 18 {
		t.Errorf("Len() = %d, want 18", got)
	}
	v.Set(7, true)
	if got := v.Len(); got != 18 {
		t.Errorf("Len() = %d, want 18", got)
	}
}

func TestClone(t *testing.T) {
	v := NewBitVector16(20)
	v.Set(4, true)
	c := v.Clone()
	v.Set(5, true)
	if c.Get(5) {
		t.Error("clone shares storage with original")
	}
	if !c.Get(4) || c.Width() != 20 {
		t.Error("clone lost data")
	}
}
