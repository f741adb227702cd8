package field

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestAdd32SelfCancels(t *testing.T) {
	vals := []B32{0, 1, 2, 0xDEADBEEF, 0xFFFFFFFF}
	for _, v := range vals {
		if got := Add32(v, v); got != 0 {
			t.Errorf("Add32(%#x, %#x) = %#x, want 0", v, v, got)
		}
	}
}

func TestMul32Commutative(t *testing.T) {
	pairs := [][2]B32{{3, 5}, {0xAAAA, 0x5555}, {1, 0}, {G, G}}
	for _, p := range pairs {
		a, b := Mul32(p[0], p[1]), Mul32(p[1], p[0])
		if a != b {
			t.Errorf("Mul32(%#x,%#x)=%#x but Mul32(%#x,%#x)=%#x, want equal", p[0], p[1], a, p[1], p[0], b)
		}
	}
}

func TestMul32Associative(t *testing.T) {
	a, b, c := B32(7), B32(13), B32(31)
	left := Mul32(Mul32(a, b), c)
	right := Mul32(a, Mul32(b, c))
	if left != right {
		t.Errorf("(a*b)*c = %#x, a*(b*c) = %#x, want equal", left, right)
	}
}

func TestPow32MultiplicativeIdentity(t *testing.T) {
	if got := Pow32(G, 0); got != 1 {
		t.Errorf("Pow32(G, 0) = %#x, want 1", got)
	}
	if got := Pow32(G, 1); got != G {
		t.Errorf("Pow32(G, 1) = %#x, want %#x", got, G)
	}
}

func TestPow32ExponentMultiplication(t *testing.T) {
	tests := []struct {
		k, m uint64
	}{
		{3, 5}, {7, 11}, {0, 9}, {100, 0}, {17, 1},
	}
	for _, tt := range tests {
		got := Pow32(Pow32(G, tt.k), tt.m)
		want := Pow32(G, tt.k*tt.m)
		if got != want {
			t.Errorf("G.Pow(%d).Pow(%d) = %#x, want G.Pow(%d) = %#x\nstate: %s", tt.k, tt.m, got, tt.k*tt.m, want, spew.Sdump(tt))
		}
	}
}

func TestInvert32(t *testing.T) {
	vals := []B32{1, 2, 3, 0xDEADBEEF, G}
	for _, v := range vals {
		inv, ok := Invert32(v)
		if !ok {
			t.Fatalf("Invert32(%#x) reported not invertible", v)
		}
		if got := Mul32(v, inv); got != 1 {
			t.Errorf("Mul32(%#x, inverse %#x) = %#x, want 1", v, inv, got)
		}
	}
	if _, ok := Invert32(0); ok {
		t.Errorf("Invert32(0) should report not invertible")
	}
}

func TestPackSplit16to32RoundTrip(t *testing.T) {
	low, high := B16(0x1234), B16(0xABCD)
	packed := Pack16to32(low, high)
	gotLow, gotHigh := Split32to16(packed)
	if gotLow != low || gotHigh != high {
		t.Errorf("round trip (%#x,%#x) -> %#x -> (%#x,%#x), want original pair", low, high, packed, gotLow, gotHigh)
	}
}

func TestMul128AddIdentity(t *testing.T) {
	v := B128{Hi: 0x1111111111111111, Lo: 0x2222222222222222}
	if got := Add128(v, v); !Equal128(got, Zero128) {
		t.Errorf("Add128(v, v) = %+v, want zero", got)
	}
}

func TestMul128Commutative(t *testing.T) {
	a := B128{Hi: 1, Lo: 3}
	b := B128{Hi: 0, Lo: 5}
	left, right := Mul128(a, b), Mul128(b, a)
	if !Equal128(left, right) {
		t.Errorf("Mul128(a,b) = %+v, Mul128(b,a) = %+v, want equal", left, right)
	}
}

func TestMul128Associative(t *testing.T) {
	a := B128{Lo: 7}
	b := B128{Lo: 13}
	c := B128{Hi: 1, Lo: 1}
	left := Mul128(Mul128(a, b), c)
	right := Mul128(a, Mul128(b, c))
	if !Equal128(left, right) {
		t.Errorf("(a*b)*c = %+v, a*(b*c) = %+v, want equal", left, right)
	}
}
