package field

// poly128Lo is the reduction polynomial for GF(2^128), stored without its
// implicit x^128 term: x^7 + x^2 + x + 1 (0x87), the same low-degree
// reduction term used by GHASH/AES-GCM's field. Only the low 8 bits are
// ever nonzero, so it fits in the Lo half alone.
const poly128Lo uint64 = 0x87

// shiftLeft1 shifts a 128-bit value left by one bit, returning the bit
// shifted out of the top.
func shiftLeft1(v B128) (out B128, carry bool) {
	carry = v.Hi&(1<<63) != 0
	hi := (v.Hi << 1) | (v.Lo >> 63)
	lo := v.Lo << 1
	return B128{Hi: hi, Lo: lo}, carry
}

// bit128 reports whether bit i (0 = least significant) of v is set.
func bit128(v B128, i int) bool {
	if i < 64 {
		return v.Lo&(1<<uint(i)) != 0
	}
	return v.Hi&(1<<uint(i-64)) != 0
}

// Mul128 multiplies two GF(2^128) elements using carry-less multiplication
// followed by reduction modulo x^128+x^7+x^2+x+1.
func Mul128(a, b B128) B128 {
	var result B128
	x := a
	for i := 0; i < 128; i++ {
		if bit128(b, i) {
			result = Add128(result, x)
		}
		var carry bool
		x, carry = shiftLeft1(x)
		if carry {
			x.Lo ^= poly128Lo
		}
	}
	return result
}

// Pow128 raises a to the n-th power in GF(2^128) via square-and-multiply.
func Pow128(a B128, n uint64) B128 {
	result := B128{Lo: 1}
	base := a
	for n > 0 {
		if n&1 != 0 {
			result = Mul128(result, base)
		}
		base = Mul128(base, base)
		n >>= 1
	}
	return result
}
