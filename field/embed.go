package field

// Embed16to32 embeds a GF(2^16) element into GF(2^32) by zero-extension.
func Embed16to32(v B16) B32 {
	return B32(v)
}

// Pack16to32 packs a [low, high] pair of GF(2^16) elements into a single
// GF(2^32) element as low | high<<16, the representation PetraVM uses for
// a field-valued jump target assembled from two 16-bit immediates.
func Pack16to32(low, high B16) B32 {
	return B32(low) | B32(high)<<16
}

// Split32to16 is the inverse of Pack16to32: it splits a GF(2^32) element
// into its low and high 16-bit halves.
func Split32to16(v B32) (low, high B16) {
	return B16(v), B16(v >> 16)
}

// Embed32to64 embeds a GF(2^32) element into GF(2^64) by zero-extension.
func Embed32to64(v B32) B64 {
	return B64(v)
}

// Embed64to128 embeds a GF(2^64) element into GF(2^128) by zero-extension.
func Embed64to128(v B64) B128 {
	return B128{Lo: v}
}
