package fixmath

import (
	"math/bits"
)

// DivMod32 returns the unsigned 32-bit quotient and remainder of n/d.
func DivMod32(n uint32, d uint32) (q uint32, r uint32, err error) {
	if d == 0 {
		err = ErrDivideByZero
		return
	}

	q, r = UnsafeDivMod32(n, d)

	return
}

// UnsafeDivMod32 is DivMod32 with no divide-by-zero check performed.
func UnsafeDivMod32(n uint32, d uint32) (q uint32, r uint32) {
	return n / d, n % d
}

// DivMod64 returns the unsigned 64-bit quotient and remainder of n/d.
func DivMod64(n uint64, d uint64) (q uint64, r uint64, err error) {
	if d == 0 {
		err = ErrDivideByZero
		return
	}

	q, r = UnsafeDivMod64(n, d)

	return
}

// UnsafeDivMod64 is DivMod64 with no divide-by-zero check performed.
func UnsafeDivMod64(n uint64, d uint64) (q uint64, r uint64) {
	return n / d, n % d
}

// DivMod64By32 returns the 64-bit quotient and 32-bit remainder of a
// 64-bit numerator over a 32-bit denominator, the narrowing division
// the target performs in two 32-bit halves.
func DivMod64By32(n uint64, d uint32) (q uint64, r uint32, err error) {
	if d == 0 {
		err = ErrDivideByZero
		return
	}

	q, r = UnsafeDivMod64By32(n, d)

	return
}

// UnsafeDivMod64By32 is DivMod64By32 with no divide-by-zero check
// performed. The high half is divided first; its remainder seeds the
// low-half division, exactly as the two-register target sequence does.
func UnsafeDivMod64By32(n uint64, d uint32) (q uint64, r uint32) {
	hi := uint32(n >> 32)
	lo := uint32(n)

	qhi := hi / d
	qlo, rem := bits.Div32(hi%d, lo, d)

	q = (uint64(qhi) << 32) | uint64(qlo)
	r = rem

	return
}

// Div64By32 returns only the quotient of DivMod64By32.
func Div64By32(n uint64, d uint32) (q uint64, err error) {
	q, _, err = DivMod64By32(n, d)

	return
}
