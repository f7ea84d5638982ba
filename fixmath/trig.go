package fixmath

// Fifth-order odd polynomial coefficients for the quarter-wave sine,
// Q15, constrained so the endpoints are exact: SIN_C1-SIN_C3+SIN_C5
// equals one.
const (
	SIN_C1 = int32(51472) // pi/2
	SIN_C3 = int32(21167)
	SIN_C5 = int32(2463)
)

// Sin returns the sine of a 16-bit binary angle measurement (0x10000
// is a full turn) as signed Q29 fixed point between -1 and +1. Peak
// error is under 0.11% of full scale; zero crossings and extrema are
// exact.
func Sin(x int32) (y int32) {
	// Wrap to one turn, signed: +-0x8000 is a half turn.
	t := int32(int16(uint16(x)))

	// Fold onto the rising quarter wave: t in [-0x4000, 0x4000],
	// where 0x4000 maps to +1.
	if t > 0x4000 {
		t = 0x8000 - t
	} else if t < -0x4000 {
		t = -0x8000 - t
	}

	// Odd polynomial in u = t (Q14); Q15 coefficients give Q29 out.
	u2 := (t * t) >> 14
	u3 := (u2 * t) >> 14
	u5 := (u3 * u2) >> 14
	y = SIN_C1*t - SIN_C3*u3 + SIN_C5*u5

	return
}

// atanQ14 returns the arctangent of r (Q14, 0 <= r <= 0x4000) as a
// 15-bit binary angle measurement in [0, 0x1000].
func atanQ14(r int32) (bam int32) {
	// Second-order correction to the linear estimate; coefficients are
	// 0.2447 and 0.0663 radians scaled to 15-bit BAM units.
	c := 1276 + ((346 * r) >> 14)
	t := (r * (0x4000 - r)) >> 14
	bam = ((0x1000 * r) >> 14) + ((c * t) >> 14)

	return
}

// Atan2 returns the angle of the point (x, y) as a 15-bit binary angle
// measurement (0x8000 is a full turn), measured counterclockwise from
// the positive x axis. x and y are 1.14 signed fixed-point coordinates;
// (0, 0) returns zero.
func Atan2(x int32, y int32) (bam uint32) {
	if x == 0 && y == 0 {
		return
	}

	ax := x
	if ax < 0 {
		ax = -ax
	}
	ay := y
	if ay < 0 {
		ay = -ay
	}

	var angle int32
	if ax >= ay {
		angle = atanQ14((ay << 14) / ax)
	} else {
		angle = 0x2000 - atanQ14((ax<<14)/ay)
	}

	if x < 0 {
		angle = 0x4000 - angle
	}
	if y < 0 {
		angle = -angle
	}

	bam = uint32(angle) & 0x7fff

	return
}

// Sqrt returns the integer square root of x.
func Sqrt(x uint32) (root uint32) {
	bit := uint32(1) << 30
	for bit > x {
		bit >>= 2
	}

	for bit != 0 {
		if x >= root+bit {
			x -= root + bit
			root = (root >> 1) + bit
		} else {
			root >>= 1
		}
		bit >>= 2
	}

	return
}
