// Package fixmath supplies the fixed-point and integer math leaf
// routines of the runtime: sine over binary angle measurements, integer
// square root, two-argument arctangent, and unsigned division with
// remainder. All routines are pure input to output transforms with no
// floating point.
package fixmath
