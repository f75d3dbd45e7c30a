// Package scalar implements the exact rational arithmetic used throughout
// the contraction engine. Coefficients like 1/4 must compare equal exactly,
// so the core never touches a float64; math/big's Rat is the standard
// library's own arbitrary-precision rational and is the natural host for
// this, not a workaround (see DESIGN.md).
package scalar

import "math/big"

// Scalar is an exact rational number, always held in lowest terms by
// *big.Rat's own normalization. The zero value is a valid representation
// of zero.
type Scalar struct {
	r *big.Rat
}

func (s Scalar) rat() *big.Rat {
	if s.r == nil {
		return new(big.Rat)
	}
	return s.r
}

// Zero returns the additive identity.
func Zero() Scalar { return Scalar{} }

// One returns the multiplicative identity.
func One() Scalar { return FromInt(1) }

// FromInt builds a Scalar equal to the given integer.
func FromInt(n int) Scalar {
	return Scalar{r: big.NewRat(int64(n), 1)}
}

// FromFrac builds a Scalar equal to num/den.
func FromFrac(num, den int) Scalar {
	return Scalar{r: big.NewRat(int64(num), int64(den))}
}

// Parse reads a scalar from a string such as "1/4", "-3", or "0.5".
func Parse(s string) (Scalar, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Scalar{}, &parseError{s}
	}
	return Scalar{r: r}, nil
}

type parseError struct{ s string }

func (e *parseError) Error() string { return "scalar: invalid literal " + e.s }

// Add returns s + o.
func (s Scalar) Add(o Scalar) Scalar { return Scalar{r: new(big.Rat).Add(s.rat(), o.rat())} }

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar { return Scalar{r: new(big.Rat).Sub(s.rat(), o.rat())} }

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar { return Scalar{r: new(big.Rat).Mul(s.rat(), o.rat())} }

// Quo returns s / o.
func (s Scalar) Quo(o Scalar) Scalar { return Scalar{r: new(big.Rat).Quo(s.rat(), o.rat())} }

// Neg returns -s.
func (s Scalar) Neg() Scalar { return Scalar{r: new(big.Rat).Neg(s.rat())} }

// Equal reports whether s and o denote the same rational number.
func (s Scalar) Equal(o Scalar) bool { return s.rat().Cmp(o.rat()) == 0 }

// IsZero reports whether s is exactly zero.
func (s Scalar) IsZero() bool { return s.rat().Sign() == 0 }

// Sign returns -1, 0, or 1 according to the sign of s.
func (s Scalar) Sign() int { return s.rat().Sign() }

// String renders s the way the engine's literals are written, e.g. "1/4".
// Integral values render without a slash.
func (s Scalar) String() string {
	r := s.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}
