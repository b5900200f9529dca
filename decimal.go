// Decimal128: the 16-byte IEEE 754-2008 decimal128 scalar.
//
// The wire layout is binary integer decimal (BID): 1 sign bit, a 14-bit
// biased exponent, and a 113-bit coefficient of up to 34 decimal
// digits. Values round-trip bit-for-bit through the codec; string
// conversion and arithmetic go through cockroachdb/apd so base-10
// semantics stay exact — a decimal is never approximated through binary
// floating point.
package bcol

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

const (
	decimalBias      = 6176
	decimalMaxExp    = 6111 // unbiased, with a full 34-digit coefficient
	decimalMinExp    = -6176
	decimalMaxDigits = 34
)

var (
	bigTen = big.NewInt(10)

	// maxCoeff is 10^34-1, the largest representable coefficient.
	maxCoeff = func() *big.Int {
		c := new(big.Int).Exp(bigTen, big.NewInt(decimalMaxDigits), nil)
		return c.Sub(c, big.NewInt(1))
	}()
)

// Decimal128 is an immutable 128-bit decimal in BID layout. The zero
// value is the all-zero bit pattern, which decodes as 0E-6176 and
// compares equal to zero.
type Decimal128 struct {
	hi, lo uint64
}

// NewDecimal128 builds a decimal from its raw high and low bits.
func NewDecimal128(hi, lo uint64) Decimal128 { return Decimal128{hi: hi, lo: lo} }

// Bits returns the raw high and low bits.
func (d Decimal128) Bits() (hi, lo uint64) { return d.hi, d.lo }

// IsNaN reports whether the value is any NaN encoding.
func (d Decimal128) IsNaN() bool { return d.hi>>58&0x1F == 0x1F }

// IsInf reports whether the value is an infinity encoding.
func (d Decimal128) IsInf() bool { return d.hi>>58&0x1F == 0x1E }

func (d Decimal128) negative() bool { return d.hi>>63 == 1 }

// decompose splits a finite value into sign, unbiased exponent and
// coefficient. Non-canonical encodings (the reserved 11 prefix, or a
// coefficient above 10^34-1) decode as a zero coefficient, matching the
// IEEE treatment of such bit patterns.
func (d Decimal128) decompose() (neg bool, exp int, coeff *big.Int) {
	neg = d.negative()
	if d.hi>>61&3 == 3 {
		exp = int(d.hi>>47&0x3FFF) - decimalBias
		return neg, exp, new(big.Int)
	}
	exp = int(d.hi>>49&0x3FFF) - decimalBias
	coeff = new(big.Int).SetUint64(d.hi & (1<<49 - 1))
	coeff.Lsh(coeff, 64)
	coeff.Or(coeff, new(big.Int).SetUint64(d.lo))
	if coeff.Cmp(maxCoeff) > 0 {
		coeff.SetInt64(0)
	}
	return neg, exp, coeff
}

// apd returns the value as an exact apd decimal. ok is false for NaN,
// which has no finite ordering of its own.
func (d Decimal128) apd() (*apd.Decimal, bool) {
	if d.IsNaN() {
		return nil, false
	}
	if d.IsInf() {
		return &apd.Decimal{Form: apd.Infinite, Negative: d.negative()}, true
	}
	neg, exp, coeff := d.decompose()
	var c apd.BigInt
	c.SetMathBigInt(coeff)
	return &apd.Decimal{Negative: neg, Exponent: int32(exp), Coeff: c}, true
}

// String renders the value in scientific string form ("77777809838.97",
// "1.5E+7", "NaN"). The output parses back with ParseDecimal to the
// same bits.
func (d Decimal128) String() string {
	if d.IsNaN() {
		return "NaN"
	}
	if d.IsInf() {
		if d.negative() {
			return "-Infinity"
		}
		return "Infinity"
	}
	a, _ := d.apd()
	return a.String()
}

// ParseDecimal converts decimal text to a Decimal128. Coefficients
// longer than 34 digits round half-even; exponents outside the
// representable range clamp where zero padding allows and otherwise
// fail with ErrDecimalRange.
func ParseDecimal(s string) (Decimal128, error) {
	a, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Decimal128{}, fmt.Errorf("invalid decimal %q", s)
	}
	return packDecimal(a)
}

// MustParseDecimal is ParseDecimal for literals known to be valid.
func MustParseDecimal(s string) Decimal128 {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// packDecimal encodes an exact apd decimal into the 128-bit layout.
func packDecimal(a *apd.Decimal) (Decimal128, error) {
	var sign uint64
	if a.Negative {
		sign = 1 << 63
	}
	switch a.Form {
	case apd.NaN, apd.NaNSignaling:
		return Decimal128{hi: 0x7C << 56}, nil
	case apd.Infinite:
		return Decimal128{hi: 0x78<<56 | sign}, nil
	}

	exp := int(a.Exponent)
	coeff := new(big.Int).Abs(a.Coeff.MathBigInt())

	if nd := numDigits(coeff); nd > decimalMaxDigits {
		coeff = roundHalfEven(coeff, nd-decimalMaxDigits)
		exp += nd - decimalMaxDigits
		if numDigits(coeff) > decimalMaxDigits { // 999…9 carried to 100…0
			coeff.Quo(coeff, bigTen)
			exp++
		}
	}

	// Exponent below range: shed digits, rounding half-even. A value too
	// small for even a one-digit subnormal underflows to zero.
	if exp < decimalMinExp {
		drop := decimalMinExp - exp
		if drop >= decimalMaxDigits*2 {
			coeff.SetInt64(0)
		} else {
			coeff = roundHalfEven(coeff, drop)
		}
		exp = decimalMinExp
	}

	// Exponent above range: pad the coefficient with zeros while it has
	// room to grow.
	for exp > decimalMaxExp && numDigits(coeff) < decimalMaxDigits {
		coeff.Mul(coeff, bigTen)
		exp--
	}
	if exp > decimalMaxExp {
		if coeff.Sign() != 0 {
			return Decimal128{}, fmt.Errorf("%w: exponent %d", ErrDecimalRange, exp)
		}
		exp = decimalMaxExp
	}

	lo := new(big.Int).And(coeff, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(coeff, 64).Uint64()
	return Decimal128{
		hi: sign | uint64(exp+decimalBias)<<49 | hi,
		lo: lo,
	}, nil
}

// numDigits counts decimal digits; zero counts as one digit.
func numDigits(c *big.Int) int {
	if c.Sign() == 0 {
		return 1
	}
	return len(c.Text(10))
}

// roundHalfEven drops n trailing decimal digits with banker's rounding.
func roundHalfEven(c *big.Int, n int) *big.Int {
	div := new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
	quo, rem := new(big.Int).QuoRem(c, div, new(big.Int))
	rem.Lsh(rem, 1) // rem *= 2
	switch rem.Cmp(div) {
	case 1:
		quo.Add(quo, big.NewInt(1))
	case 0:
		if quo.Bit(0) == 1 {
			quo.Add(quo, big.NewInt(1))
		}
	}
	return quo
}
