package parser

import (
	"math/big"
	"strconv"
	"strings"
)

// Parser describes the conversions applied to raw, string-typed configuration values.
type Parser interface {
	ParseBoolean(raw string) bool
	ParseNumber(raw string) (Number, error)
}

// Number is a parsed decimal numeral kept as an arbitrary-precision integer
// numerator and a power-of-ten scale. Fractional is set whenever the raw
// value contained a separator, including "1." where the scale is zero.
type Number struct {
	numerator  *big.Int
	scale      int
	fractional bool
}

func (n Number) num() *big.Int {
	if n.numerator == nil {
		return new(big.Int)
	}
	return n.numerator
}

func (n Number) denominator() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n.scale)), nil)
}

// Float64 returns numerator / 10^scale, rounded to the nearest float64.
func (n Number) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(n.num(), n.denominator()).Float64()
	return f
}

// IsInteger reports whether the raw value was written without a decimal separator.
func (n Number) IsInteger() bool {
	return !n.fractional
}

// Int returns the value as an int64 when it has no fractional remainder and
// fits, so "4" and "4.00" both convert while "4.5" does not.
func (n Number) Int() (int64, bool) {
	quo, rem := new(big.Int).QuoRem(n.num(), n.denominator(), new(big.Int))
	if rem.Sign() != 0 || !quo.IsInt64() {
		return 0, false
	}
	return quo.Int64(), true
}

// String renders integer values without a separator and fractional values
// with at least one fractional digit.
func (n Number) String() string {
	if !n.fractional {
		return n.num().String()
	}
	s := strconv.FormatFloat(n.Float64(), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes the number as a bare JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}
