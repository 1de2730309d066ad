package parser

import (
	"math/big"
	"strings"
)

const (
	trueLiteral      = "true"
	decimalSeparator = "."
)

type literalParser struct{}

// New returns a Parser backed by ParseBoolean and ParseNumber.
func New() Parser {
	return literalParser{}
}

func (literalParser) ParseBoolean(raw string) bool {
	return ParseBoolean(raw)
}

func (literalParser) ParseNumber(raw string) (Number, error) {
	return ParseNumber(raw)
}

// ParseBoolean reports whether raw is exactly "true". Any other input,
// including "TRUE", "1" and the empty string, is false.
func ParseBoolean(raw string) bool {
	return raw == trueLiteral
}

// ParseNumber converts a decimal numeral such as "10", "0.25" or "-1.5".
//
// A value with a separator is rebuilt as numerator / 10^k, where the
// numerator is the integer formed by dropping the separator and k is the
// number of fractional digits. The sign is carried by the numerator alone.
func ParseNumber(raw string) (Number, error) {
	if raw == "" {
		return Number{}, formatError(raw, "empty value")
	}

	parts := strings.Split(raw, decimalSeparator)
	switch len(parts) {
	case 1:
		if !isSignedDigits(parts[0], false) {
			return Number{}, formatError(raw, "unexpected character")
		}
		return Number{numerator: parseDigits(parts[0])}, nil
	case 2:
		whole, frac := parts[0], parts[1]
		// "1." keeps a zero scale, ".5" an empty integer part; "." has neither.
		if !isSignedDigits(whole, frac != "") || (frac != "" && !isDigits(frac)) {
			return Number{}, formatError(raw, "unexpected character")
		}
		return Number{numerator: parseDigits(whole + frac), scale: len(frac), fractional: true}, nil
	default:
		return Number{}, formatError(raw, "more than one decimal separator")
	}
}

// parseDigits converts an already validated signed digit string.
func parseDigits(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

// isSignedDigits accepts an optional leading sign followed by digits. An
// empty digit run is allowed only for the integer part of a fraction (".5").
func isSignedDigits(s string, allowEmpty bool) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	if s == "" {
		return allowEmpty
	}
	return isDigits(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
