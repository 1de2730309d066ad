package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"
)

func TestParseBoolean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "true", want: true},
		{raw: "false", want: false},
		{raw: "", want: false},
		{raw: "TRUE", want: false},
		{raw: "True", want: false},
		{raw: "1", want: false},
		{raw: " true", want: false},
		{raw: "true ", want: false},
		{raw: "yes", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(strconv.Quote(tc.raw), func(t *testing.T) {
			t.Parallel()
			if got := ParseBoolean(tc.raw); got != tc.want {
				t.Fatalf("ParseBoolean(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		want        float64
		wantInteger bool
	}{
		{name: "Integer", raw: "42", want: 42, wantInteger: true},
		{name: "Zero", raw: "0", want: 0, wantInteger: true},
		{name: "NegativeInteger", raw: "-1", want: -1, wantInteger: true},
		{name: "PlusSign", raw: "+7", want: 7, wantInteger: true},
		{name: "LeadingZeroInteger", raw: "007", want: 7, wantInteger: true},
		{name: "Fraction", raw: "3.14", want: 3.14},
		{name: "Quarter", raw: "0.25", want: 0.25},
		{name: "LeadingZeroFraction", raw: "0.05", want: 0.05},
		{name: "ZeroFraction", raw: "1.00", want: 1.0},
		{name: "LongFraction", raw: "3.1415", want: 3.1415},
		{name: "NegativeFraction", raw: "-1.5", want: -1.5},
		{name: "NegativeBelowOne", raw: "-0.5", want: -0.5},
		{name: "EmptyIntegerPart", raw: ".5", want: 0.5},
		{name: "LearningRate", raw: "0.001", want: 0.001},
		{name: "EmptyFractionalPart", raw: "1.", want: 1.0},
		{name: "NegativeEmptyFractionalPart", raw: "-3.", want: -3.0},
		{name: "TwentyDigitInteger", raw: "99999999999999999999", want: 1e20, wantInteger: true},
		{name: "NineteenZeroFraction", raw: "1.0000000000000000000", want: 1.0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseNumber(tc.raw)
			if err != nil {
				t.Fatalf("ParseNumber(%q) returned error: %v", tc.raw, err)
			}
			if got.Float64() != tc.want {
				t.Fatalf("ParseNumber(%q) = %v, want %v", tc.raw, got.Float64(), tc.want)
			}
			if got.IsInteger() != tc.wantInteger {
				t.Fatalf("ParseNumber(%q).IsInteger() = %v, want %v", tc.raw, got.IsInteger(), tc.wantInteger)
			}
		})
	}
}

func TestParseNumber_InvalidFormat(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		"1.2.3",
		"..",
		".",
		"-.",
		"+.",
		"-",
		"+",
		"abc",
		"1e5",
		"1,5",
		" 1",
		"1 ",
		"--1",
		"1.-5",
		"1.+5",
		"0x10",
		"1_000",
	}

	for _, raw := range invalid {
		raw := raw
		t.Run(strconv.Quote(raw), func(t *testing.T) {
			t.Parallel()

			_, err := ParseNumber(raw)
			if !errors.Is(err, ErrInvalidNumberFormat) {
				t.Fatalf("expected ErrInvalidNumberFormat for %q, got %v", raw, err)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected *FormatError for %q, got %T", raw, err)
			}
			if formatErr.Input != raw {
				t.Fatalf("expected input %q recorded, got %q", raw, formatErr.Input)
			}
		})
	}
}

func TestParseNumber_RoundTrip(t *testing.T) {
	t.Parallel()

	integers := []int64{0, 1, 7, 42, 123, 9999, 1_000_000}
	fractions := []string{"0", "5", "05", "25", "125", "001", "999", "0001"}

	for _, n := range integers {
		for _, f := range fractions {
			raw := fmt.Sprintf("%d.%s", n, f)
			got, err := ParseNumber(raw)
			if err != nil {
				t.Fatalf("ParseNumber(%q) returned error: %v", raw, err)
			}

			fracValue, _ := strconv.ParseInt(f, 10, 64)
			want := float64(n) + float64(fracValue)/math.Pow10(len(f))
			if math.Abs(got.Float64()-want) > 1e-9 {
				t.Fatalf("ParseNumber(%q) = %v, want %v", raw, got.Float64(), want)
			}
		}
	}
}

func TestParseNumber_RoundTripBeyondInt64(t *testing.T) {
	t.Parallel()

	// Float64 rounds the exact quotient once, so it must agree bit for bit
	// with a correctly rounded decimal parse.
	inputs := []string{
		"1.0000000000000000000",
		"0.12345678901234567890",
		"9223372036854775807.5",
		"9223372036854775808",
		"-9223372036854775809.25",
		"12345678901234567890.1234567890123456789",
		"0.0000000000000000000000000001",
		"99999999999999999999",
	}

	for _, raw := range inputs {
		got, err := ParseNumber(raw)
		if err != nil {
			t.Fatalf("ParseNumber(%q) returned error: %v", raw, err)
		}
		want, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			t.Fatalf("strconv.ParseFloat(%q) returned error: %v", raw, err)
		}
		if got.Float64() != want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", raw, got.Float64(), want)
		}
	}
}

func TestNumberInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{raw: "5", want: 5, wantOK: true},
		{raw: "-3", want: -3, wantOK: true},
		{raw: "5.00", want: 5, wantOK: true},
		{raw: "-2.0", want: -2, wantOK: true},
		{raw: "5.5", wantOK: false},
		{raw: "0.0000000000000000001", wantOK: false},
		{raw: "0.0000000000000000000", want: 0, wantOK: true},
		{raw: "1.", want: 1, wantOK: true},
		{raw: "9223372036854775807", want: math.MaxInt64, wantOK: true},
		{raw: "9223372036854775808", wantOK: false},
		{raw: "92233720368547758070.0", wantOK: false},
	}

	for _, tc := range tests {
		n, err := ParseNumber(tc.raw)
		if err != nil {
			t.Fatalf("ParseNumber(%q) returned error: %v", tc.raw, err)
		}
		got, ok := n.Int()
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("Int() for %q = (%d, %v), want (%d, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNumberString(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"42":   "42",
		"1.00": "1.0",
		"0.05": "0.05",
		"-1.5": "-1.5",
		".5":   "0.5",
		"1.":   "1.0",
	}

	for raw, want := range tests {
		n, err := ParseNumber(raw)
		if err != nil {
			t.Fatalf("ParseNumber(%q) returned error: %v", raw, err)
		}
		if got := n.String(); got != want {
			t.Fatalf("String() for %q = %q, want %q", raw, got, want)
		}
		data, err := n.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON returned error: %v", err)
		}
		if string(data) != want {
			t.Fatalf("MarshalJSON for %q = %s, want %s", raw, data, want)
		}
	}
}

func TestNewDelegatesToPackageFunctions(t *testing.T) {
	t.Parallel()

	p := New()
	if !p.ParseBoolean("true") || p.ParseBoolean("false") {
		t.Fatalf("unexpected boolean parsing from Parser")
	}
	n, err := p.ParseNumber("0.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Float64() != 0.25 {
		t.Fatalf("expected 0.25, got %v", n.Float64())
	}
	if _, err := p.ParseNumber("1.2.3"); !errors.Is(err, ErrInvalidNumberFormat) {
		t.Fatalf("expected ErrInvalidNumberFormat, got %v", err)
	}
}

func BenchmarkParseNumberInteger(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseNumber("1024"); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkParseNumberFraction(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseNumber("0.00025"); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
