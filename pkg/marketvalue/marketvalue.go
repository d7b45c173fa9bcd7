// Package marketvalue converts human-readable player market values ("€12.5m")
// to and from numbers.
package marketvalue

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the symbol prepended by Format
const Currency = "€"

// ErrOutOfRange is wrapped by ParseError when a value does not fit a float64
var ErrOutOfRange = errors.New("value out of range")

var currencySymbols = []string{"€", "$", "£"}

// Suffix order matters: m is checked before b and k
var magnitudes = []struct {
	suffix string
	factor decimal.Decimal
}{
	{"m", decimal.New(1, 6)},
	{"b", decimal.New(1, 9)},
	{"k", decimal.New(1, 3)},
}

// ParseError is returned when a market value string is not numeric
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid market value %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts a market value such as "€12.5m" into 12500000
// The empty string parses as 0
func Parse(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}

	value := strings.TrimSpace(raw)
	for _, symbol := range currencySymbols {
		if strings.HasPrefix(value, symbol) {
			value = strings.TrimSpace(strings.TrimPrefix(value, symbol))
			break
		}
	}

	factor := decimal.New(1, 0)
	for _, m := range magnitudes {
		if strings.HasSuffix(value, m.suffix) {
			value = strings.TrimSpace(strings.TrimSuffix(value, m.suffix))
			factor = m.factor
			break
		}
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, &ParseError{Raw: raw, Err: err}
	}

	f, _ := d.Mul(factor).Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ParseError{Raw: raw, Err: ErrOutOfRange}
	}
	return f, nil
}

// Format renders a value using the largest applicable magnitude with 2 decimals
// Format(12500000) == "€12.50m"
func Format(value float64) string {
	d := decimal.NewFromFloat(value)

	switch {
	case value >= 1e9:
		return Currency + d.Div(decimal.New(1, 9)).StringFixed(2) + "b"
	case value >= 1e6:
		return Currency + d.Div(decimal.New(1, 6)).StringFixed(2) + "m"
	case value >= 1e3:
		return Currency + d.Div(decimal.New(1, 3)).StringFixed(2) + "k"
	default:
		return Currency + d.StringFixed(2)
	}
}
