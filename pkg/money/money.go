// Package money represents clinic amounts as exact paise values so that
// consultation fees and bill totals never go through floating point.
package money

import (
	"errors"
	"fmt"
	"strings"
)

// Amount is a non-negative monetary value in paise (1/100 of a rupee).
type Amount int64

var (
	// ErrInvalidAmount indicates input that is not a plain decimal number
	// with at most two fractional digits.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount indicates a negative input.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// maxWholeDigits bounds the integer part, matching NUMERIC(10,2) storage.
const maxWholeDigits = 8

// Parse converts a submitted decimal string such as "500", "500.5" or
// "500.00" into an Amount. It rejects signs, exponents, grouping
// separators and more than two fractional digits.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if frac == "" {
			return 0, ErrInvalidAmount
		}
	}
	if whole == "" || len(whole) > maxWholeDigits || len(frac) > 2 {
		return 0, ErrInvalidAmount
	}

	var paise int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		paise = paise*10 + int64(r-'0')
	}
	paise *= 100

	scale := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		paise += int64(r-'0') * scale
		scale /= 10
	}

	return Amount(paise), nil
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	return fmt.Sprintf("%d.%02d", int64(a)/100, int64(a)%100)
}

// Paise returns the raw paise value for persistence.
func (a Amount) Paise() int64 { return int64(a) }
