// Package core holds the card ledger domain types.
//
// This file contains money parsing and arithmetic helpers. Amounts are kept
// in cents (int64) so aggregation stays exact; float64 appears only at the
// serialization boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts a decimal string to signed cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted; a leading minus marks a refund.
//
// Examples:
//
//	ParseAmountToCents("12.34")  -> 1234, nil
//	ParseAmountToCents("12,34")  -> 1234, nil
//	ParseAmountToCents("-5")     -> -500, nil
//	ParseAmountToCents("12.346") -> 1235, nil (rounds up)
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ParseErrorf("empty amount")
	}
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ParseErrorf("malformed amount %q", s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ParseErrorf("malformed amount %q", s)
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ParseErrorf("malformed amount %q", s)
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ParseErrorf("amount %q out of range", s)
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Units returns the amount in currency units as a float64 for display and
// serialization. Use cents for all arithmetic.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Percent returns p percent of m, rounded half up on the cent.
func (m Money) Percent(p int64) Money {
	v := m.Cents * p
	if v >= 0 {
		return Money{Cents: (v + 50) / 100}
	}
	return Money{Cents: (v - 50) / 100}
}

// NextMultiple returns the smallest multiple of step strictly greater than m.
// An amount already on a multiple advances a full step. step must be positive.
func (m Money) NextMultiple(step Money) Money {
	q := m.Cents / step.Cents
	if m.Cents < 0 && m.Cents%step.Cents != 0 {
		q--
	}
	return Money{Cents: (q + 1) * step.Cents}
}
