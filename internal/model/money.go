package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a monetary amount in cents. All balances, wagers and prizes are
// integer cents so that bucket arithmetic never accumulates float error.
type Money int64

// ParseMoney parses a decimal amount like "1.50" or "100" into cents.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac, found := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	var cents int64
	if found {
		if len(frac) > 2 {
			return 0, fmt.Errorf("amount %q has sub-cent precision", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents = c
	}

	if w < 0 || strings.HasPrefix(whole, "-") {
		return 0, fmt.Errorf("amount %q is negative", s)
	}

	return Money(w*100 + cents), nil
}

// String renders the amount as a decimal, e.g. 150 -> "1.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MultiplyRounded scales the amount by a float factor, rounding to the
// nearest cent. Used for the fixed prize multiplier.
func (m Money) MultiplyRounded(factor float64) Money {
	return Money(math.Round(float64(m) * factor))
}
