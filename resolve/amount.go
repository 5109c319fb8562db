package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// koinuDecimals is the coin's smallest-unit scale (1 coin = 1e8 koinu).
const koinuDecimals = 8

// ToKoinu converts a decimal coin amount, as the node prints it, to
// koinu. The decimal is normalized to exactly 8 fractional digits as a
// string before integer conversion: multiplying a binary float by 1e8
// and truncating misrounds boundary values like "0.1". Scientific
// notation ("1e-05") is accepted because some nodes emit it for small
// amounts. Returns 0 with an error for anything unparsable.
func ToKoinu(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	mant, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, fmt.Errorf("bad exponent in %q", amount)
		}
		mant, exp = s[:i], e
	}
	neg := false
	switch {
	case strings.HasPrefix(mant, "+"):
		mant = mant[1:]
	case strings.HasPrefix(mant, "-"):
		neg, mant = true, mant[1:]
	}
	whole, frac := mant, ""
	if i := strings.IndexByte(mant, '.'); i >= 0 {
		whole, frac = mant[:i], mant[i+1:]
	}
	digits := whole + frac
	if digits == "" {
		return 0, fmt.Errorf("no digits in %q", amount)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("bad digit in %q", amount)
		}
	}
	// Shift the decimal point: koinu = digits * 10^(exp + 8 - len(frac))
	shift := exp + koinuDecimals - len(frac)
	if shift > 0 {
		digits += strings.Repeat("0", shift)
	} else if shift < 0 {
		// sub-koinu digits are dropped (the node never emits them)
		cut := len(digits) + shift
		if cut < 0 {
			cut = 0
		}
		digits = digits[:cut]
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q out of range", amount)
	}
	if neg {
		return 0, fmt.Errorf("negative amount %q", amount)
	}
	return n, nil
}
