package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenDecimals is the fractional precision of the payout token (6 for USDT).
const TokenDecimals = 6

var baseUnitScale = int64(1_000_000)

// ToBaseUnits converts a positive decimal amount string into the integer
// smallest-unit representation, flooring any precision beyond TokenDecimals.
// Flooring, never rounding up: the pool must never overpay due to rounding.
// The parse is string-based so sub-unit digits cannot pick up float noise.
func ToBaseUnits(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("amount must be an unsigned decimal: %q", amount)
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	// Floor: keep at most TokenDecimals fractional digits, drop the rest.
	if len(fracPart) > TokenDecimals {
		fracPart = fracPart[:TokenDecimals]
	}
	frac := int64(0)
	if fracPart != "" {
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		for i := len(fracPart); i < TokenDecimals; i++ {
			frac *= 10
		}
	}

	if whole > (1<<62)/baseUnitScale {
		return 0, fmt.Errorf("amount %q overflows base units", amount)
	}
	return whole*baseUnitScale + frac, nil
}

// FromBaseUnits converts an integer base-unit amount to a display-unit string.
func FromBaseUnits(baseUnits int64) string {
	whole := baseUnits / baseUnitScale
	frac := baseUnits % baseUnitScale
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	s := fmt.Sprintf("%d.%06d", whole, frac)
	return strings.TrimRight(s, "0")
}
