package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// pesewaExponent is the scale between cedis and pesewas (1 GHS = 100 pesewas).
const pesewaExponent = -2

// FormatPesewas renders a pesewa amount as a cedi string with two decimals.
// Example: 1250 returns "12.50", -500 returns "-5.00".
func FormatPesewas(amount int64) string {
	return decimal.New(amount, pesewaExponent).StringFixed(2)
}

// ParseCedis converts a cedi amount such as "12.5" into pesewas.
// Amounts with more than two decimal places are rejected rather than rounded.
func ParseCedis(cedis string) (int64, error) {
	d, err := decimal.NewFromString(cedis)
	if err != nil {
		return 0, fmt.Errorf("invalid cedi amount %q: %w", cedis, err)
	}
	minor := d.Shift(-pesewaExponent)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("cedi amount %q has more than two decimal places", cedis)
	}
	if minor.Abs().GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("cedi amount %q is out of range", cedis)
	}
	return minor.IntPart(), nil
}
