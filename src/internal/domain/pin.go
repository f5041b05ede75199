package domain

import (
	"math"
	"strconv"
	"strings"
)

// NormalizePin coerces user input to the canonical numeric form a pin is
// hashed in, so "01111" and "1111.0" both match a pin of 1111.
func NormalizePin(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return "", false
	}
	if value != math.Trunc(value) || value < 0 || value > math.MaxInt32 {
		return "", false
	}

	return strconv.FormatInt(int64(value), 10), true
}

// CanonicalPin is the string form a numeric pin is hashed from.
func CanonicalPin(pin int) string {
	return strconv.Itoa(pin)
}
