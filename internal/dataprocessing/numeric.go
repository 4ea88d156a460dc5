package dataprocessing

import (
	"strconv"
	"strings"
)

// parseNumberID converts a numeric string in Indonesian ledger format to a
// float64. Thousands may be separated by dots or spaces and the decimal
// separator is a comma:
//
//	"1.234,50" -> 1234.50
//	"2,00"     -> 2.00
//
// Plain machine-formatted numbers ("1234.5") pass through unchanged.
// Empty or unparseable input yields 0, matching the upstream cleaning
// convention of coercing bad numerics to zero.
func parseNumberID(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if strings.Contains(s, ",") {
		// Locale format: strip thousands separators, comma becomes the point
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, " ", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
