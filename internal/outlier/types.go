package outlier

import (
	"fmt"

	apperrors "rxcli/internal/errors"
)

// Method selects the statistical rule used to flag anomalous values
type Method string

const (
	// MethodZScore flags values whose absolute z-score exceeds the threshold
	MethodZScore Method = "zscore"
	// MethodIQR flags values outside the Tukey fences around the interquartile range
	MethodIQR Method = "iqr"
)

// ParseMethod converts a string to a Method, rejecting unknown values
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodZScore:
		return MethodZScore, nil
	case MethodIQR:
		return MethodIQR, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, s)
	}
}

// Config carries the detection and classification parameters for one run.
// It is always passed by value into the detector and classifier so that
// repeated calls with different settings are safe and side-effect free.
type Config struct {
	Method    Method  `json:"method"`
	Threshold float64 `json:"threshold"`  // z-score cutoff
	IQRFactor float64 `json:"iqr_factor"` // Tukey fence multiplier

	// PriceDeviation is the relative deviation from the per-product median
	// price beyond which a flagged row is treated as a data-entry error.
	PriceDeviation float64 `json:"price_deviation"`
}

// DefaultConfig returns the standard detection parameters
func DefaultConfig() Config {
	return Config{
		Method:         MethodZScore,
		Threshold:      3.0,
		IQRFactor:      1.5,
		PriceDeviation: 0.5,
	}
}

// IsValid checks if the config parameters are usable
func (c Config) IsValid() bool {
	if c.Method != MethodZScore && c.Method != MethodIQR {
		return false
	}
	return c.Threshold > 0 && c.IQRFactor > 0 && c.PriceDeviation > 0
}
