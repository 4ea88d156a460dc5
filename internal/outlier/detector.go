package outlier

import (
	"fmt"
	"math"

	apperrors "rxcli/internal/errors"
)

// Detect flags anomalous values in a numeric column and returns a boolean
// mask of the same length. The mask depends only on the input values and
// the config, so re-detecting with identical arguments yields an identical
// mask.
func Detect(values []float64, cfg Config) ([]bool, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values to detect outliers in", apperrors.ErrEmptyInput)
	}

	switch cfg.Method {
	case MethodZScore:
		return detectZScore(values, cfg.Threshold), nil
	case MethodIQR:
		return detectIQR(values, cfg.IQRFactor), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, cfg.Method)
	}
}

// detectZScore flags values whose absolute z-score exceeds threshold.
// Uses the population standard deviation. A zero deviation means every
// value is identical and nothing is flagged.
func detectZScore(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))

	mean := Mean(values)
	std := StdDevPop(values)
	if std == 0 {
		return mask
	}

	for i, v := range values {
		if math.Abs(v-mean)/std > threshold {
			mask[i] = true
		}
	}
	return mask
}

// detectIQR flags values outside [Q1 - factor*IQR, Q3 + factor*IQR].
// When IQR is zero both fences collapse onto the shared quantile, so any
// value not exactly equal to it is flagged.
func detectIQR(values []float64, factor float64) []bool {
	mask := make([]bool, len(values))

	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - factor*iqr
	upper := q3 + factor*iqr

	for i, v := range values {
		if v < lower || v > upper {
			mask[i] = true
		}
	}
	return mask
}
