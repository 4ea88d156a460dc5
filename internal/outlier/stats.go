package outlier

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values. Zero for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDevPop returns the population standard deviation (divisor N).
// The population convention matches the detector's z-score definition;
// the same divisor is used everywhere in this package.
func StdDevPop(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks. NaN for empty input.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile with linear interpolation for even
// counts. NaN for empty input.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Mode returns the most frequent token. Ties break to the lexicographically
// smallest candidate so the result is deterministic. Empty string for empty
// input.
func Mode(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	best := ""
	bestCount := 0
	for tok, n := range counts {
		if n > bestCount || (n == bestCount && tok < best) {
			best = tok
			bestCount = n
		}
	}
	return best
}
