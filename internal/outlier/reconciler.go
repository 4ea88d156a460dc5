package outlier

import (
	"rxcli/pkg/contracts/domain"
)

// Reconcile removes every record classified as an error and keeps all other
// records in their original relative order. Records that were never flagged
// are always retained. Running Reconcile again over its own output with no
// new error decisions returns the input unchanged.
func Reconcile(records []domain.Transaction, decisions []domain.Classification) []domain.Transaction {
	drop := make(map[int]bool, len(decisions))
	for _, d := range decisions {
		if d.IsError() {
			drop[d.Index] = true
		}
	}

	final := make([]domain.Transaction, 0, len(records)-len(drop))
	for i, rec := range records {
		if drop[i] {
			continue
		}
		final = append(final, rec)
	}
	return final
}

// RemainingMask rebuilds the outlier mask for the reconciled record set:
// legitimate outliers stay flagged at their new positions, dropped rows
// disappear. Used for the after-reconciliation diagnostic report.
func RemainingMask(mask []bool, decisions []domain.Classification) []bool {
	drop := make(map[int]bool, len(decisions))
	for _, d := range decisions {
		if d.IsError() {
			drop[d.Index] = true
		}
	}

	remaining := make([]bool, 0, len(mask)-len(drop))
	for i, flagged := range mask {
		if drop[i] {
			continue
		}
		remaining = append(remaining, flagged)
	}
	return remaining
}
