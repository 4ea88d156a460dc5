package features

import (
	"fmt"

	apperrors "rxcli/internal/errors"
	"rxcli/internal/outlier"
	"rxcli/pkg/contracts/domain"
)

// Label assigns the binary stock-level label to every product in the stock
// table. The median is taken over the full stock population with linear
// interpolation for even counts, and a product is High (1) only when its
// quantity on hand is strictly greater than that median. The label depends
// on the stock table alone, so it is stable across detection settings.
func Label(stocks []domain.StockRecord) (map[string]int, float64, error) {
	if len(stocks) == 0 {
		return nil, 0, fmt.Errorf("%w: no stock records to label", apperrors.ErrEmptyInput)
	}

	quantities := make([]float64, 0, len(stocks))
	for _, s := range stocks {
		quantities = append(quantities, s.QtyStock)
	}
	median := outlier.Median(quantities)

	labels := make(map[string]int, len(stocks))
	for _, s := range stocks {
		if s.QtyStock > median {
			labels[s.ProductID] = 1
		} else {
			labels[s.ProductID] = 0
		}
	}

	return labels, median, nil
}
