package features

import (
	"context"
	"log/slog"
	"sort"

	"rxcli/pkg/contracts/domain"
)

// Join builds the final feature/label table: a full outer join on product ID
// between the aggregated features and the stock table. A product present in
// stock but absent from transactions keeps zeroed features with its label.
// A product present in transactions but absent from stock has no label
// target and is dropped; every such drop is logged, never silent, and the
// dropped IDs are returned for the run report.
func Join(ctx context.Context, logger *slog.Logger, rows []domain.FeatureRow, stocks []domain.StockRecord, labels map[string]int) ([]domain.FeatureRow, []string) {
	if logger == nil {
		logger = slog.Default()
	}

	stockByID := make(map[string]domain.StockRecord, len(stocks))
	for _, s := range stocks {
		stockByID[s.ProductID] = s
	}

	joined := make([]domain.FeatureRow, 0, len(stocks))
	seen := make(map[string]bool, len(rows))
	var dropped []string

	for _, row := range rows {
		seen[row.ProductID] = true

		stock, ok := stockByID[row.ProductID]
		if !ok {
			logger.WarnContext(ctx, "dropping product with no stock record",
				slog.String("product_id", row.ProductID),
				slog.Int("tx_count", row.TxCount),
			)
			dropped = append(dropped, row.ProductID)
			continue
		}

		row.QtyStock = stock.QtyStock
		row.StockHigh = labels[row.ProductID]
		joined = append(joined, row)
	}

	// Stock-only products still appear as label targets with zeroed
	// features. Marking them seen collapses duplicate stock rows to a
	// single label target.
	for _, s := range stocks {
		if seen[s.ProductID] {
			continue
		}
		seen[s.ProductID] = true
		joined = append(joined, domain.FeatureRow{
			ProductID: s.ProductID,
			QtyStock:  s.QtyStock,
			StockHigh: labels[s.ProductID],
		})
	}

	sort.Slice(joined, func(i, j int) bool {
		return joined[i].ProductID < joined[j].ProductID
	})

	logger.InfoContext(ctx, "joined features with stock labels",
		slog.Int("feature_rows", len(rows)),
		slog.Int("stock_rows", len(stocks)),
		slog.Int("final_rows", len(joined)),
		slog.Int("dropped_products", len(dropped)),
	)

	return joined, dropped
}
