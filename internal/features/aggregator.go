package features

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"rxcli/pkg/contracts/domain"
)

// Aggregator turns reconciled transactions into one feature row per product.
type Aggregator struct {
	logger      *slog.Logger
	parallelism int
}

// NewAggregator creates an aggregator. Parallelism below 2 selects the
// single-pass reference implementation; higher values fan the per-product
// sums out over a bounded worker group. Both paths produce identical output.
func NewAggregator(logger *slog.Logger, parallelism int) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Aggregator{logger: logger, parallelism: parallelism}
}

// Aggregate groups transactions by product and sums quantities, values and
// the row count. Output is sorted by product ID for deterministic export.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.Transaction) ([]domain.FeatureRow, error) {
	a.logger.InfoContext(ctx, "aggregating transactions per product",
		slog.Int("record_count", len(records)),
		slog.Int("parallelism", a.parallelism),
	)

	groups := groupByProduct(records)

	var rows []domain.FeatureRow
	var err error
	if a.parallelism > 1 && len(groups) > 1 {
		rows, err = a.aggregateParallel(ctx, groups)
	} else {
		rows = aggregateSerial(groups)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ProductID < rows[j].ProductID
	})

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("product_count", len(rows)),
	)

	return rows, nil
}

// groupByProduct buckets transactions by product ID
func groupByProduct(records []domain.Transaction) map[string][]domain.Transaction {
	groups := make(map[string][]domain.Transaction)
	for _, rec := range records {
		if rec.ProductID == "" {
			continue
		}
		groups[rec.ProductID] = append(groups[rec.ProductID], rec)
	}
	return groups
}

// aggregateSerial is the reference single-pass implementation
func aggregateSerial(groups map[string][]domain.Transaction) []domain.FeatureRow {
	rows := make([]domain.FeatureRow, 0, len(groups))
	for productID, recs := range groups {
		rows = append(rows, sumProduct(productID, recs))
	}
	return rows
}

// aggregateParallel computes each product's sums concurrently. Every
// product's aggregate is independent of every other's, so the only
// synchronization is the final append.
func (a *Aggregator) aggregateParallel(ctx context.Context, groups map[string][]domain.Transaction) ([]domain.FeatureRow, error) {
	limit := a.parallelism
	if limit > runtime.NumCPU()*2 {
		limit = runtime.NumCPU() * 2
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	rows := make([]domain.FeatureRow, 0, len(groups))

	for productID, recs := range groups {
		productID, recs := productID, recs
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			row := sumProduct(productID, recs)
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// sumProduct computes one product's feature sums
func sumProduct(productID string, recs []domain.Transaction) domain.FeatureRow {
	row := domain.FeatureRow{ProductID: productID}
	for _, rec := range recs {
		row.SumQtyIn += rec.QtyIn
		row.SumQtyOut += rec.QtyOut
		row.SumValueIn += rec.ValueIn
		row.SumValueOut += rec.ValueOut
		row.TxCount++
	}
	return row
}
