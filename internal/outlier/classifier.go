package outlier

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"rxcli/pkg/contracts/domain"
)

// Classifier decides whether flagged transactions are data-entry errors or
// legitimate bulk purchases, by comparing each flagged row against the
// per-product price and unit baseline.
type Classifier struct {
	cfg    Config
	logger *slog.Logger
}

// NewClassifier creates a classifier with the given detection config
func NewClassifier(cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// ReferenceStats computes the per-product median price and modal unit over
// the rows NOT flagged by the mask. Excluding flagged rows keeps an outlier
// from skewing its own baseline. A product whose every row is flagged gets
// no entry and its rows later default to legitimate.
func (c *Classifier) ReferenceStats(records []domain.Transaction, mask []bool) (map[string]domain.ReferenceStats, error) {
	if len(mask) != len(records) {
		return nil, fmt.Errorf("mask length %d does not match record count %d", len(mask), len(records))
	}

	prices := make(map[string][]float64)
	units := make(map[string][]string)
	counts := make(map[string]int)

	for i, rec := range records {
		if mask[i] {
			continue
		}
		counts[rec.ProductID]++
		if price, ok := rec.PricePerUnit(); ok {
			prices[rec.ProductID] = append(prices[rec.ProductID], price)
		}
		if rec.Unit != "" {
			units[rec.ProductID] = append(units[rec.ProductID], rec.Unit)
		}
	}

	stats := make(map[string]domain.ReferenceStats, len(counts))
	for productID, n := range counts {
		rs := domain.ReferenceStats{
			ProductID:    productID,
			ModalUnit:    Mode(units[productID]),
			Observations: n,
		}
		if ps := prices[productID]; len(ps) > 0 {
			rs.MedianPrice = Median(ps)
		}
		stats[productID] = rs
	}

	return stats, nil
}

// Classify produces one decision per flagged record. Unflagged records are
// never classified. A flagged row is an error when its unit price deviates
// from the product median by more than the configured relative deviation,
// or when its unit differs from the product's modal unit. A product with no
// baseline cannot be judged and defaults to legitimate.
func (c *Classifier) Classify(ctx context.Context, records []domain.Transaction, mask []bool, stats map[string]domain.ReferenceStats) ([]domain.Classification, error) {
	if len(mask) != len(records) {
		return nil, fmt.Errorf("mask length %d does not match record count %d", len(mask), len(records))
	}

	var decisions []domain.Classification
	for i, rec := range records {
		if !mask[i] {
			continue
		}
		decisions = append(decisions, c.classifyRecord(ctx, i, rec, stats))
	}

	c.logger.InfoContext(ctx, "classified flagged transactions",
		slog.Int("flagged", len(decisions)),
		slog.Int("errors", countErrors(decisions)),
	)

	return decisions, nil
}

// classifyRecord evaluates the price and unit rules for one flagged row
func (c *Classifier) classifyRecord(ctx context.Context, index int, rec domain.Transaction, stats map[string]domain.ReferenceStats) domain.Classification {
	decision := domain.Classification{
		Index:     index,
		ProductID: rec.ProductID,
		Unit:      rec.Unit,
		Decision:  domain.DecisionLegitimate,
	}

	ref, ok := stats[rec.ProductID]
	if !ok {
		// First-ever observation for this product: insufficient evidence
		c.logger.DebugContext(ctx, "no reference stats for product, keeping row",
			slog.String("product_id", rec.ProductID),
			slog.Int("index", index),
		)
		return decision
	}

	decision.ModalUnit = ref.ModalUnit
	decision.MedianPrice = ref.MedianPrice

	if ref.HasPriceBaseline() {
		if price, hasPrice := rec.PricePerUnit(); hasPrice {
			decision.PricePerUnit = price
			decision.PriceDeviation = math.Abs(price-ref.MedianPrice) / ref.MedianPrice
			decision.PriceEvaluated = true
		}
	}

	decision.UnitMismatch = ref.ModalUnit != "" && rec.Unit != ref.ModalUnit

	priceError := decision.PriceEvaluated && decision.PriceDeviation > c.cfg.PriceDeviation
	if priceError || decision.UnitMismatch {
		decision.Decision = domain.DecisionError
	}

	return decision
}

func countErrors(decisions []domain.Classification) int {
	n := 0
	for _, d := range decisions {
		if d.IsError() {
			n++
		}
	}
	return n
}
