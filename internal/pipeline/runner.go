package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rxcli/internal/config"
	"rxcli/internal/dataprocessing"
	"rxcli/internal/exporter"
	"rxcli/internal/features"
	"rxcli/internal/infrastructure"
	"rxcli/internal/outlier"
	"rxcli/pkg/contracts/domain"
)

// Runner executes the full anomaly pipeline: load, detect, classify,
// reconcile, aggregate, label, join, export. Each run gets its own ID and
// every stage logs through it.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a pipeline runner
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Result summarizes a completed pipeline run
type Result struct {
	RunID            string
	TotalRows        int
	FlaggedRows      int
	ErrorRows        int
	FinalRows        int
	ProductCount     int
	DroppedProducts  []string
	StockMedian      float64
	Duration         time.Duration
	FeatureRows      []domain.FeatureRow
	Decisions        []domain.Classification
}

// Run executes the pipeline end to end and writes all artifacts below the
// configured output directory.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)

	detCfg, err := r.detectionConfig()
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "starting anomaly pipeline",
		slog.String("method", string(detCfg.Method)),
		slog.Float64("threshold", detCfg.Threshold),
		slog.Float64("iqr_factor", detCfg.IQRFactor),
		slog.String("transactions_file", r.cfg.Paths.TransactionsFile),
		slog.String("stock_file", r.cfg.Paths.StockFile),
	)

	// Load inputs
	records, err := dataprocessing.LoadTransactions(r.cfg.Paths.TransactionsFile)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	stocks, err := dataprocessing.LoadStock(r.cfg.Paths.StockFile)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}
	r.logger.InfoContext(ctx, "loaded input tables",
		slog.Int("transactions", len(records)),
		slog.Int("stock_rows", len(stocks)),
	)

	// Detect outliers over the quantity-out column
	values := make([]float64, len(records))
	for i, rec := range records {
		values[i] = rec.QtyOut
	}
	mask, err := outlier.Detect(values, detCfg)
	if err != nil {
		return nil, fmt.Errorf("detect outliers: %w", err)
	}

	// Classify flagged rows against the per-product baseline
	classifier := outlier.NewClassifier(detCfg, r.logger)
	stats, err := classifier.ReferenceStats(records, mask)
	if err != nil {
		return nil, fmt.Errorf("compute reference stats: %w", err)
	}
	decisions, err := classifier.Classify(ctx, records, mask, stats)
	if err != nil {
		return nil, fmt.Errorf("classify outliers: %w", err)
	}

	// Reconcile: drop the errors, keep the legitimate bulk purchases
	final := outlier.Reconcile(records, decisions)
	remaining := outlier.RemainingMask(mask, decisions)

	// Aggregate and label
	aggregator := features.NewAggregator(r.logger, r.cfg.Detection.Parallelism)
	rows, err := aggregator.Aggregate(ctx, final)
	if err != nil {
		return nil, fmt.Errorf("aggregate features: %w", err)
	}
	labels, stockMedian, err := features.Label(stocks)
	if err != nil {
		return nil, fmt.Errorf("label stock levels: %w", err)
	}
	joined, dropped := features.Join(ctx, r.logger, rows, stocks, labels)

	// Export artifacts
	exp := exporter.NewFeatureExporter(r.cfg.Paths.OutputDir, r.logger)
	if err := exp.WriteFeatureTable(ctx, joined); err != nil {
		return nil, fmt.Errorf("export feature table: %w", err)
	}
	if err := exp.WriteDecisionLog(ctx, decisions); err != nil {
		return nil, fmt.Errorf("export decision log: %w", err)
	}
	report := exporter.DetectionReport{
		Method:           string(detCfg.Method),
		Threshold:        detCfg.Threshold,
		IQRFactor:        detCfg.IQRFactor,
		TotalRows:        len(records),
		FlaggedRows:      countTrue(mask),
		ErrorRows:        len(records) - len(final),
		LegitimateRows:   countTrue(mask) - (len(records) - len(final)),
		FinalRows:        len(final),
		RemainingFlagged: countTrue(remaining),
		DroppedProducts:  dropped,
	}
	if err := exp.WriteDetectionReport(ctx, report); err != nil {
		return nil, fmt.Errorf("export detection report: %w", err)
	}

	result := &Result{
		RunID:           runID,
		TotalRows:       len(records),
		FlaggedRows:     countTrue(mask),
		ErrorRows:       len(records) - len(final),
		FinalRows:       len(final),
		ProductCount:    len(joined),
		DroppedProducts: dropped,
		StockMedian:     stockMedian,
		Duration:        time.Since(start),
		FeatureRows:     joined,
		Decisions:       decisions,
	}

	r.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("total_rows", result.TotalRows),
		slog.Int("flagged", result.FlaggedRows),
		slog.Int("errors_removed", result.ErrorRows),
		slog.Int("final_rows", result.FinalRows),
		slog.Int("products", result.ProductCount),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// detectionConfig maps the application config onto the detector's value
// config
func (r *Runner) detectionConfig() (outlier.Config, error) {
	method, err := outlier.ParseMethod(r.cfg.Detection.Method)
	if err != nil {
		return outlier.Config{}, err
	}
	return outlier.Config{
		Method:         method,
		Threshold:      r.cfg.Detection.Threshold,
		IQRFactor:      r.cfg.Detection.IQRFactor,
		PriceDeviation: r.cfg.Detection.PriceDeviation,
	}, nil
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
