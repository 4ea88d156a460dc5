package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	apperrors "rxcli/internal/errors"
	"rxcli/pkg/contracts/domain"
)

// FeatureExporter writes the pipeline's terminal artifacts: the per-product
// feature/label table for the downstream model, the per-outlier decision
// log, and the before/after detection report.
type FeatureExporter struct {
	csv    *CSVWriter
	outDir string
	logger *slog.Logger
}

// NewFeatureExporter creates an exporter writing below outDir
func NewFeatureExporter(outDir string, logger *slog.Logger) *FeatureExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeatureExporter{
		csv:    NewCSVWriter(outDir, logger),
		outDir: outDir,
		logger: logger,
	}
}

// WriteFeatureTable writes the feature/label table as semicolon CSV and as
// JSON with a metadata envelope. Both carry the same rows in the same order.
func (e *FeatureExporter) WriteFeatureTable(ctx context.Context, rows []domain.FeatureRow) error {
	e.logger.InfoContext(ctx, "writing feature table",
		slog.Int("row_count", len(rows)))

	headers := []string{"kode", "qty_msk", "qty_klr", "nilai_msk", "nilai_klr", "tx_count", "qty_stok", "stock_high"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.ProductID,
			formatFloat(row.SumQtyIn),
			formatFloat(row.SumQtyOut),
			formatFloat(row.SumValueIn),
			formatFloat(row.SumValueOut),
			fmt.Sprintf("%d", row.TxCount),
			formatFloat(row.QtyStock),
			fmt.Sprintf("%d", row.StockHigh),
		})
	}

	if err := e.csv.WriteSimpleCSV("features.csv", headers, records); err != nil {
		return apperrors.NewStorageError("failed to write feature table CSV", err)
	}

	return e.writeJSON(ctx, "features.json", map[string]interface{}{
		"products":     rows,
		"count":        len(rows),
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "feature_table_v1",
	})
}

// WriteDecisionLog writes one row per flagged transaction with the evidence
// behind its verdict
func (e *FeatureExporter) WriteDecisionLog(ctx context.Context, decisions []domain.Classification) error {
	e.logger.InfoContext(ctx, "writing decision log",
		slog.Int("decision_count", len(decisions)))

	headers := []string{"index", "kode", "decision", "price_per_unit", "median_price", "price_deviation", "price_evaluated", "unit", "modal_unit", "unit_mismatch"}
	records := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		records = append(records, []string{
			fmt.Sprintf("%d", d.Index),
			d.ProductID,
			string(d.Decision),
			formatFloat(d.PricePerUnit),
			formatFloat(d.MedianPrice),
			formatFloat(d.PriceDeviation),
			fmt.Sprintf("%t", d.PriceEvaluated),
			d.Unit,
			d.ModalUnit,
			fmt.Sprintf("%t", d.UnitMismatch),
		})
	}

	if err := e.csv.WriteSimpleCSV("decisions.csv", headers, records); err != nil {
		return apperrors.NewStorageError("failed to write decision log CSV", err)
	}
	return nil
}

// DetectionReport summarizes one detection run before and after
// reconciliation. It replaces scatter-plot artifacts with a machine-readable
// diagnostic.
type DetectionReport struct {
	Method           string    `json:"method"`
	Threshold        float64   `json:"threshold"`
	IQRFactor        float64   `json:"iqr_factor"`
	TotalRows        int       `json:"total_rows"`
	FlaggedRows      int       `json:"flagged_rows"`
	ErrorRows        int       `json:"error_rows"`
	LegitimateRows   int       `json:"legitimate_rows"`
	FinalRows        int       `json:"final_rows"`
	RemainingFlagged int       `json:"remaining_flagged"`
	DroppedProducts  []string  `json:"dropped_products,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// WriteDetectionReport writes the before/after detection report as JSON
func (e *FeatureExporter) WriteDetectionReport(ctx context.Context, report DetectionReport) error {
	report.GeneratedAt = time.Now()
	e.logger.InfoContext(ctx, "writing detection report",
		slog.Int("flagged", report.FlaggedRows),
		slog.Int("errors", report.ErrorRows))

	return e.writeJSON(ctx, "outlier_report.json", report)
}

// writeJSON writes an indented JSON document below the output directory
func (e *FeatureExporter) writeJSON(ctx context.Context, fileName string, payload interface{}) error {
	path := filepath.Join(e.outDir, fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", fileName), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to encode %s", fileName), err)
	}

	e.logger.InfoContext(ctx, "wrote JSON artifact", slog.String("path", path))
	return nil
}

// formatFloat renders numeric cells without trailing zero noise
func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
