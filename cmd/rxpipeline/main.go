package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"rxcli/internal/config"
	"rxcli/internal/infrastructure"
	"rxcli/internal/pipeline"
)

func main() {
	inFile := flag.String("in", "", "cleaned transactions file (CSV or XLSX, defaults to configured path)")
	stockFile := flag.String("stok", "", "cleaned stock file (defaults to configured path)")
	outDir := flag.String("out", "", "output directory for feature table and reports")
	method := flag.String("method", "", "outlier detection method: zscore or iqr")
	threshold := flag.Float64("threshold", 0, "z-score cutoff")
	iqrFactor := flag.Float64("iqr-factor", 0, "IQR fence multiplier")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg, *inFile, *stockFile, *outDir, *method, *threshold, *iqrFactor)
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting purchase anomaly pipeline",
		slog.String("transactions_file", cfg.Paths.TransactionsFile),
		slog.String("stock_file", cfg.Paths.StockFile),
		slog.String("output_dir", cfg.Paths.OutputDir),
		slog.String("method", cfg.Detection.Method),
	)

	result, err := pipeline.NewRunner(cfg, logger).Run(context.Background())
	if err != nil {
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Pipeline finished",
		slog.String("run_id", result.RunID),
		slog.Int("transactions", result.TotalRows),
		slog.Int("flagged", result.FlaggedRows),
		slog.Int("removed", result.ErrorRows),
		slog.Int("products", result.ProductCount),
		slog.Duration("duration", result.Duration),
	)
}

// applyFlags overrides configured values with any explicitly set flags
func applyFlags(cfg *config.Config, inFile, stockFile, outDir, method string, threshold, iqrFactor float64) {
	if inFile != "" {
		cfg.Paths.TransactionsFile = inFile
	}
	if stockFile != "" {
		cfg.Paths.StockFile = stockFile
	}
	if outDir != "" {
		cfg.Paths.OutputDir = outDir
	}
	if method != "" {
		cfg.Detection.Method = method
	}
	if threshold > 0 {
		cfg.Detection.Threshold = threshold
	}
	if iqrFactor > 0 {
		cfg.Detection.IQRFactor = iqrFactor
	}
}
