package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rxcli/internal/config"
)

func TestApplyFlags(t *testing.T) {
	t.Run("set flags override config", func(t *testing.T) {
		cfg := config.Default()
		applyFlags(cfg, "in.csv", "stok.csv", "out", "iqr", 2.5, 3.0)

		assert.Equal(t, "in.csv", cfg.Paths.TransactionsFile)
		assert.Equal(t, "stok.csv", cfg.Paths.StockFile)
		assert.Equal(t, "out", cfg.Paths.OutputDir)
		assert.Equal(t, "iqr", cfg.Detection.Method)
		assert.Equal(t, 2.5, cfg.Detection.Threshold)
		assert.Equal(t, 3.0, cfg.Detection.IQRFactor)
	})

	t.Run("unset flags keep config values", func(t *testing.T) {
		cfg := config.Default()
		applyFlags(cfg, "", "", "", "", 0, 0)

		assert.Equal(t, config.Default(), cfg)
	})
}
