package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcli/internal/config"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testConfig builds a config pointing at temp input files and an isolated
// output directory
func testConfig(t *testing.T, transactions, stock string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths.TransactionsFile = writeInput(t, dir, "pembelian.csv", transactions)
	cfg.Paths.StockFile = writeInput(t, dir, "stok.csv", stock)
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	return cfg
}

const stockTable = "kode;qty_stok\n" +
	"A1;50\n" +
	"A2;150\n" +
	"A3;100\n"

func TestRunner_Run(t *testing.T) {
	// A1 has a bulk purchase (legitimate) and a price typo (error); a low
	// detection threshold makes both flaggable.
	transactions := "kode;qty_msk;qty_klr;nilai_msk;nilai_klr;unit\n" +
		"A1;0;10;0;50;box\n" +
		"A1;0;12;0;60;box\n" +
		"A1;0;11;0;55;box\n" +
		"A1;0;9;0;45;box\n" +
		"A1;0;9999;0;49995;box\n" +
		"A2;0;10;0;30;strip\n" +
		"A3;0;8;0;16;box\n"

	cfg := testConfig(t, transactions, stockTable)
	cfg.Detection.Threshold = 2.0

	result, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 7, result.TotalRows)
	assert.Equal(t, 1, result.FlaggedRows) // only the 9999 row
	// The bulk purchase matches price and unit, so nothing is removed
	assert.Equal(t, 0, result.ErrorRows)
	assert.Equal(t, 7, result.FinalRows)
	assert.Equal(t, 3, result.ProductCount)
	assert.Empty(t, result.DroppedProducts)
	assert.InDelta(t, 100.0, result.StockMedian, 1e-12)

	// Artifacts written
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "features.csv"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "features.json"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "decisions.csv"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "outlier_report.json"))

	// Labels: strictly above median only
	byID := map[string]int{}
	for _, row := range result.FeatureRows {
		byID[row.ProductID] = row.StockHigh
	}
	assert.Equal(t, map[string]int{"A1": 0, "A2": 1, "A3": 0}, byID)
}

func TestRunner_Run_RemovesPriceTypo(t *testing.T) {
	transactions := "kode;qty_msk;qty_klr;nilai_msk;nilai_klr;unit\n" +
		"A1;0;10;0;50;box\n" +
		"A1;0;12;0;60;box\n" +
		"A1;0;11;0;55;box\n" +
		"A1;0;9;0;45;box\n" +
		"A1;0;9000;0;45000000;box\n" + // price 5000 vs median 5
		"A2;0;10;0;30;strip\n" +
		"A3;0;8;0;16;box\n"

	cfg := testConfig(t, transactions, stockTable)
	cfg.Detection.Threshold = 2.0

	result, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.FlaggedRows)
	assert.Equal(t, 1, result.ErrorRows)
	// Cardinality invariant: |final| = |records| - |errors|
	assert.Equal(t, result.TotalRows-result.ErrorRows, result.FinalRows)

	// The A1 aggregate no longer contains the dropped row
	for _, row := range result.FeatureRows {
		if row.ProductID == "A1" {
			assert.Equal(t, 42.0, row.SumQtyOut) // 10+12+11+9
			assert.Equal(t, 4, row.TxCount)
		}
	}
}

func TestRunner_Run_LabelsStableAcrossMethods(t *testing.T) {
	transactions := "kode;qty_msk;qty_klr;nilai_msk;nilai_klr;unit\n" +
		"A1;0;10;0;50;box\n" +
		"A1;0;9999;0;49995;box\n" +
		"A2;0;10;0;30;strip\n" +
		"A3;0;8;0;16;box\n"

	labelsFor := func(method string, threshold float64) map[string]int {
		cfg := testConfig(t, transactions, stockTable)
		cfg.Detection.Method = method
		cfg.Detection.Threshold = threshold

		result, err := NewRunner(cfg, nil).Run(context.Background())
		require.NoError(t, err)

		labels := map[string]int{}
		for _, row := range result.FeatureRows {
			labels[row.ProductID] = row.StockHigh
		}
		return labels
	}

	zscore := labelsFor("zscore", 1.0)
	iqr := labelsFor("iqr", 3.0)
	assert.Equal(t, zscore, iqr)
}

func TestRunner_Run_DropsUnjoinableProduct(t *testing.T) {
	transactions := "kode;qty_msk;qty_klr;nilai_msk;nilai_klr;unit\n" +
		"A1;0;10;0;50;box\n" +
		"AGHOST;0;5;0;25;box\n"

	cfg := testConfig(t, transactions, stockTable)

	result, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"AGHOST"}, result.DroppedProducts)
	for _, row := range result.FeatureRows {
		assert.NotEqual(t, "AGHOST", row.ProductID)
	}
	// Stock-only products still present with zeroed features
	assert.Equal(t, 3, result.ProductCount)
}

func TestRunner_Run_InvalidMethod(t *testing.T) {
	cfg := testConfig(t, "kode;qty_klr\nA1;5\n", stockTable)
	cfg.Detection.Method = "mad"

	_, err := NewRunner(cfg, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_Run_EmptyTransactions(t *testing.T) {
	cfg := testConfig(t, "kode;qty_klr\n", stockTable)

	_, err := NewRunner(cfg, nil).Run(context.Background())
	assert.Error(t, err)
}
