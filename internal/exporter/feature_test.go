package exporter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcli/pkg/contracts/domain"
)

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"kode", "qty"},
		[][]string{{"A1", "5"}, {"A2", "7"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "expected UTF-8 BOM")
	assert.Contains(t, content, "kode;qty")
	assert.Contains(t, content, "A1;5")
}

func TestCSVWriter_CreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	err := w.WriteSimpleCSV(filepath.Join("nested", "deep", "out.csv"), []string{"h"}, nil)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "nested", "deep", "out.csv"))
}

func TestCSVWriter_CustomDelimiter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	err := w.WriteCSV("out.csv", WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}},
		Delimiter: ',',
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "a,b")
}

func TestFeatureExporter_WriteFeatureTable(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e := NewFeatureExporter(dir, nil)

	rows := []domain.FeatureRow{
		{ProductID: "A1", SumQtyIn: 10, SumQtyOut: 4.5, SumValueIn: 100, SumValueOut: 45, TxCount: 3, QtyStock: 80, StockHigh: 1},
		{ProductID: "A2", TxCount: 0, QtyStock: 5, StockHigh: 0},
	}

	require.NoError(t, e.WriteFeatureTable(ctx, rows))

	csvData, err := os.ReadFile(filepath.Join(dir, "features.csv"))
	require.NoError(t, err)
	content := string(csvData)
	assert.Contains(t, content, "kode;qty_msk;qty_klr;nilai_msk;nilai_klr;tx_count;qty_stok;stock_high")
	assert.Contains(t, content, "A1;10;4.5;100;45;3;80;1")
	assert.Contains(t, content, "A2;0;0;0;0;0;5;0")

	jsonData, err := os.ReadFile(filepath.Join(dir, "features.json"))
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonData, &envelope))
	assert.Equal(t, float64(2), envelope["count"])
	assert.Equal(t, "feature_table_v1", envelope["format"])
	assert.NotEmpty(t, envelope["generated_at"])
}

func TestFeatureExporter_WriteDecisionLog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e := NewFeatureExporter(dir, nil)

	decisions := []domain.Classification{
		{
			Index:          2,
			ProductID:      "A1",
			Decision:       domain.DecisionError,
			PricePerUnit:   5000,
			MedianPrice:    5,
			PriceDeviation: 999,
			PriceEvaluated: true,
			Unit:           "box",
			ModalUnit:      "box",
		},
	}

	require.NoError(t, e.WriteDecisionLog(ctx, decisions))

	data, err := os.ReadFile(filepath.Join(dir, "decisions.csv"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "2;A1;error;5000;5;999;true;box;box;false")
}

func TestFeatureExporter_WriteDetectionReport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e := NewFeatureExporter(dir, nil)

	report := DetectionReport{
		Method:         "zscore",
		Threshold:      3.0,
		TotalRows:      100,
		FlaggedRows:    4,
		ErrorRows:      1,
		LegitimateRows: 3,
		FinalRows:      99,
	}

	require.NoError(t, e.WriteDetectionReport(ctx, report))

	data, err := os.ReadFile(filepath.Join(dir, "outlier_report.json"))
	require.NoError(t, err)

	var got DetectionReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "zscore", got.Method)
	assert.Equal(t, 4, got.FlaggedRows)
	assert.Equal(t, 99, got.FinalRows)
	assert.False(t, got.GeneratedAt.IsZero())
}
