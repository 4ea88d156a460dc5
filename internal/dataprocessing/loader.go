package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "rxcli/internal/errors"
	"rxcli/pkg/contracts/domain"
)

// LoadTransactions reads the cleaned purchase table. Semicolon-separated CSV
// is expected with a comma fallback; .xlsx workbooks are read through the
// workbook loader. Header names are normalized to lowercase with
// underscores before column mapping.
func LoadTransactions(path string) ([]domain.Transaction, error) {
	table, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	cols := table.columnIndex()
	kode, ok := cols["kode"]
	if !ok {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("transaction file %s has no 'kode' column", path), nil)
	}

	records := make([]domain.Transaction, 0, len(table.rows))
	for _, row := range table.rows {
		rec := domain.Transaction{
			ProductID: strings.TrimSpace(cell(row, kode)),
			Date:      strings.TrimSpace(cell(row, colOr(cols, "tanggal"))),
			Unit:      strings.TrimSpace(cell(row, colOr(cols, "unit"))),
			QtyIn:     parseNumberID(cell(row, colOr(cols, "qty_msk"))),
			QtyOut:    parseNumberID(cell(row, colOr(cols, "qty_klr"))),
			ValueIn:   parseNumberID(cell(row, colOr(cols, "nilai_msk"))),
			ValueOut:  parseNumberID(cell(row, colOr(cols, "nilai_klr"))),
		}
		if rec.ProductID == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// LoadStock reads the cleaned stock snapshot, one row per product.
func LoadStock(path string) ([]domain.StockRecord, error) {
	table, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	cols := table.columnIndex()
	kode, hasKode := cols["kode"]
	qty, hasQty := cols["qty_stok"]
	if !hasKode || !hasQty {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("stock file %s must contain 'kode' and 'qty_stok' columns", path), nil)
	}

	records := make([]domain.StockRecord, 0, len(table.rows))
	for _, row := range table.rows {
		rec := domain.StockRecord{
			ProductID: strings.TrimSpace(cell(row, kode)),
			Name:      strings.TrimSpace(cell(row, colOr(cols, "nama"))),
			Location:  strings.TrimSpace(cell(row, colOr(cols, "lokasi"))),
			Unit:      strings.TrimSpace(cell(row, colOr(cols, "satuan"))),
			QtyStock:  parseNumberID(cell(row, qty)),
		}
		if rec.ProductID == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// table holds a loaded tabular file: normalized headers plus data rows
type table struct {
	headers []string
	rows    [][]string
}

// columnIndex maps each normalized header to its position
func (t *table) columnIndex() map[string]int {
	idx := make(map[string]int, len(t.headers))
	for i, h := range t.headers {
		idx[h] = i
	}
	return idx
}

// colOr returns the index of an optional column, -1 when absent
func colOr(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// cell returns the value at column index i, empty for out-of-range or
// absent (-1) columns
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// loadTable dispatches on file extension
func loadTable(path string) (*table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbookTable(path)
	default:
		return loadCSVTable(path)
	}
}

// loadCSVTable reads a delimited text file. The cleaned exports use
// semicolons; if the header parses as a single column the file is re-read
// with commas.
func loadCSVTable(path string) (*table, error) {
	t, err := readCSV(path, ';')
	if err != nil {
		return nil, err
	}
	if len(t.headers) <= 1 {
		if retried, err := readCSV(path, ','); err == nil && len(retried.headers) > 1 {
			t = retried
		}
	}
	return t, nil
}

func readCSV(path string, delim rune) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if len(all) == 0 {
		return &table{}, nil
	}

	return &table{
		headers: normalizeHeaders(all[0]),
		rows:    all[1:],
	}, nil
}

// normalizeHeaders lowercases headers and replaces spaces with underscores,
// stripping a UTF-8 BOM if present
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimPrefix(h, "\uFEFF")
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = strings.ReplaceAll(h, " ", "_")
	}
	return headers
}
