package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "rxcli/internal/errors"
)

// loadWorkbookTable reads the first sheet of an Excel workbook that carries
// a product table, identified by a header row containing a 'kode' column.
// Raw workbook drops from the pharmacy system come in this shape before the
// cleaning step exports CSV.
func loadWorkbookTable(path string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}

		headerRow := findHeaderRow(rows)
		if headerRow < 0 {
			continue
		}

		return &table{
			headers: normalizeHeaders(rows[headerRow]),
			rows:    rows[headerRow+1:],
		}, nil
	}

	return nil, apperrors.NewParsingError(
		fmt.Sprintf("workbook %s has no sheet with a recognizable product table", path), nil)
}

// findHeaderRow scans the first few rows for one that looks like a header
// with the product code column
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		for _, c := range rows[i] {
			if strings.EqualFold(strings.TrimSpace(c), "kode") {
				return i
			}
		}
	}
	return -1
}
