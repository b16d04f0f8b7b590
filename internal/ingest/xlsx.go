package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX tokenizes one worksheet of an Office Open XML workbook.
//
// Cells are read with their display formatting, so date cells arrive in the
// sheet's date format. Fully blank rows are skipped. An empty sheet name
// selects the first sheet. Workbook problems are reported as ParseErrors.
func ReadXLSX(r io.Reader, source, sheet string) (*Table, error) {
	table := newTable(source, FormatXLSX)

	f, err := excelize.OpenReader(r)
	if err != nil {
		table.addError(ErrCodeUnreadable, 0, -1, fmt.Sprintf("failed to open workbook: %v", err))
		return table, nil
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		table.addError(ErrCodeSheetNotFound, 0, -1, "workbook has no sheets")
		return table, nil
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		table.addError(ErrCodeSheetNotFound, 0, -1, fmt.Sprintf("sheet %q not found (available: %s)", sheet, strings.Join(sheets, ", ")))
		return table, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		table.addError(ErrCodeUnreadable, 0, -1, fmt.Sprintf("failed to read sheet %q: %v", sheet, err))
		return table, nil
	}

	for i, cells := range rows {
		if blankRow(cells) {
			continue
		}
		if len(table.Rows) == 0 && len(cells) > 0 {
			cells[0] = strings.TrimPrefix(cells[0], utf8BOM)
		}
		if len(table.Rows) > 0 && len(cells) != len(table.Rows[0]) {
			table.addError(ErrCodeFieldCount, i+1, len(table.Rows),
				fmt.Sprintf("wrong number of fields: got %d, want %d", len(cells), len(table.Rows[0])))
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
