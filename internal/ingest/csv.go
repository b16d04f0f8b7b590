package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the first field; spreadsheet CSV exports often carry it.
const utf8BOM = "\ufeff"

// ReadCSV tokenizes comma-separated input.
//
// Records whose field count differs from the first record are kept and
// reported as FIELD_COUNT. Records with broken quoting are dropped and
// reported as INVALID_QUOTES. Only I/O failures are returned as errors.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	table := newTable(source, FormatCSV)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	cr.TrimLeadingSpace = true

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("read csv: %w", err)
			}
			if !errors.Is(pe.Err, csv.ErrFieldCount) {
				table.addError(ErrCodeInvalidQuotes, pe.StartLine, -1, pe.Err.Error())
				continue
			}
			// Field count mismatches still yield the record.
			table.addError(ErrCodeFieldCount, pe.StartLine, len(table.Rows), pe.Err.Error())
		}

		if len(table.Rows) == 0 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
