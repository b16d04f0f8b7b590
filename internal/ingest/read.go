package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadOptions controls table reading.
type ReadOptions struct {
	// Sheet selects the xlsx worksheet; empty means the first sheet.
	Sheet string
}

// DetectFormat maps a file name to an input format by extension.
// Unknown extensions are read as CSV.
func DetectFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	default:
		return FormatCSV
	}
}

// ReadFile opens path and tokenizes it according to its extension.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), opts)
}

// Read tokenizes r, choosing the reader from name's extension.
//
// Legacy .xls workbooks are not tokenized; they yield an empty table with an
// UNSUPPORTED_FORMAT ParseError.
func Read(r io.Reader, name string, opts ReadOptions) (*Table, error) {
	switch DetectFormat(name) {
	case FormatXLSX:
		return ReadXLSX(r, name, opts.Sheet)
	case FormatXLS:
		table := newTable(name, FormatXLS)
		table.addError(ErrCodeUnsupportedFormat, 0, -1, "legacy .xls workbooks are not supported; save as .xlsx or .csv")
		return table, nil
	default:
		return ReadCSV(r, name)
	}
}
