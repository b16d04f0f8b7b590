package ingest

import "fmt"

// Input formats recognized by Read.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

// ParseErrorCode categorizes tokenizer problems.
type ParseErrorCode string

const (
	// ErrCodeFieldCount indicates a record whose field count differs from the first record.
	ErrCodeFieldCount ParseErrorCode = "FIELD_COUNT"

	// ErrCodeInvalidQuotes indicates malformed CSV quoting; the record is dropped.
	ErrCodeInvalidQuotes ParseErrorCode = "INVALID_QUOTES"

	// ErrCodeUnsupportedFormat indicates a file type that cannot be tokenized.
	ErrCodeUnsupportedFormat ParseErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeSheetNotFound indicates the requested worksheet does not exist.
	ErrCodeSheetNotFound ParseErrorCode = "SHEET_NOT_FOUND"

	// ErrCodeUnreadable indicates a workbook that could not be opened or read.
	ErrCodeUnreadable ParseErrorCode = "UNREADABLE"
)

// ParseError is an upstream tokenizer diagnostic. It is passed through for
// display and never blocks the computation.
type ParseError struct {
	Code ParseErrorCode `json:"code"`

	// Line is the 1-based source line (CSV) or sheet row (xlsx); 0 if unknown.
	Line int `json:"line,omitempty"`

	// Row is the index of the produced table row, or -1 if no row was produced.
	Row int `json:"row"`

	Message string `json:"message"`
}

// Error implements the error interface.
func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Table is the tokenized content of one upload.
type Table struct {
	// Source is the file name the table was read from.
	Source string `json:"source"`

	// Format is the detected input format.
	Format string `json:"format"`

	// Rows holds raw fields, in file order.
	Rows [][]string `json:"rows"`

	// Errors holds tokenizer diagnostics, in file order.
	Errors []ParseError `json:"errors"`
}

func newTable(source, format string) *Table {
	return &Table{
		Source: source,
		Format: format,
		Rows:   [][]string{},
		Errors: []ParseError{},
	}
}

func (t *Table) addError(code ParseErrorCode, line, row int, msg string) {
	t.Errors = append(t.Errors, ParseError{Code: code, Line: line, Row: row, Message: msg})
}
