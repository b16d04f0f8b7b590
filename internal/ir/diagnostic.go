package ir

import "fmt"

// DiagnosticCode categorizes rows skipped at the input boundary.
type DiagnosticCode string

const (
	// DiagMalformedRow marks a row with missing fields or non-integer ids.
	DiagMalformedRow DiagnosticCode = "MALFORMED_ROW"

	// DiagUnparseableDate marks a date token that is neither "null" nor a date.
	DiagUnparseableDate DiagnosticCode = "UNPARSEABLE_DATE"

	// DiagInvertedInterval marks a row whose DateFrom is after its DateTo.
	DiagInvertedInterval DiagnosticCode = "INVERTED_INTERVAL"
)

// Field names used in diagnostics, matching the upload column headers.
const (
	FieldEmployeeID = "EmpID"
	FieldProjectID  = "ProjectID"
	FieldDateFrom   = "DateFrom"
	FieldDateTo     = "DateTo"
)

// Diagnostic describes one row that was excluded from the computation.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Row     int            `json:"row"`             // 0-based table row
	Field   string         `json:"field,omitempty"` // column name, empty for whole-row problems
	Value   string         `json:"value,omitempty"` // offending raw value
	Message string         `json:"message"`
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("row %d: %s: %s (%s=%q)", d.Row, d.Code, d.Message, d.Field, d.Value)
	}
	return fmt.Sprintf("row %d: %s: %s", d.Row, d.Code, d.Message)
}
