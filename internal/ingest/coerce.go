package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/copair/internal/ir"
	"github.com/roach88/copair/internal/overlap"
)

// Header detection modes for the first table row.
const (
	HeaderAuto   = "auto"
	HeaderAlways = "always"
	HeaderNever  = "never"
)

// CoerceOptions controls row validation.
type CoerceOptions struct {
	// Header is auto, always or never. Empty means auto.
	Header string

	// Parser parses date tokens. Nil uses overlap.DefaultLayouts.
	Parser *overlap.DateParser
}

// Coerced is the typed view of a table.
type Coerced struct {
	// Rows are the valid rows, in table order.
	Rows []ir.Row

	// Diagnostics describe every skipped row, in table order.
	Diagnostics []ir.Diagnostic

	// HeaderSkipped reports whether the first table row was treated as a header.
	HeaderSkipped bool
}

// headerAliases maps folded column names to their canonical field.
var headerAliases = map[string]string{
	"empid":      ir.FieldEmployeeID,
	"employeeid": ir.FieldEmployeeID,
	"employee":   ir.FieldEmployeeID,
	"projectid":  ir.FieldProjectID,
	"project":    ir.FieldProjectID,
	"datefrom":   ir.FieldDateFrom,
	"from":       ir.FieldDateFrom,
	"startdate":  ir.FieldDateFrom,
	"start":      ir.FieldDateFrom,
	"dateto":     ir.FieldDateTo,
	"to":         ir.FieldDateTo,
	"enddate":    ir.FieldDateTo,
	"end":        ir.FieldDateTo,
}

var fieldOrder = [4]string{ir.FieldEmployeeID, ir.FieldProjectID, ir.FieldDateFrom, ir.FieldDateTo}

// foldName normalizes a column title: NFC, case folded, separators removed.
func foldName(s string) string {
	// Casers are stateful; one per call keeps Coerce safe for concurrent use.
	s = cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		}
		return r
	}, s)
}

// LooksLikeHeader reports whether fields name the four expected columns in order.
func LooksLikeHeader(fields []string) bool {
	if len(fields) < len(fieldOrder) {
		return false
	}
	for i, want := range fieldOrder {
		if headerAliases[foldName(fields[i])] != want {
			return false
		}
	}
	return true
}

// ParseID coerces an integer-like field. Integral decimals such as "7.0"
// (common in spreadsheet exports) are accepted.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), nil
}

// Coerce validates every table row into an ir.Row.
//
// A row is skipped, with one diagnostic per problem, when it has fewer than
// four fields, a non-integer id, an unparseable date, or DateFrom after DateTo.
// Extra fields beyond the fourth are ignored.
func Coerce(t *Table, opts CoerceOptions) Coerced {
	out := Coerced{Rows: []ir.Row{}, Diagnostics: []ir.Diagnostic{}}
	rows := t.Rows

	if len(rows) > 0 && skipHeader(rows[0], opts.Header) {
		out.HeaderSkipped = true
	}

	for i, fields := range rows {
		if i == 0 && out.HeaderSkipped {
			continue
		}
		row, diags := coerceRow(i, fields, opts.Parser)
		if len(diags) > 0 {
			out.Diagnostics = append(out.Diagnostics, diags...)
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func skipHeader(first []string, mode string) bool {
	switch mode {
	case HeaderAlways:
		return true
	case HeaderNever:
		return false
	}
	if len(first) < 2 {
		return false
	}
	_, empErr := ParseID(first[0])
	_, projErr := ParseID(first[1])
	return empErr != nil && projErr != nil && LooksLikeHeader(first)
}

func coerceRow(index int, fields []string, parser *overlap.DateParser) (ir.Row, []ir.Diagnostic) {
	if len(fields) < len(fieldOrder) {
		return ir.Row{}, []ir.Diagnostic{{
			Code:    ir.DiagMalformedRow,
			Row:     index,
			Message: fmt.Sprintf("expected %d fields, got %d", len(fieldOrder), len(fields)),
		}}
	}

	var diags []ir.Diagnostic
	row := ir.Row{Index: index}

	ids := [2]*int64{&row.EmployeeID, &row.ProjectID}
	for f, dst := range ids {
		n, err := ParseID(fields[f])
		if err != nil {
			diags = append(diags, ir.Diagnostic{
				Code:    ir.DiagMalformedRow,
				Row:     index,
				Field:   fieldOrder[f],
				Value:   fields[f],
				Message: err.Error(),
			})
			continue
		}
		*dst = n
	}

	bounds := [2]*ir.DateBound{&row.DateFrom, &row.DateTo}
	for j, dst := range bounds {
		f := j + 2
		b, err := parser.ParseBound(fields[f])
		if err != nil {
			diags = append(diags, ir.Diagnostic{
				Code:    ir.DiagUnparseableDate,
				Row:     index,
				Field:   fieldOrder[f],
				Value:   fields[f],
				Message: err.Error(),
			})
			continue
		}
		*dst = b
	}

	if len(diags) == 0 && !row.DateFrom.Open && !row.DateTo.Open && row.DateFrom.At.After(row.DateTo.At) {
		diags = append(diags, ir.Diagnostic{
			Code:    ir.DiagInvertedInterval,
			Row:     index,
			Field:   ir.FieldDateTo,
			Value:   fields[3],
			Message: fmt.Sprintf("DateTo %s is before DateFrom %s", row.DateTo, row.DateFrom),
		})
	}

	return row, diags
}
