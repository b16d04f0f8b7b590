package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	topStyle   = color.New(color.FgGreen, color.Bold)
	warnStyle  = color.New(color.FgYellow)
	errStyle   = color.New(color.FgRed)
	faintStyle = color.New(color.Faint)
)

// TextOptions controls WriteText.
type TextOptions struct {
	// Limit caps the pair table; 0 prints every pair.
	Limit int
}

var pairHeader = []string{"EMP 1", "EMP 2", "PROJECT", "DAYS"}

// WriteText renders the report as an aligned table followed by any issues.
// The top pair row is highlighted; color follows color.NoColor.
func WriteText(w io.Writer, r *Report, opts TextOptions) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Source: %s (%s)\n", r.Source, r.Format)
	fmt.Fprintf(&b, "Rows: %d read, %d used, %d skipped\n", r.RowsRead, r.RowsUsed, r.RowsSkipped)
	fmt.Fprintf(&b, "Reference: %s\n", r.Reference.Format(time.RFC3339))
	b.WriteString("\n")

	if r.Top == nil {
		b.WriteString(warnStyle.Sprint(capitalize(r.Summary())) + "\n")
	} else {
		b.WriteString(topStyle.Sprint("Top pair: "+r.Summary()) + "\n")
	}

	pairs := r.Pairs
	if opts.Limit > 0 && len(pairs) > opts.Limit {
		pairs = pairs[:opts.Limit]
	}
	if len(pairs) > 0 {
		rows := make([][]string, 0, len(pairs)+1)
		rows = append(rows, pairHeader)
		for _, p := range pairs {
			rows = append(rows, []string{
				strconv.FormatInt(p.EmployeeLow, 10),
				strconv.FormatInt(p.EmployeeHigh, 10),
				strconv.FormatInt(p.ProjectID, 10),
				strconv.FormatInt(p.TotalDays, 10),
			})
		}
		widths := columnWidths(rows)

		b.WriteString("\n")
		for i, row := range rows {
			line := formatRow(row, widths)
			switch {
			case i == 0:
				line = faintStyle.Sprint(line)
			case r.Top != nil && pairs[i-1] == *r.Top:
				line = topStyle.Sprint(line)
			}
			b.WriteString(line + "\n")
		}
		if hidden := len(r.Pairs) - len(pairs); hidden > 0 {
			fmt.Fprintf(&b, "... %d more\n", hidden)
		}
	}

	if len(r.ParseErrors) > 0 {
		fmt.Fprintf(&b, "\nParse errors (%d):\n", len(r.ParseErrors))
		for _, pe := range r.ParseErrors {
			b.WriteString("  " + errStyle.Sprint(pe.Error()) + "\n")
		}
	}
	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\nSkipped rows (%d):\n", len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			b.WriteString("  " + warnStyle.Sprint(d.String()) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	return widths
}

// formatRow right-aligns numeric columns.
func formatRow(row []string, widths []int) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = fmt.Sprintf("%*s", widths[i], cell)
	}
	return strings.Join(cells, "  ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
