package testutil

import "strings"

// AssignmentHeader is the canonical header row.
var AssignmentHeader = []string{"EmpID", "ProjectID", "DateFrom", "DateTo"}

// CSV joins records into comma-separated lines. Fields are written as given;
// callers needing quotes include them in the field.
func CSV(records ...[]string) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(strings.Join(rec, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// Assignment builds one data record.
func Assignment(emp, project, from, to string) []string {
	return []string{emp, project, from, to}
}
