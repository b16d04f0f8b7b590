// Package ingest reads uploaded assignment tables and coerces them into rows.
//
// Reading and coercion are separate steps. Readers (CSV, xlsx) only tokenize:
// they return every row they could produce plus a list of ParseErrors, and
// never fail on bad content. Coerce then validates each raw row into an
// ir.Row, reporting rows it cannot use as ir.Diagnostics.
//
// Neither step aborts on bad data; the worst outcome is an empty row set.
package ingest
