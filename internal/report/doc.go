// Package report chains input coercion and overlap aggregation into a single
// result document, and renders it for terminals.
//
// A Report is what the CLI prints, what the HTTP server returns, and what the
// run-history store persists.
package report
