// Package harness runs YAML overlap scenarios as executable contract tests.
//
// # Scenario Format
//
//	name: handover
//	description: "Two employees share a week on one project"
//	now: "2024-01-01"          # reference instant for null bounds (optional)
//	header: auto               # auto | always | never (optional)
//	workers: 4                 # force the chunked scan (optional)
//	rows:
//	  - [EmpID, ProjectID, DateFrom, DateTo]
//	  - [1, 100, 2023-01-01, 2023-01-10]
//	  - [2, 100, 2023-01-05, NULL]
//	assertions:
//	  - type: pair_days
//	    low: 1
//	    high: 2
//	    project: 100
//	    days: 6
//	  - type: top_pair
//	    low: 1
//	    high: 2
//	    project: 100
//
// Row cells are taken verbatim from the YAML source, so NULL, dates and
// numbers need no quoting.
//
// # Assertion Types
//
//   - pair_days: the pair has exactly the given total (0 means absent)
//   - pair_count: number of pairs with positive overlap
//   - top_pair: the top pair, optionally with its total
//   - no_top: no qualifying pair exists
//   - diagnostic_count: number of skipped-row diagnostics, optionally of one code
//
// # Deterministic Testing
//
// A scenario without "now" uses DefaultReference, so open bounds resolve the
// same way on every run and golden snapshots stay stable.
package harness
