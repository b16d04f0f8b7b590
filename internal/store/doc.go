// Package store provides SQLite-backed run history for copair.
//
// Each computed report is saved as one run:
//   - runs: one row per report (source, digests, counts, top pair)
//   - pair_records: the ordered pair table of the run
//   - diagnostics: the rows skipped at the input boundary
//
// A run and its children are written in a single transaction. All list
// queries carry an explicit ORDER BY so results are stable across calls.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
