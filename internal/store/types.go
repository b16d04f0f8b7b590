package store

import (
	"database/sql"
	"time"

	"github.com/roach88/copair/internal/ir"
	"github.com/roach88/copair/internal/report"
)

type sql64 = sql.NullInt64

func some(v int64) sql64 {
	return sql64{Int64: v, Valid: true}
}

// Run is one saved report.
type Run struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Report    *report.Report `json:"report"`
}

// RunSummary is the listing view of a run, without pairs or diagnostics.
type RunSummary struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Source      string         `json:"source"`
	InputDigest string         `json:"input_digest"`
	RowsUsed    int            `json:"rows_used"`
	RowsSkipped int            `json:"rows_skipped"`
	PairCount   int            `json:"pair_count"`
	Top         *ir.PairRecord `json:"top,omitempty"`
}
