package overlap

import (
	"time"

	"github.com/roach88/copair/internal/ir"
)

// contribution is one positive overlap found between two rows.
type contribution struct {
	key  ir.PairKey
	days int64
}

// accumulator is the fold state: the result set and the best record so far.
type accumulator struct {
	pairs ir.ResultSet
	top   *ir.PairRecord
}

func newAccumulator() *accumulator {
	return &accumulator{pairs: ir.ResultSet{}}
}

// add folds one contribution. The top pair is replaced only when the updated
// cumulative total is strictly greater, so ties keep the earlier record.
func (a *accumulator) add(c contribution) {
	rec := ir.PairRecord{
		EmployeeLow:  c.key.Low,
		EmployeeHigh: c.key.High,
		ProjectID:    c.key.Project,
		TotalDays:    a.pairs[c.key].TotalDays + c.days,
	}
	a.pairs[c.key] = rec

	if a.top == nil || rec.TotalDays > a.top.TotalDays {
		top := rec
		a.top = &top
	}
}

func (a *accumulator) result(ref time.Time) *ir.Result {
	return &ir.Result{Pairs: a.pairs, Top: a.top, Reference: ref}
}

// span is a row with its bounds resolved against the reference instant.
type span struct {
	employee int64
	project  int64
	iv       Interval
}

func resolveRows(rows []ir.Row, ref time.Time) []span {
	out := make([]span, len(rows))
	for i, r := range rows {
		out[i] = span{
			employee: r.EmployeeID,
			project:  r.ProjectID,
			iv: Interval{
				Start: r.DateFrom.Resolve(ref),
				End:   r.DateTo.Resolve(ref),
			},
		}
	}
	return out
}

// scan visits every pair (i1, i2) with lo <= i1 < hi and i1 < i2, in scan
// order, and emits each positive overlap.
func scan(spans []span, lo, hi int, emit func(contribution)) {
	for i1 := lo; i1 < hi; i1++ {
		a := spans[i1]
		for i2 := i1 + 1; i2 < len(spans); i2++ {
			b := spans[i2]
			if a.employee == b.employee || a.project != b.project {
				continue
			}
			if days := Days(a.iv, b.iv); days > 0 {
				emit(contribution{
					key:  ir.NewPairKey(a.employee, b.employee, a.project),
					days: days,
				})
			}
		}
	}
}
