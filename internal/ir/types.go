package ir

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// DateLayout is the calendar-date rendering used for midnight-aligned bounds.
const DateLayout = "2006-01-02"

// NullToken is the literal that marks an open (unbounded) date.
const NullToken = "null"

// DateBound is one end of an assignment interval.
// An open bound stands for the reference instant of the computation.
type DateBound struct {
	At   time.Time
	Open bool
}

// OpenBound returns a bound that resolves to the reference instant.
func OpenBound() DateBound {
	return DateBound{Open: true}
}

// BoundAt returns a concrete bound at t, normalized to UTC.
func BoundAt(t time.Time) DateBound {
	return DateBound{At: t.UTC()}
}

// Resolve returns the concrete instant of the bound, substituting ref when open.
func (b DateBound) Resolve(ref time.Time) time.Time {
	if b.Open {
		return ref
	}
	return b.At
}

// String renders the bound as "null", a calendar date, or RFC 3339.
func (b DateBound) String() string {
	if b.Open {
		return NullToken
	}
	if b.At.Equal(b.At.Truncate(24 * time.Hour)) {
		return b.At.Format(DateLayout)
	}
	return b.At.Format(time.RFC3339)
}

// MarshalJSON encodes the bound as its String form.
func (b DateBound) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// Row is one validated assignment of an employee to a project.
type Row struct {
	// Index is the 0-based position of the row in the source table.
	Index      int       `json:"index"`
	EmployeeID int64     `json:"employee_id"`
	ProjectID  int64     `json:"project_id"`
	DateFrom   DateBound `json:"date_from"`
	DateTo     DateBound `json:"date_to"`
}

// PairKey identifies an unordered employee pair on one project.
// Low is always strictly less than High.
type PairKey struct {
	Low     int64
	High    int64
	Project int64
}

// NewPairKey canonicalizes the employee pair so (a, b) and (b, a) collapse.
func NewPairKey(a, b, project int64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b, Project: project}
}

// String returns the composite key "{low}|{high}|{project}".
func (k PairKey) String() string {
	return fmt.Sprintf("%d|%d|%d", k.Low, k.High, k.Project)
}

// PairRecord is the accumulated overlap between two employees on one project.
type PairRecord struct {
	EmployeeLow  int64 `json:"employee_low"`
	EmployeeHigh int64 `json:"employee_high"`
	ProjectID    int64 `json:"project_id"`
	TotalDays    int64 `json:"total_days"`
}

// Key returns the record's pair key.
func (r PairRecord) Key() PairKey {
	return PairKey{Low: r.EmployeeLow, High: r.EmployeeHigh, Project: r.ProjectID}
}

// ResultSet maps each pair key to its accumulated record.
// Map iteration order is random; use Records for a stable order.
type ResultSet map[PairKey]PairRecord

// Records returns all records ordered by TotalDays descending,
// then by EmployeeLow, EmployeeHigh and ProjectID ascending.
//
// Returns an empty slice (not nil) for an empty set.
func (rs ResultSet) Records() []PairRecord {
	out := make([]PairRecord, 0, len(rs))
	for _, rec := range rs {
		out = append(out, rec)
	}
	slices.SortFunc(out, ComparePairRecords)
	return out
}

// MarshalJSON encodes the set as an ordered list of records.
func (rs ResultSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.Records())
}

// ComparePairRecords orders records for display: most days first.
func ComparePairRecords(a, b PairRecord) int {
	switch {
	case a.TotalDays != b.TotalDays:
		if a.TotalDays > b.TotalDays {
			return -1
		}
		return 1
	case a.EmployeeLow != b.EmployeeLow:
		return cmp.Compare(a.EmployeeLow, b.EmployeeLow)
	case a.EmployeeHigh != b.EmployeeHigh:
		return cmp.Compare(a.EmployeeHigh, b.EmployeeHigh)
	default:
		return cmp.Compare(a.ProjectID, b.ProjectID)
	}
}

// Result is the outcome of one aggregation over a row set.
type Result struct {
	// Pairs holds every pair with positive accumulated overlap.
	Pairs ResultSet `json:"pairs"`

	// Top is the pair with the greatest cumulative overlap, first-seen on ties.
	// Nil means no qualifying pair exists.
	Top *PairRecord `json:"top,omitempty"`

	// Reference is the instant substituted for open date bounds.
	Reference time.Time `json:"reference"`
}

// HasTop reports whether a qualifying pair was found.
func (r *Result) HasTop() bool {
	return r != nil && r.Top != nil
}
