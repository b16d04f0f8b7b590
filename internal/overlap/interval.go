package overlap

import "time"

// Day is the length of one calendar day used by the day-count formula.
const Day = 24 * time.Hour

// dayMillis is Day in milliseconds. Day counts are taken from epoch
// milliseconds because time.Duration saturates after about 292 years.
const dayMillis = int64(Day / time.Millisecond)

// Interval is a closed range of instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Inverted reports whether the interval ends before it starts.
func (iv Interval) Inverted() bool {
	return iv.End.Before(iv.Start)
}

// ZeroLength reports whether the interval is a single instant.
func (iv Interval) ZeroLength() bool {
	return iv.Start.Equal(iv.End)
}

// contains reports whether t lies in [Start, End].
func (iv Interval) contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// Days returns the number of inclusive days during which both intervals hold.
// Inverted intervals never overlap.
func Days(a, b Interval) int64 {
	if a.Inverted() || b.Inverted() {
		return 0
	}

	if a.Start.Before(b.End) && a.End.After(b.Start) {
		end := a.End
		if b.End.Before(end) {
			end = b.End
		}
		start := a.Start
		if b.Start.After(start) {
			start = b.Start
		}
		return (end.UnixMilli()-start.UnixMilli())/dayMillis + 1
	}

	// Single-day assignments have no extent for the strict rule to see.
	if a.ZeroLength() && b.contains(a.Start) {
		return 1
	}
	if b.ZeroLength() && a.contains(b.Start) {
		return 1
	}
	return 0
}
