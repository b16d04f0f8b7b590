// Package overlap computes how long pairs of employees worked together.
//
// The aggregator scans every unordered pair of rows (i1 < i2), skips pairs of
// the same employee or of different projects, and folds the overlap-day count
// of each remaining pair into a per-(employee pair, project) total. The pair
// with the greatest cumulative total is tracked incrementally during the fold;
// ties keep the record that reached the maximum first.
//
// # Overlap rule
//
// Intervals are closed calendar ranges expressed as instants. Two intervals
// overlap iff start1 < end2 && end1 > start2, and then contribute
//
//	floor((min(end1, end2) - max(start1, start2)) / 24h) + 1
//
// days. The count is taken from epoch milliseconds, so spans of any length
// are exact. Intervals that only touch at an instant contribute nothing.
//
// A zero-length interval lying inside the other interval, bounds included,
// contributes one day. This departs from the touching rule at the boundary:
// [Jan 1, Jan 10] and [Jan 10, Jan 10] give 1, not 0, so that two identical
// single-day assignments overlap by one day.
//
// # Reference instant
//
// Open bounds ("null" in the input) resolve to one reference instant per
// computation. ComputeAt takes it explicitly; Compute reads it from the
// aggregator's Clock.
//
// The computation holds no state between calls and performs no I/O.
package overlap
