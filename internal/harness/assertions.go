package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/copair/internal/ir"
	"github.com/roach88/copair/internal/report"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Pairs    []ir.PairRecord // Computed pairs for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Pairs) > 0 {
		fmt.Fprintf(&buf, "\nComputed pairs:\n")
		for i, p := range e.Pairs {
			fmt.Fprintf(&buf, "  [%d] %s = %d days\n", i+1, p.Key(), p.TotalDays)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against rep and returns the
// failure messages in assertion order.
func EvaluateAssertions(rep *report.Report, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(rep, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(rep *report.Report, a Assertion) error {
	switch a.Type {
	case AssertPairDays:
		return assertPairDays(rep, a)
	case AssertPairCount:
		return assertPairCount(rep, a)
	case AssertTopPair:
		return assertTopPair(rep, a)
	case AssertNoTop:
		return assertNoTop(rep)
	case AssertDiagnosticCount:
		return assertDiagnosticCount(rep, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// findPair returns the total for key, or 0 when the pair never overlapped.
func findPair(pairs []ir.PairRecord, key ir.PairKey) int64 {
	for _, p := range pairs {
		if p.Key() == key {
			return p.TotalDays
		}
	}
	return 0
}

func assertPairDays(rep *report.Report, a Assertion) error {
	key := ir.NewPairKey(a.Low, a.High, a.Project)
	got := findPair(rep.Pairs, key)
	if got == *a.Days {
		return nil
	}
	return &AssertionError{
		Type:     AssertPairDays,
		Expected: fmt.Sprintf("%s = %d days", key, *a.Days),
		Actual:   fmt.Sprintf("%s = %d days", key, got),
		Pairs:    rep.Pairs,
	}
}

func assertPairCount(rep *report.Report, a Assertion) error {
	if len(rep.Pairs) == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertPairCount,
		Expected: fmt.Sprintf("%d pairs", *a.Count),
		Actual:   fmt.Sprintf("%d pairs", len(rep.Pairs)),
		Pairs:    rep.Pairs,
	}
}

func assertTopPair(rep *report.Report, a Assertion) error {
	key := ir.NewPairKey(a.Low, a.High, a.Project)
	expected := key.String()
	if a.Days != nil {
		expected = fmt.Sprintf("%s with %d days", key, *a.Days)
	}

	if rep.Top == nil {
		return &AssertionError{
			Type:     AssertTopPair,
			Expected: expected,
			Actual:   "no top pair",
			Pairs:    rep.Pairs,
		}
	}
	if rep.Top.Key() != key || (a.Days != nil && rep.Top.TotalDays != *a.Days) {
		return &AssertionError{
			Type:     AssertTopPair,
			Expected: expected,
			Actual:   fmt.Sprintf("%s with %d days", rep.Top.Key(), rep.Top.TotalDays),
			Pairs:    rep.Pairs,
		}
	}
	return nil
}

func assertNoTop(rep *report.Report) error {
	if rep.Top == nil {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoTop,
		Expected: "no top pair",
		Actual:   fmt.Sprintf("%s with %d days", rep.Top.Key(), rep.Top.TotalDays),
		Pairs:    rep.Pairs,
	}
}

func assertDiagnosticCount(rep *report.Report, a Assertion) error {
	count := 0
	for _, d := range rep.Diagnostics {
		if a.Code == "" || string(d.Code) == a.Code {
			count++
		}
	}
	if count == *a.Count {
		return nil
	}

	what := "diagnostics"
	if a.Code != "" {
		what = a.Code + " diagnostics"
	}
	return &AssertionError{
		Type:     AssertDiagnosticCount,
		Expected: fmt.Sprintf("%d %s", *a.Count, what),
		Actual:   fmt.Sprintf("%d %s", count, what),
	}
}
