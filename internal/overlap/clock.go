package overlap

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/copair/internal/ir"
)

// Clock supplies the reference instant for open date bounds.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current system time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
// Used by tests and by callers that pin the reference instant (--now).
type FixedClock struct {
	At time.Time
}

// NewFixedClock creates a FixedClock at t.
func NewFixedClock(t time.Time) FixedClock {
	return FixedClock{At: t.UTC()}
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// ParseReference parses a user-supplied reference instant: RFC 3339, or a
// calendar date taken as midnight UTC.
func ParseReference(token string) (time.Time, error) {
	token = strings.TrimSpace(token)
	if t, err := time.Parse(time.RFC3339, token); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(ir.DateLayout, token, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference instant %q: want RFC 3339 or YYYY-MM-DD", token)
	}
	return t, nil
}
