package overlap

import (
	"strings"
	"time"
	"unicode"

	"github.com/roach88/copair/internal/ir"
)

// DefaultLayouts are tried in order when parsing a date token.
// Month-first is assumed for slash- and short dash-separated dates;
// "01-02-06" is the default rendering of spreadsheet date cells.
var DefaultLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02.01.2006",
}

// DateParser turns raw date tokens into bounds.
// The zero value uses DefaultLayouts.
type DateParser struct {
	Layouts []string
}

// NewDateParser returns a parser for the given layouts, or DefaultLayouts when none are given.
func NewDateParser(layouts ...string) *DateParser {
	return &DateParser{Layouts: layouts}
}

func (p *DateParser) layouts() []string {
	if p == nil || len(p.Layouts) == 0 {
		return DefaultLayouts
	}
	return p.Layouts
}

// IsNullToken reports whether token, with all whitespace removed, equals "null"
// case-insensitively.
func IsNullToken(token string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)
	return strings.EqualFold(stripped, ir.NullToken)
}

// ParseBound parses one date token. "null" yields an open bound.
// Concrete dates are interpreted in UTC.
func (p *DateParser) ParseBound(token string) (ir.DateBound, error) {
	if IsNullToken(token) {
		return ir.OpenBound(), nil
	}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ir.DateBound{}, &DateError{Code: ErrCodeEmptyDate, Token: token}
	}
	for _, layout := range p.layouts() {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return ir.BoundAt(t), nil
		}
	}
	return ir.DateBound{}, &DateError{Code: ErrCodeUnparseableDate, Token: token}
}

// ParseInstant parses one date token, substituting ref for "null".
func (p *DateParser) ParseInstant(token string, ref time.Time) (time.Time, error) {
	b, err := p.ParseBound(token)
	if err != nil {
		return time.Time{}, err
	}
	return b.Resolve(ref), nil
}

// OverlapDays computes the overlap-day count of two raw token intervals.
// ref is substituted for every "null" token. The first unparseable token is
// returned as a *DateError; no fallback date is ever invented.
func (p *DateParser) OverlapDays(ref time.Time, start1, end1, start2, end2 string) (int64, error) {
	var instants [4]time.Time
	for i, tok := range [4]string{start1, end1, start2, end2} {
		t, err := p.ParseInstant(tok, ref)
		if err != nil {
			return 0, err
		}
		instants[i] = t
	}
	return Days(
		Interval{Start: instants[0], End: instants[1]},
		Interval{Start: instants[2], End: instants[3]},
	), nil
}
