package overlap

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes date-token failures.
type ErrorCode string

const (
	// ErrCodeUnparseableDate indicates a token that is neither "null" nor a date.
	ErrCodeUnparseableDate ErrorCode = "UNPARSEABLE_DATE"

	// ErrCodeEmptyDate indicates an empty or whitespace-only token.
	ErrCodeEmptyDate ErrorCode = "EMPTY_DATE"
)

// DateError reports a date token that could not be turned into an instant.
type DateError struct {
	Code  ErrorCode
	Token string
}

// Error implements the error interface.
func (e *DateError) Error() string {
	if e.Code == ErrCodeEmptyDate {
		return fmt.Sprintf("%s: empty date", e.Code)
	}
	return fmt.Sprintf("%s: cannot parse %q as a date", e.Code, e.Token)
}

// IsUnparseableDate reports whether err is a DateError of any code.
// Uses errors.As to handle wrapped errors.
func IsUnparseableDate(err error) bool {
	var de *DateError
	return errors.As(err, &de)
}
