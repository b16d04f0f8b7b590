package harness

import "github.com/roach88/copair/internal/report"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the computed report the assertions ran against.
	Report *report.Report `json:"report"`
}

// NewResult creates a new passing result.
func NewResult(rep *report.Report) *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Report: rep,
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
