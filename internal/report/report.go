// Package report aggregates named check outcomes into a single verdict.
//
// Every check contributes exactly one CheckResult; no check may abort the
// run. Only the aggregate verdict maps to the process exit status.
package report

import "fmt"

// Severity classifies how a failed check affects the overall verdict.
type Severity string

// Severity constants
const (
	// SeverityRequired checks fail the run when they fail.
	SeverityRequired Severity = "required"
	// SeverityWarning checks are advisory unless strict mode promotes them.
	SeverityWarning Severity = "warning"
)

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Name     string   `json:"name" yaml:"name"`
	Passed   bool     `json:"passed" yaml:"passed"`
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// Report collects check results and computes the overall verdict.
type Report struct {
	Checks []CheckResult `json:"checks" yaml:"checks"`
	Strict bool          `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// New returns an empty report. When strict is true, warning-severity
// failures are promoted to required failures.
func New(strict bool) *Report {
	return &Report{Strict: strict}
}

// Add appends a check result.
func (r *Report) Add(result CheckResult) {
	r.Checks = append(r.Checks, result)
}

// AddAll appends several check results in order.
func (r *Report) AddAll(results []CheckResult) {
	r.Checks = append(r.Checks, results...)
}

// Passed reports the overall verdict: the logical AND over all required
// checks (and, in strict mode, warnings too).
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if c.Passed {
			continue
		}
		if c.Severity == SeverityRequired || r.Strict {
			return false
		}
	}
	return true
}

// Failures returns the checks that did not pass, regardless of severity.
func (r *Report) Failures() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Warnings returns the failed checks that do not affect the verdict.
func (r *Report) Warnings() []CheckResult {
	var warned []CheckResult
	if r.Strict {
		return warned
	}
	for _, c := range r.Checks {
		if !c.Passed && c.Severity == SeverityWarning {
			warned = append(warned, c)
		}
	}
	return warned
}

// PassCount returns how many checks passed.
func (r *Report) PassCount() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}

// Summary renders the one-line result, e.g. "4/5 checks passed".
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d checks passed", r.PassCount(), len(r.Checks))
}

// ExitCode maps the verdict to the process exit status: 0 on pass, 1 on fail.
func (r *Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}
