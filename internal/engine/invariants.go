package engine

import (
	"fmt"
	"strings"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/types"
)

// InvariantViolation records an issue whose priority falls outside the
// valid domain.
type InvariantViolation struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

func (v InvariantViolation) String() string {
	return fmt.Sprintf("%s: priority=%d", v.ID, v.Priority)
}

// CheckInvariants validates the bounded fields of every issue. It is pure
// and independent of the other checks.
func CheckInvariants(g types.Graph) []InvariantViolation {
	var violations []InvariantViolation
	for _, id := range g.IDs() {
		if p := g[id].Priority; !types.ValidPriority(p) {
			violations = append(violations, InvariantViolation{ID: id, Priority: p})
		}
	}
	return violations
}

func invariantResult(g types.Graph) report.CheckResult {
	violations := CheckInvariants(g)
	if len(violations) == 0 {
		return report.CheckResult{
			Name:     "Priorities",
			Passed:   true,
			Message:  fmt.Sprintf("All priorities valid (%d-%d)", types.MinPriority, types.MaxPriority),
			Severity: report.SeverityRequired,
		}
	}

	rendered := make([]string, len(violations))
	for i, v := range violations {
		rendered[i] = v.String()
	}
	return report.CheckResult{
		Name:     "Priorities",
		Passed:   false,
		Message:  "Invalid priorities: " + strings.Join(rendered, ", "),
		Severity: report.SeverityRequired,
	}
}
