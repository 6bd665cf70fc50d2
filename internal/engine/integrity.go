package engine

import (
	"fmt"
	"strings"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/types"
)

// IntegrityViolation records a dependency edge whose target does not exist
// in the snapshot.
type IntegrityViolation struct {
	SourceID  string `json:"source_id"`
	MissingID string `json:"missing_id"`
}

func (v IntegrityViolation) String() string {
	return fmt.Sprintf("%s → %s", v.SourceID, v.MissingID)
}

// CheckIntegrity verifies that every dependency ID referenced anywhere in
// the graph is a key of the graph. It collects all violations in a single
// pass over every issue/edge pair, never just the first. Issues are visited
// in lexical ID order and edges in declaration order, so the result is
// deterministic.
func CheckIntegrity(g types.Graph) []IntegrityViolation {
	var violations []IntegrityViolation
	for _, id := range g.IDs() {
		for _, dep := range g[id].Dependencies {
			if _, ok := g[dep]; !ok {
				violations = append(violations, IntegrityViolation{SourceID: id, MissingID: dep})
			}
		}
	}
	return violations
}

func integrityResult(g types.Graph) report.CheckResult {
	violations := CheckIntegrity(g)
	if len(violations) == 0 {
		return report.CheckResult{
			Name:     "Dependencies",
			Passed:   true,
			Message:  "All dependency IDs exist",
			Severity: report.SeverityRequired,
		}
	}

	rendered := make([]string, len(violations))
	for i, v := range violations {
		rendered[i] = v.String()
	}
	return report.CheckResult{
		Name:     "Dependencies",
		Passed:   false,
		Message:  "Invalid dependencies: " + strings.Join(rendered, ", "),
		Severity: report.SeverityRequired,
	}
}
