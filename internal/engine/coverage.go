package engine

import (
	"fmt"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/types"
)

// Coverage compares the declared requirement count against the number of
// issues actually created. It is a lower-bound heuristic: it cannot detect
// issues mapped to the wrong feature, only gross under-provisioning.
type Coverage struct {
	FeatureCount int `json:"feature_count"`
	IssueCount   int `json:"issue_count"`
}

// Covered reports whether enough issues exist for the declared features.
func (c Coverage) Covered() bool {
	return c.IssueCount >= c.FeatureCount
}

// AuditCoverage computes the coverage comparison for a snapshot.
func AuditCoverage(g types.Graph, featureCount int) Coverage {
	return Coverage{FeatureCount: featureCount, IssueCount: len(g)}
}

func coverageResult(g types.Graph, featureCount int) report.CheckResult {
	result := report.CheckResult{Name: "PRD Mapping", Severity: report.SeverityWarning}

	if featureCount <= 0 {
		result.Passed = true
		result.Message = "Could not parse PRD features"
		return result
	}

	cov := AuditCoverage(g, featureCount)
	if cov.Covered() {
		result.Passed = true
		result.Message = fmt.Sprintf("PRD features: %d, Issues: %d", cov.FeatureCount, cov.IssueCount)
		return result
	}

	result.Passed = false
	result.Message = fmt.Sprintf("PRD has %d features, only %d issues created", cov.FeatureCount, cov.IssueCount)
	return result
}
