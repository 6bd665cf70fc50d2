package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/types"
)

// Ready reports whether an issue is currently actionable: not closed, with
// every dependency closed. An issue with no dependencies is vacuously ready.
// A dependency missing from the snapshot counts as not closed; the
// integrity check reports the dangling edge itself.
func Ready(g types.Graph, issue *types.Issue) bool {
	if issue.Status == types.StatusClosed {
		return false
	}
	for _, dep := range issue.Dependencies {
		target, ok := g[dep]
		if !ok || target.Status != types.StatusClosed {
			return false
		}
	}
	return true
}

// ReadyQueue returns all ready issues sorted ascending by (priority, id):
// lower priority number means higher urgency, and the ID tiebreak keeps the
// queue deterministic.
func ReadyQueue(g types.Graph) []*types.Issue {
	var queue []*types.Issue
	for _, id := range g.IDs() {
		if Ready(g, g[id]) {
			queue = append(queue, g[id])
		}
	}
	sort.Slice(queue, func(i, j int) bool {
		if queue[i].Priority != queue[j].Priority {
			return queue[i].Priority < queue[j].Priority
		}
		return queue[i].ID < queue[j].ID
	})
	return queue
}

func readinessResult(g types.Graph) report.CheckResult {
	result := report.CheckResult{Name: "Ready Queue", Severity: report.SeverityWarning}

	if len(g) == 0 {
		// Distinct from a deadlock: there is nothing to do at all.
		result.Passed = true
		result.Message = "No issues to validate"
		return result
	}

	queue := ReadyQueue(g)
	if len(queue) > 0 {
		ids := make([]string, 0, len(queue))
		for _, issue := range queue {
			ids = append(ids, issue.ID)
		}
		result.Passed = true
		result.Message = fmt.Sprintf("Ready queue has %d issue(s): %s", len(queue), strings.Join(ids, ", "))
		return result
	}

	if g.OpenCount() == 0 {
		result.Passed = true
		result.Message = "No open issues (all done)"
		return result
	}

	// Open work exists but nothing is actionable.
	result.Passed = false
	result.Message = "Issues exist but none are ready (all blocked)"
	return result
}
