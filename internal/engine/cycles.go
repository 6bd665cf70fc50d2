package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/types"
)

// Cycle is an ordered sequence of issue IDs forming a directed cycle.
// The first and last elements are the same node, so a self-dependency is
// the length-1 cycle [A, A].
type Cycle []string

func (c Cycle) String() string {
	return strings.Join(c, " → ")
}

// DFS colors: unvisited, on the current stack, finished.
const (
	white = iota
	gray
	black
)

// DetectCycles finds every directed cycle in the dependency relation using
// depth-first traversal with three-color marking. A back-edge to a gray
// node yields a cycle reconstructed from the DFS stack, starting and ending
// at the repeated node. Traversal continues after each find, so independent
// cycles in disconnected components are all reported.
//
// Dangling edges are skipped here; they are the integrity check's finding.
// Roots and edges are visited in lexical order for deterministic output.
func DetectCycles(g types.Graph) []Cycle {
	color := make(map[string]int, len(g))
	var stack []string
	var cycles []Cycle

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		deps := append([]string(nil), g[id].Dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			if _, ok := g[dep]; !ok {
				continue
			}
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				// Back-edge id → dep. The cycle is the stack suffix from
				// dep through id, closed with dep again.
				start := len(stack) - 1
				for start >= 0 && stack[start] != dep {
					start--
				}
				if start >= 0 {
					cycle := make(Cycle, 0, len(stack)-start+1)
					cycle = append(cycle, stack[start:]...)
					cycle = append(cycle, dep)
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range g.IDs() {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}

func cycleResult(g types.Graph) report.CheckResult {
	cycles := DetectCycles(g)
	if len(cycles) == 0 {
		return report.CheckResult{
			Name:     "Circular Deps",
			Passed:   true,
			Message:  "No circular dependencies",
			Severity: report.SeverityRequired,
		}
	}

	rendered := make([]string, len(cycles))
	for i, c := range cycles {
		rendered[i] = c.String()
	}
	return report.CheckResult{
		Name:     "Circular Deps",
		Passed:   false,
		Message:  fmt.Sprintf("Found %d circular dependency path(s): %s", len(cycles), strings.Join(rendered, "; ")),
		Severity: report.SeverityRequired,
	}
}
