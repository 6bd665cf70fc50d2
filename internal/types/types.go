// Package types defines core data structures for the bdcheck validator.
package types

import (
	"fmt"
	"sort"
)

// Status represents the current state of an issue
type Status string

// Issue status constants
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusClosed     Status = "closed"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusClosed:
		return true
	}
	return false
}

// Priority domain bounds. Issues created by the planning workflow use
// 1 (urgent) through 3 (backlog); anything else is a data error.
const (
	MinPriority = 1
	MaxPriority = 3
)

// ValidPriority checks if a priority falls inside the allowed domain.
func ValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// Issue represents a trackable work item as reported by the tracker.
// Dependencies are plain issue IDs; every listed ID must reach closed
// before this issue is actionable.
type Issue struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Status       Status   `json:"status,omitempty"`
	Priority     int      `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// SetDefaults applies default values for fields omitted in the tracker's
// JSON output. Call this after json.Unmarshal.
func (i *Issue) SetDefaults() {
	if i.Status == "" {
		i.Status = StatusOpen
	}
}

// Validate checks the fields that must be structurally sound before an
// issue may enter a Graph. Domain checks that are themselves check results
// (priority range) are NOT enforced here; they belong to the invariant
// checker so they can be reported rather than silently dropped.
func (i *Issue) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("issue is missing an id")
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	return nil
}

// Graph is an immutable snapshot of all issues, keyed by ID. It is built
// once per validation run and never mutated by any check.
type Graph map[string]*Issue

// NewGraph builds a Graph from a slice of issues. Later duplicates of the
// same ID win, matching the tracker's last-write semantics.
func NewGraph(issues []*Issue) Graph {
	g := make(Graph, len(issues))
	for _, issue := range issues {
		g[issue.ID] = issue
	}
	return g
}

// IDs returns all issue IDs in lexical order. Checks iterate this instead
// of ranging the map directly so repeated runs produce identical reports.
func (g Graph) IDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OpenCount returns the number of issues whose status is not closed.
func (g Graph) OpenCount() int {
	n := 0
	for _, issue := range g {
		if issue.Status != StatusClosed {
			n++
		}
	}
	return n
}
