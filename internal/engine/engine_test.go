package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/types"
)

func TestParseFamilies(t *testing.T) {
	t.Parallel()

	t.Run("EmptyMeansAll", func(t *testing.T) {
		selected, err := ParseFamilies(nil)
		require.NoError(t, err)
		assert.True(t, selected[FamilyDependencies])
		assert.True(t, selected[FamilyReadiness])
		assert.True(t, selected[FamilyCoverage])
		assert.True(t, selected[FamilyPriorities])
	})

	t.Run("SingleFamily", func(t *testing.T) {
		selected, err := ParseFamilies([]string{"readiness"})
		require.NoError(t, err)
		assert.True(t, selected[FamilyReadiness])
		assert.False(t, selected[FamilyDependencies])
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseFamilies([]string{"vibes"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vibes")
	})
}

func TestRunAllChecks(t *testing.T) {
	t.Parallel()

	g := types.NewGraph([]*types.Issue{
		{ID: "bd-a", Status: types.StatusClosed, Priority: 1},
		{ID: "bd-b", Status: types.StatusOpen, Priority: 2, Dependencies: []string{"bd-a"}},
	})

	results := Run(context.Background(), g, Options{FeatureCount: 2})
	require.Len(t, results, 5)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
		assert.True(t, r.Passed, "check %s should pass", r.Name)
	}
	assert.Equal(t, []string{"Dependencies", "Circular Deps", "Ready Queue", "Priorities", "PRD Mapping"}, names)
}

func TestRunInvalidPriorityOnlyFailsInvariants(t *testing.T) {
	t.Parallel()

	// Scenario: one issue with priority 7. Only the priority check fails;
	// the structural checks are unaffected.
	g := types.NewGraph([]*types.Issue{
		{ID: "bd-c", Status: types.StatusOpen, Priority: 7},
	})

	results := Run(context.Background(), g, Options{FeatureCount: 1})
	byName := make(map[string]report.CheckResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	require.Contains(t, byName, "Priorities")
	assert.False(t, byName["Priorities"].Passed)
	assert.Contains(t, byName["Priorities"].Message, "bd-c: priority=7")

	assert.True(t, byName["Dependencies"].Passed)
	assert.True(t, byName["Circular Deps"].Passed)
	assert.True(t, byName["Ready Queue"].Passed)
}

func TestRunFamilySelection(t *testing.T) {
	t.Parallel()

	g := types.NewGraph([]*types.Issue{
		{ID: "bd-a", Status: types.StatusOpen, Priority: 7},
	})

	selected, err := ParseFamilies([]string{"dependencies"})
	require.NoError(t, err)

	results := Run(context.Background(), g, Options{Families: selected})
	require.Len(t, results, 2)
	assert.Equal(t, "Dependencies", results[0].Name)
	assert.Equal(t, "Circular Deps", results[1].Name)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	// Same snapshot, two runs: byte-identical output regardless of the
	// concurrent execution order of the checks.
	g := types.NewGraph([]*types.Issue{
		{ID: "bd-a", Status: types.StatusOpen, Priority: 1, Dependencies: []string{"bd-b", "bd-z"}},
		{ID: "bd-b", Status: types.StatusOpen, Priority: 9, Dependencies: []string{"bd-a"}},
		{ID: "bd-c", Status: types.StatusClosed, Priority: 3},
	})

	first, err := json.Marshal(Run(context.Background(), g, Options{FeatureCount: 5}))
	require.NoError(t, err)
	second, err := json.Marshal(Run(context.Background(), g, Options{FeatureCount: 5}))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
