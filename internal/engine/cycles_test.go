package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/bdcheck/internal/types"
)

func open(id string, deps ...string) *types.Issue {
	return &types.Issue{ID: id, Status: types.StatusOpen, Priority: 2, Dependencies: deps}
}

func TestDetectCycles(t *testing.T) {
	t.Parallel()

	t.Run("NoCycle", func(t *testing.T) {
		g := types.NewGraph([]*types.Issue{
			open("bd-a"),
			open("bd-b", "bd-a"),
			open("bd-c", "bd-a", "bd-b"),
		})
		assert.Empty(t, DetectCycles(g))
	})

	t.Run("TwoNodeCycle", func(t *testing.T) {
		// Scenario: A depends on B, B depends on A.
		g := types.NewGraph([]*types.Issue{
			open("bd-a", "bd-b"),
			open("bd-b", "bd-a"),
		})
		cycles := DetectCycles(g)
		require.Len(t, cycles, 1)
		assert.Equal(t, Cycle{"bd-a", "bd-b", "bd-a"}, cycles[0])
		assert.Equal(t, "bd-a → bd-b → bd-a", cycles[0].String())
	})

	t.Run("SelfDependency", func(t *testing.T) {
		// A self-reference is a cycle of length 1, never silently dropped.
		g := types.NewGraph([]*types.Issue{
			open("bd-a", "bd-a"),
		})
		cycles := DetectCycles(g)
		require.Len(t, cycles, 1)
		assert.Equal(t, Cycle{"bd-a", "bd-a"}, cycles[0])
	})

	t.Run("DisconnectedComponents", func(t *testing.T) {
		// Two disjoint cycles plus an acyclic island: both cycles reported.
		g := types.NewGraph([]*types.Issue{
			open("bd-a", "bd-b"),
			open("bd-b", "bd-a"),
			open("bd-x", "bd-y"),
			open("bd-y", "bd-z"),
			open("bd-z", "bd-x"),
			open("bd-q"),
		})
		cycles := DetectCycles(g)
		require.Len(t, cycles, 2)
		assert.Equal(t, Cycle{"bd-a", "bd-b", "bd-a"}, cycles[0])
		assert.Equal(t, Cycle{"bd-x", "bd-y", "bd-z", "bd-x"}, cycles[1])
	})

	t.Run("DanglingEdgeIgnored", func(t *testing.T) {
		// Missing targets belong to the integrity check, not this one.
		g := types.NewGraph([]*types.Issue{
			open("bd-a", "bd-missing"),
		})
		assert.Empty(t, DetectCycles(g))
	})

	t.Run("DiamondIsNotACycle", func(t *testing.T) {
		g := types.NewGraph([]*types.Issue{
			open("bd-a"),
			open("bd-b", "bd-a"),
			open("bd-c", "bd-a"),
			open("bd-d", "bd-b", "bd-c"),
		})
		assert.Empty(t, DetectCycles(g))
	})

	t.Run("ResultMessageCarriesFullPath", func(t *testing.T) {
		g := types.NewGraph([]*types.Issue{
			open("bd-a", "bd-b"),
			open("bd-b", "bd-a"),
		})
		res := cycleResult(g)
		assert.False(t, res.Passed)
		assert.Equal(t, "Circular Deps", res.Name)
		assert.Contains(t, res.Message, "bd-a → bd-b → bd-a")
	})
}
