package prd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalPRD = `# My Project

## Problem
Users cannot track their reading lists.

## Target User
Casual readers with large backlogs.

## MVP Scope
- [ ] Add a book
- [ ] Mark as read
- [x] List books

## Success Metric
A user adds five books in the first session.
`

func TestExtractSections(t *testing.T) {
	t.Parallel()

	sections := ExtractSections(minimalPRD)
	require.Len(t, sections, 5)
	assert.Equal(t, "My Project", sections[0].Name)
	assert.Equal(t, "Problem", sections[1].Name)
	assert.Equal(t, "Users cannot track their reading lists.", sections[1].Content)

	// Document order is preserved.
	assert.Equal(t, "Success Metric", sections[4].Name)
}

func TestDetectType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sections []Section
		want     Type
	}{
		{"BareMinimum", []Section{{Name: "Problem"}, {Name: "Features"}}, TypeMinimal},
		{"NonGoalsImpliesStandard", []Section{{Name: "Problem"}, {Name: "Non-Goals"}}, TypeStandard},
		{"ProductTypeImpliesStandard", []Section{{Name: "Product Type"}}, TypeStandard},
		{"ConstraintsImplyFull", []Section{{Name: "Technical Constraints"}}, TypeFull},
		{"RisksImplyFull", []Section{{Name: "Risks"}, {Name: "Non-Goals"}}, TypeFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.sections))
		})
	}
}

func TestCountFeatures(t *testing.T) {
	t.Parallel()

	t.Run("Checkboxes", func(t *testing.T) {
		sections := ExtractSections(minimalPRD)
		assert.Equal(t, 3, CountFeatures(sections))
	})

	t.Run("NumberedList", func(t *testing.T) {
		sections := []Section{{Name: "Features", Content: "1. one\n2. two\n3. three\n4. four"}}
		assert.Equal(t, 4, CountFeatures(sections))
	})

	t.Run("TakesTheMax", func(t *testing.T) {
		sections := []Section{{Name: "MVP Scope", Content: "### A\n### B\n- [ ] only one"}}
		assert.Equal(t, 2, CountFeatures(sections))
	})

	t.Run("NoFeatureSection", func(t *testing.T) {
		sections := []Section{{Name: "Problem", Content: "1. not a feature"}}
		assert.Equal(t, 0, CountFeatures(sections))
	})
}

func TestFeatureCount(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "PRD.md")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("BoldListItems", func(t *testing.T) {
		path := write(t, "## MVP Features\n1. **Login** users sign in\n2. **Search** full text\n- **Export** to CSV\n")
		assert.Equal(t, 3, FeatureCount(path))
	})

	t.Run("UnparseableFallsBackToDefault", func(t *testing.T) {
		path := write(t, "## Features\nprose only, no list\n")
		assert.Equal(t, DefaultFeatureCount, FeatureCount(path))
	})

	t.Run("MissingFileIsZero", func(t *testing.T) {
		assert.Equal(t, 0, FeatureCount(filepath.Join(t.TempDir(), "nope.md")))
	})
}

func TestFind(t *testing.T) {
	t.Parallel()

	t.Run("DocsLocation", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
		want := filepath.Join(dir, "docs", "PRD.md")
		require.NoError(t, os.WriteFile(want, []byte(minimalPRD), 0o644))

		got, ok := Find(dir)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("DirectFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "requirements.md")
		require.NoError(t, os.WriteFile(path, []byte(minimalPRD), 0o644))

		got, ok := Find(path)
		require.True(t, ok)
		assert.Equal(t, path, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, ok := Find(t.TempDir())
		assert.False(t, ok)
	})
}

func TestParseType(t *testing.T) {
	t.Parallel()

	got, err := ParseType("standard")
	require.NoError(t, err)
	assert.Equal(t, TypeStandard, got)

	got, err = ParseType("")
	require.NoError(t, err)
	assert.Equal(t, Type(""), got)

	_, err = ParseType("huge")
	assert.Error(t, err)
}
