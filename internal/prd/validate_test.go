package prd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePRD(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "PRD.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("ValidMinimal", func(t *testing.T) {
		result := Validate(writePRD(t, minimalPRD), "")
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
		assert.Equal(t, TypeMinimal, result.Type)
		assert.Equal(t, 3, result.FeatureCount)
		assert.Contains(t, result.SectionsFound, "Problem")
	})

	t.Run("MissingRequiredSection", func(t *testing.T) {
		content := `# App

## Problem
Something is broken and nobody notices for days.

## Features
- [ ] Alerting
`
		result := Validate(writePRD(t, content), "")
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "Missing required section: User")
		assert.Contains(t, result.Errors, "Missing required section: Success Metric")
	})

	t.Run("TooShort", func(t *testing.T) {
		result := Validate(writePRD(t, "# tiny"), "")
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "too short")
	})

	t.Run("UnreadableFile", func(t *testing.T) {
		result := Validate(filepath.Join(t.TempDir(), "absent.md"), "")
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Cannot read file")
	})

	t.Run("ExpectedTypeOverridesDetection", func(t *testing.T) {
		// A minimal-shaped PRD validated as standard fails the extra
		// requirements.
		result := Validate(writePRD(t, minimalPRD), TypeStandard)
		assert.Equal(t, TypeStandard, result.Type)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, "Missing required section: Non-Goals")
	})

	t.Run("EmptySectionWarns", func(t *testing.T) {
		content := minimalPRD + "\n## Notes\n"
		result := Validate(writePRD(t, content), "")
		assert.True(t, result.Valid)
		assert.Contains(t, result.Warnings, `Section "Notes" is empty`)
	})

	t.Run("FullPRDWantsAcceptanceCriteria", func(t *testing.T) {
		content := `# App

## Problem
Deployments break silently.

## Target User
Platform engineers.

## Product Type
cli

## Non-Goals
No web dashboard.

## Technical Constraints
Must run offline.

## Dependencies
None.

## Core Features
1. Detect broken deploys
2. Roll back automatically

## Success Metric
Mean time to recovery under five minutes.
`
		result := Validate(writePRD(t, content), "")
		assert.Equal(t, TypeFull, result.Type)
		assert.True(t, result.Valid)
		assert.Contains(t, result.Warnings, "Full PRD should have acceptance criteria for features")
	})

	t.Run("UnknownProductTypeWarns", func(t *testing.T) {
		content := minimalPRD + "\n## Product Type\nquantum blockchain agent\n"
		result := Validate(writePRD(t, content), "")
		assert.Contains(t, strings.Join(result.Warnings, "\n"), "Product Type not recognized")
	})

	t.Run("PromoteMovesWarningsToErrors", func(t *testing.T) {
		content := minimalPRD + "\n## Notes\n"
		result := Validate(writePRD(t, content), "")
		require.NotEmpty(t, result.Warnings)

		result.Promote()
		assert.Empty(t, result.Warnings)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors, `(strict) Section "Notes" is empty`)
	})
}
