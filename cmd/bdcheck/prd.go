package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/bdcheck/internal/prd"
)

var prdTypeFlag string

var prdCmd = &cobra.Command{
	Use:   "prd [path]",
	Short: "Validate a PRD document",
	Long: `Checks that a PRD.md has the required sections for its type and a
parseable feature list.

Types: minimal (Problem, User, Features, Success), standard (+ Product
Type, Non-Goals), full (+ Constraints, Dependencies). Auto-detected
unless --type is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expected, err := prd.ParseType(prdTypeFlag)
		if err != nil {
			return err
		}

		target := pathFlag
		if len(args) > 0 {
			target = args[0]
		}
		path, ok := prd.Find(target)
		if !ok {
			return fmt.Errorf("PRD.md not found under %s (expected PRD.md or docs/PRD.md)", target)
		}
		verbosef("validating %s", path)

		result := prd.Validate(path, expected)
		if cfg.Strict {
			result.Promote()
		}

		if !outputStructured(result) {
			renderPRDResult(path, result)
		}
		if result.Valid {
			exitWith(0)
		}
		exitWith(1)
		return nil
	},
}

func init() {
	prdCmd.Flags().StringVar(&prdTypeFlag, "type", "", "Expected PRD type: minimal, standard, full (default: auto-detect)")
}

func renderPRDResult(path string, result prd.Result) {
	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Println()
	fmt.Printf("%s %s\n", cyan("PRD Validation:"), path)
	fmt.Printf("%s %s\n", cyan("Type:"), result.Type)
	fmt.Printf("%s %d\n", cyan("Features:"), result.FeatureCount)
	fmt.Printf("%s %s\n\n", cyan("Sections:"), strings.Join(result.SectionsFound, ", "))

	for _, e := range result.Errors {
		fmt.Printf("  %s %s\n", red("✗"), e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  %s %s\n", yellow("⚠"), w)
	}
	if len(result.Errors)+len(result.Warnings) > 0 {
		fmt.Println()
	}

	if result.Valid {
		fmt.Printf("%s\n", green("✓ PRD is valid"))
	} else {
		fmt.Printf("%s\n", red(fmt.Sprintf("✗ PRD is invalid (%d error(s))", len(result.Errors))))
	}
}
