package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/steveyegge/bdcheck/internal/engine"
	"github.com/steveyegge/bdcheck/internal/prd"
	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/tracker"
	"github.com/steveyegge/bdcheck/internal/types"
	"github.com/steveyegge/bdcheck/internal/ui"
)

var (
	checkFlags  []string
	prdPathFlag string
	watchFlag   bool
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Validate the issue dependency graph",
	Long: `Loads the issue graph from bd and runs structural checks: dependency
integrity, circular dependencies, ready work, priorities, and PRD coverage.

Exit code 0 when all required checks pass, 1 otherwise. Warning-level
checks fail the run only with --strict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		families, err := engine.ParseFamilies(checkFlags)
		if err != nil {
			return err
		}
		if watchFlag {
			return watchIssues(cmd.Context(), families)
		}

		rep := validateIssues(cmd.Context(), families)
		renderReport(rep)
		exitWith(rep.ExitCode())
		return nil
	},
}

func init() {
	issuesCmd.Flags().StringSliceVar(&checkFlags, "check", nil, "Check families to run: dependencies, readiness, coverage, priorities, all")
	issuesCmd.Flags().StringVar(&prdPathFlag, "prd", "", "Path to PRD.md for coverage (default: auto-discover)")
	issuesCmd.Flags().BoolVar(&watchFlag, "watch", false, "Re-run validation when the issue store changes")
}

// validateIssues runs one full validation pass. Tracker failures degrade to
// reported checks; this function never aborts a run.
func validateIssues(ctx context.Context, families map[engine.Family]bool) *report.Report {
	rep := report.New(cfg.Strict)

	client := tracker.NewClient(pathFlag)
	client.Bin = cfg.TrackerBin
	client.Timeout = cfg.TrackerTimeout

	g, stats, err := client.Snapshot(ctx)
	storeUp := err == nil
	if !storeUp {
		// Downstream checks still run against an empty snapshot so the
		// report shape stays stable.
		g = types.Graph{}
		rep.Add(report.CheckResult{
			Name:     "Store",
			Passed:   false,
			Message:  err.Error(),
			Severity: report.SeverityWarning,
		})
	}
	verbosef("loaded %d issue(s), %d quarantined", len(g), len(stats.Quarantined))

	if len(stats.Quarantined) > 0 {
		rep.Add(report.CheckResult{
			Name:     "Data Quality",
			Passed:   false,
			Message:  fmt.Sprintf("Quarantined %d malformed record(s): %s", len(stats.Quarantined), strings.Join(stats.Quarantined, "; ")),
			Severity: report.SeverityWarning,
		})
	}

	rep.AddAll(engine.Run(ctx, g, engine.Options{
		Families:     families,
		FeatureCount: resolveFeatureCount(),
	}))

	if storeUp {
		corroborate(ctx, client, g, rep)
	}
	return rep
}

// resolveFeatureCount reads the PRD named by --prd, or the discovered one.
// Zero means no PRD; the coverage check then reports it could not parse
// features instead of failing.
func resolveFeatureCount() int {
	path := prdPathFlag
	if path == "" {
		found, ok := prd.Find(pathFlag)
		if !ok {
			return 0
		}
		path = found
	}
	return prd.FeatureCount(path)
}

// corroborate cross-checks the local analysis against the tracker's own
// views. Disagreements are warnings: the local detector stays authoritative.
func corroborate(ctx context.Context, client *tracker.Client, g types.Graph, rep *report.Report) {
	if trackerReady, err := client.ReadyIssues(ctx); err == nil {
		local := make([]string, 0)
		for _, issue := range engine.ReadyQueue(g) {
			local = append(local, issue.ID)
		}
		sort.Strings(local)
		sort.Strings(trackerReady)
		if !equalIDs(local, trackerReady) {
			rep.Add(report.CheckResult{
				Name:     "Ready Cross-Check",
				Passed:   false,
				Message:  fmt.Sprintf("bd ready reports [%s], local analysis [%s]", strings.Join(trackerReady, ", "), strings.Join(local, ", ")),
				Severity: report.SeverityWarning,
			})
		}
	}

	verdict, detail := client.Doctor(ctx)
	verbosef("bd doctor verdict: %s", verdict)
	if verdict == tracker.DoctorDirty && len(engine.DetectCycles(g)) == 0 {
		rep.Add(report.CheckResult{
			Name:     "Doctor",
			Passed:   false,
			Message:  "bd doctor reports problems the local analysis did not find: " + detail,
			Severity: report.SeverityWarning,
		})
	}
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// reportPayload is the machine-readable report shape.
type reportPayload struct {
	Passed  bool                 `json:"passed" yaml:"passed"`
	Strict  bool                 `json:"strict" yaml:"strict"`
	Checks  []report.CheckResult `json:"checks" yaml:"checks"`
	Summary string               `json:"summary" yaml:"summary"`
}

func renderReport(rep *report.Report) {
	if outputStructured(reportPayload{
		Passed:  rep.Passed(),
		Strict:  rep.Strict,
		Checks:  rep.Checks,
		Summary: rep.Summary(),
	}) {
		return
	}

	fmt.Println()
	fmt.Println(ui.RenderHeader("Issue Validation"))
	for _, c := range rep.Checks {
		fmt.Println("  " + ui.CheckLine(c))
	}
	fmt.Println(ui.RenderSeparator())
	fmt.Println(ui.VerdictLine(rep.Passed(), rep.Summary()))
}

// watchIssues re-runs validation whenever the tracker's data files change.
// Watch mode always exits zero on interrupt; per-run verdicts go to the
// terminal.
func watchIssues(ctx context.Context, families map[engine.Family]bool) error {
	beadsDir := filepath.Join(pathFlag, ".beads")
	if _, err := os.Stat(beadsDir); os.IsNotExist(err) {
		return fmt.Errorf(".beads directory not found under %s", pathFlag)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(beadsDir); err != nil {
		return fmt.Errorf("watch %s: %w", beadsDir, err)
	}

	renderReport(validateIssues(ctx, families))
	notef("\nWatching for changes... (Press Ctrl+C to exit)")

	var debounceTimer *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			notef("\nStopped watching.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			basename := filepath.Base(event.Name)
			if basename != "issues.jsonl" && !strings.HasSuffix(basename, ".db") {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				renderReport(validateIssues(ctx, families))
				notef("\nWatching for changes... (Press Ctrl+C to exit)")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}
