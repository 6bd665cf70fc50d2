// Package engine implements the pure structural analyses over an issue
// graph snapshot: referential integrity, cycle detection, readiness,
// priority invariants, and requirement coverage.
//
// Every check reads the same immutable Graph and produces exactly one
// result; no check mutates the snapshot or observes another check's
// partial state, so the checks may run in parallel.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/bdcheck/internal/report"
	"github.com/steveyegge/bdcheck/internal/telemetry"
	"github.com/steveyegge/bdcheck/internal/types"
)

// Family selects a group of related checks on the command line.
type Family string

// Check family constants
const (
	FamilyDependencies Family = "dependencies" // integrity + cycles
	FamilyReadiness    Family = "readiness"
	FamilyCoverage     Family = "coverage"
	FamilyPriorities   Family = "priorities"
	FamilyAll          Family = "all"
)

// ParseFamilies converts the --check flag values into a family set.
// An empty list or "all" selects everything.
func ParseFamilies(names []string) (map[Family]bool, error) {
	selected := make(map[Family]bool)
	if len(names) == 0 {
		names = []string{string(FamilyAll)}
	}
	for _, name := range names {
		switch f := Family(name); f {
		case FamilyAll:
			selected[FamilyDependencies] = true
			selected[FamilyReadiness] = true
			selected[FamilyCoverage] = true
			selected[FamilyPriorities] = true
		case FamilyDependencies, FamilyReadiness, FamilyCoverage, FamilyPriorities:
			selected[f] = true
		default:
			return nil, fmt.Errorf("unknown check family %q (valid: dependencies, readiness, coverage, priorities, all)", name)
		}
	}
	return selected, nil
}

// Options configures a validation run.
type Options struct {
	// Families selects which checks run. Nil or empty means all.
	Families map[Family]bool

	// FeatureCount is the externally-derived requirement count consumed by
	// the coverage audit. Ignored unless the coverage family is selected.
	FeatureCount int
}

func (o Options) wants(f Family) bool {
	if len(o.Families) == 0 {
		return true
	}
	return o.Families[f]
}

// Run executes the selected checks over the snapshot and returns their
// results in a fixed order. The checks are independent given the snapshot,
// so they run concurrently; the order of the returned slice never varies,
// which keeps repeated runs on an unchanged snapshot byte-identical.
func Run(ctx context.Context, g types.Graph, opts Options) []report.CheckResult {
	type slot struct {
		family Family
		run    func(types.Graph) report.CheckResult
	}

	var slots []slot
	if opts.wants(FamilyDependencies) {
		slots = append(slots,
			slot{FamilyDependencies, integrityResult},
			slot{FamilyDependencies, cycleResult},
		)
	}
	if opts.wants(FamilyReadiness) {
		slots = append(slots, slot{FamilyReadiness, readinessResult})
	}
	if opts.wants(FamilyPriorities) {
		slots = append(slots, slot{FamilyPriorities, invariantResult})
	}
	if opts.wants(FamilyCoverage) {
		slots = append(slots, slot{FamilyCoverage, func(g types.Graph) report.CheckResult {
			return coverageResult(g, opts.FeatureCount)
		}})
	}

	tracer := telemetry.Tracer("engine")
	duration, _ := telemetry.Meter("engine").Float64Histogram(
		"bdcheck.check.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Wall time of one check"),
	)
	results := make([]report.CheckResult, len(slots))

	eg, ctx := errgroup.WithContext(ctx)
	for i, s := range slots {
		eg.Go(func() error {
			_, span := tracer.Start(ctx, "engine.check",
				trace.WithAttributes(attribute.String("check.family", string(s.family))))
			defer span.End()

			start := time.Now()
			results[i] = s.run(g)
			span.SetAttributes(
				attribute.String("check.name", results[i].Name),
				attribute.Bool("check.passed", results[i].Passed),
			)
			duration.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(attribute.String("check.name", results[i].Name)))
			return nil
		})
	}
	_ = eg.Wait() // checks never return errors; they report them

	return results
}
