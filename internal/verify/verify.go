// Package verify implements the pre-completion verification gate: build,
// test, lint, and format suites per project language, a startup probe, a
// secrets scan, and a manifest dependency check.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/steveyegge/bdcheck/internal/health"
	"github.com/steveyegge/bdcheck/internal/runner"
)

// Language identifies a project toolchain.
type Language string

// Supported project languages.
const (
	LangRust   Language = "rust"
	LangPython Language = "python"
	LangNode   Language = "node"
)

// ParseLanguage validates a --language flag value. Empty means auto-detect.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(s); l {
	case "", LangRust, LangPython, LangNode:
		return l, nil
	default:
		return "", fmt.Errorf("unknown language %q (valid: rust, python, node)", s)
	}
}

// DetectLanguage infers the toolchain from manifest files.
func DetectLanguage(dir string) (Language, bool) {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	}
	switch {
	case exists("Cargo.toml"):
		return LangRust, true
	case exists("pyproject.toml") || exists("setup.py"):
		return LangPython, true
	case exists("package.json"):
		return LangNode, true
	}
	return "", false
}

// Check is one gate outcome. AutoFixable marks failures a formatter or
// linter can repair without a human.
type Check struct {
	Name        string `json:"name"`
	Passed      bool   `json:"passed"`
	Message     string `json:"message"`
	AutoFixable bool   `json:"auto_fixable"`
}

// Report aggregates the gate outcome.
type Report struct {
	Passed  bool    `json:"passed"`
	Checks  []Check `json:"checks"`
	Summary string  `json:"summary"`
}

// Add appends a check and folds its outcome into the verdict.
func (r *Report) Add(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Finish computes the summary line.
func (r *Report) Finish() {
	passed := 0
	for _, c := range r.Checks {
		if c.Passed {
			passed++
		}
	}
	r.Summary = fmt.Sprintf("%d/%d checks passed", passed, len(r.Checks))
}

// step is one tool invocation in a language suite.
type step struct {
	name        string
	cmd         []string
	passMsg     string
	failPrefix  string
	autoFixable bool
	// preferStdout reports the tool's findings from stdout when stderr is
	// empty (cargo writes errors to stderr, pytest and ruff to stdout).
	preferStdout bool
}

func suite(lang Language) []step {
	switch lang {
	case LangRust:
		return []step{
			{name: "tests", cmd: []string{"cargo", "test", "--all"}, passMsg: "All tests passed", failPrefix: "Test failures"},
			{name: "clippy", cmd: []string{"cargo", "clippy", "--all-targets", "--", "-D", "warnings"}, passMsg: "No clippy warnings", failPrefix: "Clippy issues", autoFixable: true},
			{name: "format", cmd: []string{"cargo", "fmt", "--check"}, passMsg: "Code formatted", failPrefix: "Formatting issues (run cargo fmt)", autoFixable: true},
			{name: "build", cmd: []string{"cargo", "build"}, passMsg: "Build succeeded", failPrefix: "Build failed"},
		}
	case LangPython:
		return []step{
			{name: "tests", cmd: []string{"pytest", "-v"}, passMsg: "All tests passed", failPrefix: "Test failures", preferStdout: true},
			{name: "lint", cmd: []string{"ruff", "check", "."}, passMsg: "No lint issues", failPrefix: "Lint issues", autoFixable: true, preferStdout: true},
			{name: "format", cmd: []string{"ruff", "format", "--check", "."}, passMsg: "Code formatted", failPrefix: "Formatting issues (run ruff format)", autoFixable: true},
		}
	case LangNode:
		return []step{
			{name: "tests", cmd: []string{"npm", "test"}, passMsg: "All tests passed", failPrefix: "Test failures", preferStdout: true},
			{name: "lint", cmd: []string{"npm", "run", "lint"}, passMsg: "No lint issues", failPrefix: "Lint issues", autoFixable: true, preferStdout: true},
			{name: "build", cmd: []string{"npm", "run", "build"}, passMsg: "Build succeeded", failPrefix: "Build failed"},
		}
	}
	return nil
}

// Options tunes a gate run.
type Options struct {
	Timeout      time.Duration // per tool invocation
	Port         int           // health endpoint port for the startup probe
	PollInterval time.Duration // delay between health probes
	PollRetries  uint64        // health probe budget
	SkipStartup  bool          // skip the startup probe
	FailFast     bool          // stop after the first failed check
}

// Run executes the full gate for a project: the language suite, the startup
// probe (rust only), and the secrets scan. With FailFast the gate stops at
// the first failure; otherwise every check runs regardless of earlier ones.
func Run(ctx context.Context, dir string, lang Language, opts Options) Report {
	report := Report{Passed: true}

	for _, s := range suite(lang) {
		report.Add(runStep(ctx, dir, opts.Timeout, s))
		if opts.FailFast && !report.Passed {
			report.Finish()
			return report
		}
	}

	if lang == LangRust && !opts.SkipStartup {
		report.Add(checkStartup(ctx, dir, opts))
		if opts.FailFast && !report.Passed {
			report.Finish()
			return report
		}
	}

	report.Add(CheckSecrets(ctx, dir))
	report.Finish()
	return report
}

func runStep(ctx context.Context, dir string, timeout time.Duration, s step) Check {
	res, err := runner.Run(ctx, dir, timeout, s.cmd[0], s.cmd[1:]...)
	if err != nil {
		return Check{Name: s.name, Message: fmt.Sprintf("%s:\n%v", s.failPrefix, err), AutoFixable: s.autoFixable}
	}
	if res.OK() {
		return Check{Name: s.name, Passed: true, Message: s.passMsg, AutoFixable: s.autoFixable}
	}
	if res.TimedOut {
		return Check{Name: s.name, Message: s.failPrefix + ": command timed out", AutoFixable: s.autoFixable}
	}

	detail := res.Stderr
	if s.preferStdout || strings.TrimSpace(detail) == "" {
		detail = res.Stdout
	}
	return Check{
		Name:        s.name,
		Message:     fmt.Sprintf("%s:\n%s", s.failPrefix, strings.TrimSpace(detail)),
		AutoFixable: s.autoFixable,
	}
}

// checkStartup boots the app and polls its health endpoint.
func checkStartup(ctx context.Context, dir string, opts Options) Check {
	app, err := health.Start(ctx, dir, "cargo", "run")
	if err != nil {
		return Check{Name: "startup", Message: fmt.Sprintf("Failed to start app: %v", err)}
	}
	defer app.Stop()

	err = health.Poll(ctx, app, health.HealthURL(opts.Port), opts.PollInterval, opts.PollRetries)
	if err != nil {
		return Check{Name: "startup", Message: fmt.Sprintf("App did not become healthy: %v", err)}
	}
	return Check{Name: "startup", Passed: true, Message: "App starts and /health responds OK"}
}
