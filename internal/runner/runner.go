// Package runner executes external build and test tools with a hard
// timeout and captured output. The verification gate is the main consumer.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool invocation. Full test suites can be
// slow, so this is deliberately generous.
const DefaultTimeout = 300 * time.Second

// Result captures one finished invocation.
type Result struct {
	Code     int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// OK reports whether the command completed in time with exit code zero.
func (r Result) OK() bool {
	return !r.TimedOut && r.Code == 0
}

// Output returns stdout and stderr joined, trimmed, for display.
func (r Result) Output() string {
	return strings.TrimSpace(r.Stdout + "\n" + r.Stderr)
}

// Run executes name with args in dir and waits for it to finish. A zero
// timeout uses DefaultTimeout. The returned error covers only failures to
// start the process; a non-zero exit or a timeout is reported in Result.
func Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	// #nosec G204 -- name and args come from fixed per-language suites
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.Code = -1
		return res, nil
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.Code = exitErr.ExitCode()
			return res, nil
		}
		return res, runErr
	}
	return res, nil
}

// Available reports whether a tool can be found on PATH. Suites use this to
// skip steps for tools the project does not have installed.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
