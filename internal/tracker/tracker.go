// Package tracker shells out to the bd issue tracker and converts its JSON
// output into an immutable Graph snapshot. All process handling lives here;
// the checks never talk to the tracker directly.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/steveyegge/bdcheck/internal/types"
)

// ErrStoreUnavailable signals that the bd binary is missing or the issue
// store could not be reached. Callers report it as a failed check instead
// of aborting the run.
var ErrStoreUnavailable = errors.New("issue store unavailable")

// DefaultTimeout bounds a single tracker invocation.
const DefaultTimeout = 30 * time.Second

// Client invokes the bd binary in a working directory.
type Client struct {
	Bin     string
	Dir     string
	Timeout time.Duration
}

// NewClient returns a client that runs "bd" from dir with the default
// timeout.
func NewClient(dir string) *Client {
	return &Client{Bin: "bd", Dir: dir, Timeout: DefaultTimeout}
}

// run executes one tracker subcommand and returns its stdout, stderr, and
// exit code. A missing binary or a start failure maps to
// ErrStoreUnavailable; a timeout maps to context.DeadlineExceeded.
func (c *Client) run(ctx context.Context, args ...string) (stdout, stderr []byte, code int, err error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 -- args are fixed subcommands, never user input
	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Dir = c.Dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout, stderr = outBuf.Bytes(), errBuf.Bytes()

	if runErr == nil {
		return stdout, stderr, 0, nil
	}
	if ctx.Err() != nil {
		return stdout, stderr, -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return stdout, stderr, exitErr.ExitCode(), nil
	}

	// exec.Error covers binary-not-found and permission failures.
	return stdout, stderr, -1, fmt.Errorf("%w: %v", ErrStoreUnavailable, runErr)
}

// LoadStats describes what happened at the load boundary: how many records
// the tracker returned and why any were quarantined.
type LoadStats struct {
	Listed      int
	Quarantined []string
}

// Snapshot runs "bd list --json" and builds a Graph from the result.
// Records that fail to decode or fail structural validation are quarantined
// with a reason rather than poisoning the snapshot; out-of-domain priorities
// pass through so the invariant check can report them.
func (c *Client) Snapshot(ctx context.Context) (types.Graph, LoadStats, error) {
	stdout, stderr, code, err := c.run(ctx, "list", "--json")
	if err != nil {
		return nil, LoadStats{}, err
	}
	if code != 0 {
		return nil, LoadStats{}, fmt.Errorf("%w: bd list exited %d: %s", ErrStoreUnavailable, code, firstLine(stderr))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &raw); err != nil {
		return nil, LoadStats{}, fmt.Errorf("%w: bd list output is not a JSON array: %v", ErrStoreUnavailable, err)
	}

	stats := LoadStats{Listed: len(raw)}
	issues := make([]*types.Issue, 0, len(raw))
	for i, rec := range raw {
		issue := &types.Issue{}
		if err := json.Unmarshal(rec, issue); err != nil {
			stats.Quarantined = append(stats.Quarantined, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		issue.SetDefaults()
		if err := issue.Validate(); err != nil {
			stats.Quarantined = append(stats.Quarantined, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		issues = append(issues, issue)
	}

	return types.NewGraph(issues), stats, nil
}

// ReadyIssues runs "bd ready --json" and returns the IDs the tracker itself
// considers ready. Used to cross-check the local readiness computation.
func (c *Client) ReadyIssues(ctx context.Context) ([]string, error) {
	stdout, stderr, code, err := c.run(ctx, "ready", "--json")
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("%w: bd ready exited %d: %s", ErrStoreUnavailable, code, firstLine(stderr))
	}

	var issues []types.Issue
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &issues); err != nil {
		return nil, fmt.Errorf("%w: bd ready output is not a JSON array: %v", ErrStoreUnavailable, err)
	}

	ids := make([]string, 0, len(issues))
	for _, issue := range issues {
		if issue.ID != "" {
			ids = append(ids, issue.ID)
		}
	}
	return ids, nil
}

// DoctorVerdict is the outcome of the tracker's own consistency check.
type DoctorVerdict int

// Doctor verdicts. NotChecked and Clean are distinct on purpose: a clean
// verdict corroborates the local cycle detector, an absent one says nothing.
const (
	DoctorNotChecked DoctorVerdict = iota
	DoctorClean
	DoctorDirty
)

func (v DoctorVerdict) String() string {
	switch v {
	case DoctorClean:
		return "clean"
	case DoctorDirty:
		return "dirty"
	default:
		return "not checked"
	}
}

// Doctor runs "bd doctor" and classifies its verdict. The verdict is
// corroborating evidence only; the local detector remains the authority on
// cycles. A missing or failing binary yields NotChecked, never an error.
func (c *Client) Doctor(ctx context.Context) (DoctorVerdict, string) {
	stdout, stderr, code, err := c.run(ctx, "doctor")
	if err != nil {
		return DoctorNotChecked, ""
	}

	combined := strings.ToLower(string(stdout) + string(stderr))
	if code != 0 || strings.Contains(combined, "cycle") || strings.Contains(combined, "circular") {
		return DoctorDirty, firstLine(stdout)
	}
	return DoctorClean, ""
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
