// Package health starts an application under test and polls its health
// endpoint until it answers or the retry budget runs out.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Polling defaults match the verification gate's startup budget: 20 probes
// half a second apart against port 3000.
const (
	DefaultPort     = 3000
	DefaultRetries  = 20
	DefaultInterval = 500 * time.Millisecond
	probeTimeout    = time.Second
)

// ErrExitedEarly reports that the app died before answering the health
// endpoint.
var ErrExitedEarly = errors.New("app exited before becoming healthy")

// App is a managed application process.
type App struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu      sync.Mutex
	waitErr error
	exited  bool

	stderr *prefixBuffer
}

// Start launches name with args in dir. Output is captured so an early
// death can be explained.
func Start(ctx context.Context, dir, name string, args ...string) (*App, error) {
	// #nosec G204 -- name and args come from fixed per-language suites
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	buf := &prefixBuffer{limit: 500}
	cmd.Stdout = buf
	cmd.Stderr = buf

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	app := &App{cmd: cmd, done: make(chan struct{}), stderr: buf}
	go func() {
		err := cmd.Wait()
		app.mu.Lock()
		app.waitErr = err
		app.exited = true
		app.mu.Unlock()
		close(app.done)
	}()
	return app, nil
}

// Exited reports whether the process has terminated.
func (a *App) Exited() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exited
}

// Output returns the captured head of the app's combined output.
func (a *App) Output() string {
	return a.stderr.String()
}

// Stop terminates the process group: SIGTERM first, SIGKILL after a grace
// period. Safe to call after the process has already exited.
func (a *App) Stop() {
	if a.Exited() {
		return
	}
	_ = syscall.Kill(-a.cmd.Process.Pid, syscall.SIGTERM)
	select {
	case <-a.done:
	case <-time.After(3 * time.Second):
		_ = syscall.Kill(-a.cmd.Process.Pid, syscall.SIGKILL)
		<-a.done
	}
}

// Poll probes url until it returns HTTP 200, using a constant interval and
// a fixed retry budget. It fails fast with ErrExitedEarly if the app dies
// while we wait.
func Poll(ctx context.Context, app *App, url string, interval time.Duration, retries uint64) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if retries == 0 {
		retries = DefaultRetries
	}

	client := &http.Client{Timeout: probeTimeout}
	probe := func() error {
		if app != nil && app.Exited() {
			return backoff.Permanent(fmt.Errorf("%w:\n%s", ErrExitedEarly, app.Output()))
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health endpoint returned %d", resp.StatusCode)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), retries),
		ctx,
	)
	return backoff.Retry(probe, policy)
}

// HealthURL builds the default local health endpoint for a port.
func HealthURL(port int) string {
	if port <= 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("http://127.0.0.1:%d/health", port)
}

// prefixBuffer keeps only the first limit bytes written to it. Enough to
// explain a startup crash without holding a runaway log in memory.
type prefixBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *prefixBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if remaining := b.limit - len(b.buf); remaining > 0 {
		if len(p) > remaining {
			b.buf = append(b.buf, p[:remaining]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}

func (b *prefixBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(string(b.buf))
}
