package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/bdcheck/internal/types"
)

// stubBD writes a fake bd executable that runs the given shell body and
// returns a client pointed at it.
func stubBD(t *testing.T, body string) *Client {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bd")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return &Client{Bin: path, Dir: dir, Timeout: 5 * time.Second}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("ParsesIssues", func(t *testing.T) {
		c := stubBD(t, `cat <<'JSON'
[
  {"id": "bd-a", "title": "Schema", "status": "closed", "priority": 1},
  {"id": "bd-b", "status": "open", "priority": 2, "dependencies": ["bd-a"]}
]
JSON`)
		g, stats, err := c.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Listed)
		assert.Empty(t, stats.Quarantined)
		require.Contains(t, g, "bd-b")
		assert.Equal(t, []string{"bd-a"}, g["bd-b"].Dependencies)
	})

	t.Run("DefaultsMissingStatusToOpen", func(t *testing.T) {
		c := stubBD(t, `echo '[{"id": "bd-a", "priority": 2}]'`)
		g, _, err := c.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, types.StatusOpen, g["bd-a"].Status)
	})

	t.Run("QuarantinesInvalidRecords", func(t *testing.T) {
		c := stubBD(t, `cat <<'JSON'
[
  {"id": "bd-a", "status": "open", "priority": 2},
  {"title": "no id", "status": "open", "priority": 2},
  {"id": "bd-c", "status": "resolved", "priority": 2}
]
JSON`)
		g, stats, err := c.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Len(t, g, 1)
		assert.Equal(t, 3, stats.Listed)
		require.Len(t, stats.Quarantined, 2)
		assert.Contains(t, stats.Quarantined[0], "missing an id")
		assert.Contains(t, stats.Quarantined[1], "invalid status")
	})

	t.Run("OutOfRangePriorityIsKept", func(t *testing.T) {
		// Priority problems are a check finding, not a load rejection.
		c := stubBD(t, `echo '[{"id": "bd-a", "status": "open", "priority": 7}]'`)
		g, stats, err := c.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Empty(t, stats.Quarantined)
		assert.Equal(t, 7, g["bd-a"].Priority)
	})

	t.Run("MissingBinary", func(t *testing.T) {
		c := &Client{Bin: filepath.Join(t.TempDir(), "nope"), Timeout: time.Second}
		_, _, err := c.Snapshot(context.Background())
		require.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		c := stubBD(t, `echo 'no database found' >&2; exit 1`)
		_, _, err := c.Snapshot(context.Background())
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "no database found")
	})

	t.Run("MalformedOutput", func(t *testing.T) {
		c := stubBD(t, `echo 'not json'`)
		_, _, err := c.Snapshot(context.Background())
		require.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestReadyIssues(t *testing.T) {
	t.Parallel()

	c := stubBD(t, `echo '[{"id": "bd-a", "status": "open", "priority": 1}, {"id": "bd-c", "status": "open", "priority": 2}]'`)
	ids, err := c.ReadyIssues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bd-a", "bd-c"}, ids)
}

func TestDoctor(t *testing.T) {
	t.Parallel()

	t.Run("Clean", func(t *testing.T) {
		c := stubBD(t, `echo 'All checks passed'`)
		verdict, _ := c.Doctor(context.Background())
		assert.Equal(t, DoctorClean, verdict)
	})

	t.Run("DirtyByKeyword", func(t *testing.T) {
		c := stubBD(t, `echo 'Found dependency cycle: bd-a -> bd-b -> bd-a'`)
		verdict, detail := c.Doctor(context.Background())
		assert.Equal(t, DoctorDirty, verdict)
		assert.Contains(t, detail, "bd-a")
	})

	t.Run("DirtyByExitCode", func(t *testing.T) {
		c := stubBD(t, `exit 2`)
		verdict, _ := c.Doctor(context.Background())
		assert.Equal(t, DoctorDirty, verdict)
	})

	t.Run("NotCheckedWhenMissing", func(t *testing.T) {
		c := &Client{Bin: filepath.Join(t.TempDir(), "nope"), Timeout: time.Second}
		verdict, _ := c.Doctor(context.Background())
		assert.Equal(t, DoctorNotChecked, verdict)
	})
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()

	c := stubBD(t, `sleep 5`)
	c.Timeout = 100 * time.Millisecond
	_, _, err := c.Snapshot(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
