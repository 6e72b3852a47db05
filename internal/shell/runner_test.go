package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell")
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	r := NewRunner()

	require.NoError(t, r.Run(context.Background(), dir, "sh", "-c", "pwd > where.txt"))

	data, err := os.ReadFile(filepath.Join(dir, "where.txt"))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(string(bytes.TrimSpace(data)))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRunner_Output(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	var out bytes.Buffer
	r := NewRunner()
	r.Output = &out

	require.NoError(t, r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo building"))
	require.Equal(t, "building\n", out.String())
}

func TestRunner_Failure(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	r := NewRunner()
	err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)

	var cmdErr *wperrors.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "sh", cmdErr.Command)
	require.Equal(t, "boom", cmdErr.Stderr)
}

func TestRunner_Timeout(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	r := NewRunner()
	r.SetTimeout(50 * time.Millisecond)

	err := r.Run(context.Background(), t.TempDir(), "sleep", "5")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunner_NotInstalled(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	err := r.Run(context.Background(), t.TempDir(), "definitely-not-a-real-binary-wpstarter")
	require.ErrorIs(t, err, ErrNotInstalled)
}
