// Package testhelpers provides shared test utilities: scenes, mock remote
// services, fake collaborators and a prebuilt wpstarter binary.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	binaryOnce       sync.Once
	binaryErr        error
	binaryDir        string
)

// GetSharedBinaryPath returns the shared binary path, building it on first use.
func GetSharedBinaryPath() string {
	binaryOnce.Do(func() {
		sharedBinaryPath, binaryDir, binaryErr = buildBinary()
	})
	return sharedBinaryPath
}

// GetBinaryError returns any error that occurred during binary building.
func GetBinaryError() error {
	return binaryErr
}

// buildBinary builds the wpstarter binary into a temp directory and returns its path.
func buildBinary() (string, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", "", fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "wpstarter-test-binary-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "wpstarter")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wpstarter")
	cmd.Dir = moduleRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tmpDir) // Ignore cleanup errors
		return "", "", fmt.Errorf("failed to build: %s: %w", string(output), err)
	}

	return binaryPath, tmpDir, nil
}

// findModuleRoot walks up the directory tree from startDir to find the module root
// (directory containing go.mod file).
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// TestMain builds the wpstarter binary once, runs the tests and removes the binary.
func TestMain(m *testing.M, cleanup func()) {
	if GetSharedBinaryPath() == "" {
		fmt.Fprintf(os.Stderr, "Failed to build wpstarter binary: %v\n", binaryErr)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(binaryDir) // Ignore cleanup errors
	if cleanup != nil {
		cleanup()
	}
	os.Exit(code)
}

// RunBinary runs the shared binary with args in dir and returns its combined output.
// env entries are appended to a minimal environment that isolates HOME.
func RunBinary(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()

	binaryPath := GetSharedBinaryPath()
	if binaryPath == "" {
		t.Fatalf("wpstarter binary not built: %v", binaryErr)
	}

	home := t.TempDir()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = append([]string{
		"HOME=" + home,
		"PATH=" + os.Getenv("PATH"),
		"WPSTARTER_NON_INTERACTIVE=1",
		"WPSTARTER_LOG_FILE=" + filepath.Join(home, "wpstarter.log"),
		"NO_COLOR=1",
	}, env...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}
