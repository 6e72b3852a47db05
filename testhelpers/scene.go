package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene rooted in a temporary working directory
type Scene struct {
	Dir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with an empty temporary directory.
// Cleanup is handled by t.TempDir.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	scene := &Scene{Dir: t.TempDir()}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// Path joins elem onto the scene directory
func (s *Scene) Path(elem ...string) string {
	return filepath.Join(append([]string{s.Dir}, elem...)...)
}

// WriteFile writes content to a path relative to the scene, creating parent directories
func (s *Scene) WriteFile(rel, content string) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// ReadFile returns the content of a path relative to the scene
func (s *Scene) ReadFile(rel string) (string, error) {
	data, err := os.ReadFile(s.Path(rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Exists reports whether a path relative to the scene exists
func (s *Scene) Exists(rel string) bool {
	_, err := os.Lstat(s.Path(rel))
	return err == nil
}

// ExistingInstallSetup lays out leftovers of a previous install: a default plugin and themes
func ExistingInstallSetup(scene *Scene) error {
	if err := scene.WriteFile("wp-content/plugins/hello.php", "<?php // Hello Dolly"); err != nil {
		return err
	}
	if err := scene.WriteFile("wp-content/themes/twentytwentythree/style.css", "/* old */"); err != nil {
		return err
	}
	return scene.WriteFile("wp-content/themes/index.php", "<?php // Silence is golden.")
}
