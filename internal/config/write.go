package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by Init when the file is already present
var ErrConfigExists = errors.New("config file already exists")

// fileConfig is the on-disk shape; durations are written as "1m0s"
type fileConfig struct {
	Author         string     `yaml:"author"`
	AuthorURL      string     `yaml:"author_url"`
	Platform       RepoConfig `yaml:"platform"`
	Theme          RepoConfig `yaml:"theme"`
	SecretKeyURL   string     `yaml:"secret_key_url"`
	CacheDir       string     `yaml:"cache_dir"`
	HTTPTimeout    string     `yaml:"http_timeout"`
	RetryAttempts  uint       `yaml:"retry_attempts"`
	InstallCommand string     `yaml:"install_command"`
	BuildCommand   string     `yaml:"build_command"`
	GitHubToken    string     `yaml:"github_token,omitempty"`
}

// MarshalYAML writes durations in their string form
func (c Config) MarshalYAML() (interface{}, error) {
	return fileConfig{
		Author:         c.Author,
		AuthorURL:      c.AuthorURL,
		Platform:       c.Platform,
		Theme:          c.Theme,
		SecretKeyURL:   c.SecretKeyURL,
		CacheDir:       c.CacheDir,
		HTTPTimeout:    c.HTTPTimeout.String(),
		RetryAttempts:  c.RetryAttempts,
		InstallCommand: c.InstallCommand,
		BuildCommand:   c.BuildCommand,
		GitHubToken:    c.GitHubToken,
	}, nil
}

// Encode renders cfg as YAML
func Encode(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Write saves cfg to path, creating parent directories. The file may hold a token,
// so it is only readable by the owner.
func Write(path string, cfg *Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Init writes the default configuration to path unless a file is there already
// and force is false
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return Write(path, Defaults())
}
