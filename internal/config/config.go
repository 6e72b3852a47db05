package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"wpstarter.dev/wpstarter/internal/github"
	"wpstarter.dev/wpstarter/internal/secrets"
)

// EnvPrefix prefixes every environment override, e.g. WPSTARTER_CACHE_DIR
const EnvPrefix = "WPSTARTER"

// RepoConfig locates a GitHub repository
type RepoConfig struct {
	RepoURL string `mapstructure:"repo_url" yaml:"repo_url"` // Clone URL used to list tags
	Owner   string `mapstructure:"owner" yaml:"owner,omitempty"` // Derived from repo_url when empty
	Repo    string `mapstructure:"repo" yaml:"repo,omitempty"`   // Derived from repo_url when empty
}

// Config is the effective wpstarter configuration.
//
// WARNING: GitHubToken is a secret; print Redacted() instead of the config itself.
type Config struct {
	Author         string        `mapstructure:"author" yaml:"author"`
	AuthorURL      string        `mapstructure:"author_url" yaml:"author_url"`
	Platform       RepoConfig    `mapstructure:"platform" yaml:"platform"`
	Theme          RepoConfig    `mapstructure:"theme" yaml:"theme"`
	SecretKeyURL   string        `mapstructure:"secret_key_url" yaml:"secret_key_url"`
	CacheDir       string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	RetryAttempts  uint          `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	InstallCommand string        `mapstructure:"install_command" yaml:"install_command"`
	BuildCommand   string        `mapstructure:"build_command" yaml:"build_command"`
	GitHubToken    string        `mapstructure:"github_token" yaml:"github_token,omitempty"` // Secret
}

// Defaults returns the built-in configuration. Owner and repo are left for
// Load to derive from the repo URLs.
func Defaults() *Config {
	return &Config{
		Author:    "JV Software",
		AuthorURL: "http://www.jvsoftware.com/",
		Platform: RepoConfig{
			RepoURL: "https://github.com/WordPress/WordPress.git",
		},
		Theme: RepoConfig{
			RepoURL: "https://github.com/JV-Software/Startup-WP-Theme.git",
		},
		SecretKeyURL:   secrets.DefaultURL,
		CacheDir:       DefaultCacheDir(),
		HTTPTimeout:    60 * time.Second,
		RetryAttempts:  3,
		InstallCommand: "npm install",
		BuildCommand:   "grunt",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wpstarter/config.yaml when XDG_CONFIG_HOME
// is set, otherwise ~/.wpstarter/config.yaml
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wpstarter", "config.yaml")
	}
	return filepath.Join(homeDir(), ".wpstarter", "config.yaml")
}

// DefaultCacheDir returns ~/.wpstarter/cache
func DefaultCacheDir() string {
	return filepath.Join(homeDir(), ".wpstarter", "cache")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads the configuration. An empty path means DefaultPath(), which may
// be absent; an explicit path must exist. WPSTARTER_* environment variables
// override file values, and GITHUB_TOKEN is honored for github_token.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github_token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("author", d.Author)
	v.SetDefault("author_url", d.AuthorURL)
	v.SetDefault("platform.repo_url", d.Platform.RepoURL)
	v.SetDefault("platform.owner", d.Platform.Owner)
	v.SetDefault("platform.repo", d.Platform.Repo)
	v.SetDefault("theme.repo_url", d.Theme.RepoURL)
	v.SetDefault("theme.owner", d.Theme.Owner)
	v.SetDefault("theme.repo", d.Theme.Repo)
	v.SetDefault("secret_key_url", d.SecretKeyURL)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("retry_attempts", d.RetryAttempts)
	v.SetDefault("install_command", d.InstallCommand)
	v.SetDefault("build_command", d.BuildCommand)
	v.SetDefault("github_token", "")
}

// Normalize derives owner/repo from repo URLs and checks value ranges.
// Load calls it; configurations built in code should call it before use.
func (c *Config) Normalize() error {
	for name, rc := range map[string]*RepoConfig{"platform": &c.Platform, "theme": &c.Theme} {
		if rc.Owner == "" || rc.Repo == "" {
			owner, repo, err := github.ParseRepoURL(rc.RepoURL)
			if err != nil {
				return fmt.Errorf("%s.repo_url: %w", name, err)
			}
			if rc.Owner == "" {
				rc.Owner = owner
			}
			if rc.Repo == "" {
				rc.Repo = repo
			}
		}
		if err := github.ValidateSegment(name+".owner", rc.Owner); err != nil {
			return err
		}
		if err := github.ValidateSegment(name+".repo", rc.Repo); err != nil {
			return err
		}
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RetryAttempts == 0 {
		return errors.New("retry_attempts must be at least 1")
	}
	if c.CacheDir == "" {
		return errors.New("cache_dir must not be empty")
	}
	return nil
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	out := *c
	if out.GitHubToken != "" {
		out.GitHubToken = "********"
	}
	return &out
}
