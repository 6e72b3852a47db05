// Package config loads and writes wpstarter's user configuration.
//
// Values come from, in increasing precedence: built-in defaults, the YAML
// config file, and WPSTARTER_* environment variables. Command-line flags
// are applied on top by the cli package.
package config
