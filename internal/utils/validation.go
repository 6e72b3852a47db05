package utils

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"
)

// AuthorURLRegex matches website addresses with an optional http(s) scheme
var AuthorURLRegex = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// IsInteractive checks if we're in an interactive terminal
func IsInteractive() bool {
	// Allow forcing non-interactive mode via environment variable
	if os.Getenv("WPSTARTER_NON_INTERACTIVE") != "" || os.Getenv("CI") != "" {
		return false
	}

	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ValidateURL checks that input looks like a website address
func ValidateURL(input string) error {
	if !AuthorURLRegex.MatchString(input) {
		return errors.New("Website must have a valid URL format")
	}
	return nil
}

// NotEmpty returns a validator that rejects blank input with "<label> can't be empty"
func NotEmpty(label string) func(string) error {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New(label + " can't be empty")
		}
		return nil
	}
}
