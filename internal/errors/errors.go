// Package errors provides sentinel errors and custom error types for the wpstarter application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNoTags indicates that a remote repository has no version-like tags
	ErrNoTags = errors.New("no tags found")

	// ErrFieldAlreadySet indicates an attempt to overwrite a provisioning field
	ErrFieldAlreadySet = errors.New("field already set")

	// ErrFieldMissing indicates that a step ran without a field it requires
	ErrFieldMissing = errors.New("required field not set")

	// ErrInvalidPlan indicates that a step list violates the data dependency order
	ErrInvalidPlan = errors.New("invalid pipeline plan")

	// ErrInteractiveDisabled is returned when a prompt is needed but input is not interactive
	ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

	// ErrInvalidSegment indicates an owner, repository or tag that is unsafe to use in a URL or path
	ErrInvalidSegment = errors.New("invalid repository segment")
)

// StepError represents a fatal failure of a named pipeline step
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new StepError
func NewStepError(step string, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

// FieldMissingError names the fields a step needed but did not find
type FieldMissingError struct {
	Step   string
	Fields []string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("step %s requires %s, which no earlier step set", e.Step, strings.Join(e.Fields, ", "))
}

// Is returns true if the target error is ErrFieldMissing
func (e *FieldMissingError) Is(target error) bool {
	return target == ErrFieldMissing
}

// NewFieldMissingError creates a new FieldMissingError
func NewFieldMissingError(step string, fields []string) *FieldMissingError {
	return &FieldMissingError{Step: step, Fields: fields}
}

// CommandError represents an error from an external command execution
type CommandError struct {
	Command string
	Args    []string
	Dir     string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Dir != "" {
		msg += fmt.Sprintf(" (in %s)", e.Dir)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, args []string, dir, stdout, stderr string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Args:    args,
		Dir:     dir,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// HTTPStatusError represents a non-success HTTP response
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Temporary reports whether retrying the request may succeed
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// NewHTTPStatusError creates a new HTTPStatusError
func NewHTTPStatusError(url string, code int, status string) *HTTPStatusError {
	return &HTTPStatusError{URL: url, StatusCode: code, Status: status}
}
