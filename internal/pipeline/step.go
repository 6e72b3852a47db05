package pipeline

import "context"

// Policy decides what happens to the pipeline when a step fails
type Policy int

const (
	// PolicyFatal aborts the pipeline on failure
	PolicyFatal Policy = iota
	// PolicyRecoverable logs the failure as an error and continues with degraded state
	PolicyRecoverable
	// PolicyBestEffort logs the failure as a warning and continues
	PolicyBestEffort
)

func (p Policy) String() string {
	switch p {
	case PolicyFatal:
		return "fatal"
	case PolicyRecoverable:
		return "recoverable"
	case PolicyBestEffort:
		return "best-effort"
	default:
		return "unknown"
	}
}

// Step is one named unit of work in the pipeline
type Step struct {
	// Name is the stable identifier used in logs and errors
	Name string

	// Policy applied when Run returns an error
	Policy Policy

	// Requires lists the fields that must be set before Run is called
	Requires []Field

	// Provides lists the fields Run sets on success
	Provides []Field

	// Run performs the step. It must not keep a reference to the state after returning.
	Run func(ctx context.Context, st *State) error
}

// Observer receives progress output from the pipeline driver
type Observer interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}
