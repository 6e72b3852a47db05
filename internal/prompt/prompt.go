// Package prompt asks the operator questions. Survey talks to a terminal,
// Preset answers from flags and defaults, Scripted replays canned answers in tests.
package prompt

import (
	"context"
)

// Question is a single value to acquire from the operator
type Question struct {
	// Name identifies the answer, e.g. "themeName"
	Name    string
	Message string
	Default string
	// Validate rejects an answer with a message shown to the operator
	Validate func(string) error
	// Secret hides the typed value
	Secret bool
	Help   string
}

// Prompter acquires answers. Ask blocks until a valid answer is given or ctx ends.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
}

func (q Question) validate(answer string) error {
	if q.Validate == nil {
		return nil
	}
	return q.Validate(answer)
}
