package prompt

import (
	"context"
	"fmt"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// Preset answers questions from a fixed set of values, typically command-line flags.
// Questions without a preset answer go to the fallback Prompter, or take their
// default when there is none.
type Preset struct {
	answers  map[string]string
	fallback Prompter
}

// NewPreset creates a Preset. A nil fallback makes it fully non-interactive.
func NewPreset(answers map[string]string, fallback Prompter) *Preset {
	if answers == nil {
		answers = map[string]string{}
	}
	return &Preset{answers: answers, fallback: fallback}
}

// Ask returns the preset answer for q, validated
func (p *Preset) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer, ok := p.answers[q.Name]
	if !ok {
		if p.fallback != nil {
			return p.fallback.Ask(ctx, q)
		}
		answer = q.Default
	}

	if err := q.validate(answer); err != nil {
		if !ok {
			return "", fmt.Errorf("%w: %s has no usable default (%v)", wperrors.ErrInteractiveDisabled, q.Name, err)
		}
		return "", fmt.Errorf("invalid %s: %w", q.Name, err)
	}
	return answer, nil
}
