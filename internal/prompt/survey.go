package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the operator aborts a prompt with Ctrl+C
var ErrInterrupted = errors.New("prompt interrupted")

// Survey asks questions on a terminal using survey
type Survey struct {
	in  terminal.FileReader
	out terminal.FileWriter
	err io.Writer
}

// NewSurvey creates a Survey bound to the process's standard streams
func NewSurvey() *Survey {
	return &Survey{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// Ask shows q and re-asks until q.Validate accepts the answer
func (s *Survey) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var p survey.Prompt
	if q.Secret {
		p = &survey.Password{Message: q.Message, Help: q.Help}
	} else {
		p = &survey.Input{Message: q.Message, Default: q.Default, Help: q.Help}
	}

	var answer string
	err := survey.AskOne(p, &answer,
		survey.WithValidator(surveyValidator(q)),
		survey.WithStdio(s.in, s.out, s.err),
	)
	if errors.Is(err, terminal.InterruptErr) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", q.Name, err)
	}

	// Password prompts have no default of their own
	if q.Secret && answer == "" {
		answer = q.Default
	}
	return answer, nil
}

// surveyValidator adapts a Question validator to survey's signature
func surveyValidator(q Question) survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("unexpected answer type %T", ans)
		}
		return q.validate(s)
	}
}
