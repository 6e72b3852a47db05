package prompt

import (
	"context"
	"fmt"
	"sync"
)

// Scripted replays queued answers, for tests. An empty answer accepts the
// question's default. A rejected answer is recorded and the next one is tried,
// the way an operator would retype it.
type Scripted struct {
	mu       sync.Mutex
	answers  []string
	asked    []Question
	rejected []error
}

// NewScripted creates a Scripted prompter answering in order
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Ask consumes answers until one passes validation
func (s *Scripted) Ask(ctx context.Context, q Question) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.asked = append(s.asked, q)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(s.answers) == 0 {
			return "", fmt.Errorf("no scripted answer left for %s", q.Name)
		}

		answer := s.answers[0]
		s.answers = s.answers[1:]
		if answer == "" {
			answer = q.Default
		}

		if err := q.validate(answer); err != nil {
			s.rejected = append(s.rejected, err)
			continue
		}
		return answer, nil
	}
}

// Asked returns the questions seen so far
func (s *Scripted) Asked() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Question(nil), s.asked...)
}

// Rejected returns the validation errors of answers that were retyped
func (s *Scripted) Rejected() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.rejected...)
}

// Remaining returns how many answers were not consumed
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}
