package pipeline

import (
	"context"
	"fmt"
	"time"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// Status is the outcome of a single step
type Status string

const (
	// StatusSucceeded means the step completed without error
	StatusSucceeded Status = "succeeded"
	// StatusFailed means a fatal step failed and the pipeline stopped
	StatusFailed Status = "failed"
	// StatusDegraded means a recoverable step failed and the pipeline continued
	StatusDegraded Status = "degraded"
	// StatusWarned means a best-effort step failed and the pipeline continued
	StatusWarned Status = "warned"
)

// StepResult records how one step ended
type StepResult struct {
	Name     string
	Policy   Policy
	Status   Status
	Err      error
	Duration time.Duration
}

// Report collects the results of a pipeline run in execution order
type Report struct {
	Steps    []StepResult
	Duration time.Duration
}

// Executed returns the names of the steps that ran, in order
func (r *Report) Executed() []string {
	names := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		names = append(names, s.Name)
	}
	return names
}

// Degraded reports whether any step failed without stopping the pipeline
func (r *Report) Degraded() bool {
	for _, s := range r.Steps {
		if s.Status == StatusDegraded || s.Status == StatusWarned {
			return true
		}
	}
	return false
}

// Pipeline is a validated, ordered list of steps
type Pipeline struct {
	steps []Step
}

// New validates the step order and returns a pipeline.
// Every required field must be provided by an earlier step, and no field may be provided twice.
func New(steps ...Step) (*Pipeline, error) {
	provided := make(map[Field]string)
	names := make(map[string]bool)

	for i, step := range steps {
		if step.Name == "" {
			return nil, fmt.Errorf("%w: step %d has no name", wperrors.ErrInvalidPlan, i+1)
		}
		if step.Run == nil {
			return nil, fmt.Errorf("%w: step %s has no run function", wperrors.ErrInvalidPlan, step.Name)
		}
		if names[step.Name] {
			return nil, fmt.Errorf("%w: duplicate step %s", wperrors.ErrInvalidPlan, step.Name)
		}
		names[step.Name] = true

		for _, f := range step.Requires {
			if _, ok := provided[f]; !ok {
				return nil, fmt.Errorf("%w: step %s requires %s before any step provides it", wperrors.ErrInvalidPlan, step.Name, f)
			}
		}
		for _, f := range step.Provides {
			if owner, ok := provided[f]; ok {
				return nil, fmt.Errorf("%w: %s is provided by both %s and %s", wperrors.ErrInvalidPlan, f, owner, step.Name)
			}
			provided[f] = step.Name
		}
	}

	return &Pipeline{steps: steps}, nil
}

// Steps returns the step names in execution order
func (p *Pipeline) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name)
	}
	return names
}

// Run executes every step in order against st.
// It returns a *errors.StepError for the first fatal failure; the report is always non-nil.
func (p *Pipeline) Run(ctx context.Context, st *State, obs Observer) (*Report, error) {
	start := time.Now()
	report := &Report{}
	defer func() { report.Duration = time.Since(start) }()

	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return report, wperrors.NewStepError(step.Name, fmt.Errorf("cancelled before start: %w", err))
		}

		label := fmt.Sprintf("%s (%d/%d)", step.Name, i+1, len(p.steps))
		obs.Debug("[%s] starting", label)

		stepStart := time.Now()
		err := runStep(ctx, st, step)
		result := StepResult{
			Name:     step.Name,
			Policy:   step.Policy,
			Err:      err,
			Duration: time.Since(stepStart),
		}

		if err == nil {
			result.Status = StatusSucceeded
			report.Steps = append(report.Steps, result)
			obs.Debug("[%s] completed in %v", label, result.Duration.Round(time.Millisecond))
			continue
		}

		switch step.Policy {
		case PolicyRecoverable:
			result.Status = StatusDegraded
			report.Steps = append(report.Steps, result)
			obs.Error("%s failed, continuing: %v", step.Name, err)
		case PolicyBestEffort:
			result.Status = StatusWarned
			report.Steps = append(report.Steps, result)
			obs.Warn("%s: %v", step.Name, err)
		default:
			result.Status = StatusFailed
			report.Steps = append(report.Steps, result)
			obs.Debug("[%s] failed after %v", label, result.Duration.Round(time.Millisecond))
			return report, wperrors.NewStepError(step.Name, err)
		}
	}

	obs.Debug("Provisioning finished in %v", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// runStep checks the step's inputs, runs it and checks its outputs
func runStep(ctx context.Context, st *State, step Step) error {
	if missing := st.missing(step.Requires); len(missing) > 0 {
		return wperrors.NewFieldMissingError(step.Name, missing)
	}

	if err := step.Run(ctx, st); err != nil {
		return err
	}

	if missing := st.missing(step.Provides); len(missing) > 0 {
		return fmt.Errorf("%w: step %s finished without setting %v", wperrors.ErrInvalidPlan, step.Name, missing)
	}
	return nil
}
