package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wperrors "wpstarter.dev/wpstarter/internal/errors"
)

// recordingObserver captures log lines by level
type recordingObserver struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (o *recordingObserver) Info(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.infos = append(o.infos, fmt.Sprintf(format, args...))
}

func (o *recordingObserver) Warn(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.warns = append(o.warns, fmt.Sprintf(format, args...))
}

func (o *recordingObserver) Error(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, fmt.Sprintf(format, args...))
}

func (o *recordingObserver) Debug(string, ...interface{}) {}

func setStep(name string, field Field, value string, executed *[]string) Step {
	return Step{
		Name:     name,
		Provides: []Field{field},
		Run: func(_ context.Context, st *State) error {
			*executed = append(*executed, name)
			return st.Set(field, value)
		},
	}
}

func TestNew_RejectsInvalidPlans(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, *State) error { return nil }

	tests := []struct {
		name  string
		steps []Step
		msg   string
	}{
		{
			name:  "requires field before it is provided",
			steps: []Step{{Name: "fetch", Requires: []Field{"version"}, Run: noop}, {Name: "resolve", Provides: []Field{"version"}, Run: noop}},
			msg:   "step fetch requires version",
		},
		{
			name:  "field provided twice",
			steps: []Step{{Name: "a", Provides: []Field{"x"}, Run: noop}, {Name: "b", Provides: []Field{"x"}, Run: noop}},
			msg:   "x is provided by both a and b",
		},
		{
			name:  "duplicate step name",
			steps: []Step{{Name: "a", Run: noop}, {Name: "a", Run: noop}},
			msg:   "duplicate step a",
		},
		{
			name:  "missing run function",
			steps: []Step{{Name: "a"}},
			msg:   "no run function",
		},
		{
			name:  "missing name",
			steps: []Step{{Run: noop}},
			msg:   "has no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := New(tt.steps...)
			require.Nil(t, p)
			require.ErrorIs(t, err, wperrors.ErrInvalidPlan)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRun_ExecutesInOrder(t *testing.T) {
	t.Parallel()

	var executed []string
	p, err := New(
		setStep("resolve", "version", "6.3.1", &executed),
		Step{
			Name:     "fetch",
			Requires: []Field{"version"},
			Run: func(_ context.Context, st *State) error {
				executed = append(executed, "fetch@"+st.Get("version"))
				return nil
			},
		},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"resolve", "fetch"}, p.Steps())

	st := NewState()
	report, err := p.Run(context.Background(), st, &recordingObserver{})

	require.NoError(t, err)
	assert.Equal(t, []string{"resolve", "fetch@6.3.1"}, executed)
	assert.Equal(t, []string{"resolve", "fetch"}, report.Executed())
	assert.False(t, report.Degraded())
	for _, r := range report.Steps {
		assert.Equal(t, StatusSucceeded, r.Status)
	}
}

func TestRun_FatalStopsPipeline(t *testing.T) {
	t.Parallel()

	var executed []string
	cause := errors.New("connection refused")
	p, err := New(
		setStep("first", "a", "1", &executed),
		Step{Name: "create-database", Policy: PolicyFatal, Run: func(context.Context, *State) error { return cause }},
		setStep("finalize", "b", "2", &executed),
	)
	require.NoError(t, err)

	report, err := p.Run(context.Background(), NewState(), &recordingObserver{})

	require.Error(t, err)
	require.ErrorIs(t, err, cause)
	var stepErr *wperrors.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "create-database", stepErr.Step)
	assert.Equal(t, "create-database: connection refused", err.Error())
	assert.Equal(t, []string{"first"}, executed)
	assert.Equal(t, []string{"first", "create-database"}, report.Executed())
	assert.Equal(t, StatusFailed, report.Steps[1].Status)
}

func TestRun_RecoverableContinues(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	var fetched bool
	p, err := New(
		Step{
			Name:     "resolve-theme-version",
			Policy:   PolicyRecoverable,
			Provides: []Field{"version"},
			Run: func(context.Context, *State) error {
				return errors.New("remote unreachable")
			},
		},
		Step{Name: "collect", Run: func(context.Context, *State) error { return nil }},
		Step{
			Name:     "fetch-theme",
			Requires: []Field{"version"},
			Run: func(context.Context, *State) error {
				fetched = true
				return nil
			},
		},
	)
	require.NoError(t, err)

	report, err := p.Run(context.Background(), NewState(), obs)

	require.Error(t, err)
	require.ErrorIs(t, err, wperrors.ErrFieldMissing)
	assert.False(t, fetched, "consumer must not run without its input")
	assert.Equal(t, StatusDegraded, report.Steps[0].Status)
	assert.Equal(t, StatusSucceeded, report.Steps[1].Status)
	assert.Equal(t, StatusFailed, report.Steps[2].Status)
	require.Len(t, obs.errors, 1)
	assert.Contains(t, obs.errors[0], "resolve-theme-version failed, continuing: remote unreachable")
}

func TestRun_BestEffortWarns(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	var executed []string
	p, err := New(
		Step{Name: "remove-default-plugin", Policy: PolicyBestEffort, Run: func(context.Context, *State) error {
			return errors.New("permission denied")
		}},
		setStep("next", "a", "1", &executed),
	)
	require.NoError(t, err)

	report, err := p.Run(context.Background(), NewState(), obs)

	require.NoError(t, err)
	assert.True(t, report.Degraded())
	assert.Equal(t, []string{"next"}, executed)
	require.Len(t, obs.warns, 1)
	assert.Contains(t, obs.warns[0], "permission denied")
	assert.Empty(t, obs.errors)
}

func TestRun_StepThatSkipsProvidedField(t *testing.T) {
	t.Parallel()

	p, err := New(Step{Name: "lazy", Provides: []Field{"x"}, Run: func(context.Context, *State) error { return nil }})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), NewState(), &recordingObserver{})
	require.ErrorIs(t, err, wperrors.ErrInvalidPlan)
	assert.Contains(t, err.Error(), "finished without setting [x]")
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var executed []string
	p, err := New(
		Step{Name: "first", Run: func(context.Context, *State) error {
			executed = append(executed, "first")
			cancel()
			return nil
		}},
		Step{Name: "second", Run: func(context.Context, *State) error {
			executed = append(executed, "second")
			return nil
		}},
	)
	require.NoError(t, err)

	_, err = p.Run(ctx, NewState(), &recordingObserver{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, executed)
}

func TestPolicyString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fatal", PolicyFatal.String())
	assert.Equal(t, "recoverable", PolicyRecoverable.String())
	assert.Equal(t, "best-effort", PolicyBestEffort.String())
	assert.Equal(t, "unknown", Policy(42).String())
}
