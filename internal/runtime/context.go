package runtime

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"wpstarter.dev/wpstarter/internal/config"
	"wpstarter.dev/wpstarter/internal/tui"
)

// Context provides the logger and configuration to actions.
// It embeds the command's context.Context, so it can be passed wherever one is expected.
type Context struct {
	context.Context
	Splog  *tui.Splog
	Config *config.Config
	// RunID identifies this invocation in the log file
	RunID string
}

// NewContext creates a new context
func NewContext(ctx context.Context, cfg *config.Config, splog *tui.Splog) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		cfg = config.Defaults()
		// The built-in repo URLs always parse
		_ = cfg.Normalize()
	}
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context: ctx,
		Splog:   splog,
		Config:  cfg,
		RunID:   NewRunID(),
	}
}

// NewRunID returns a fresh invocation identifier
func NewRunID() string {
	return uuid.NewString()
}

type contextKey struct{}

// WithContext returns a copy of parent carrying rc, for cobra commands to pick up
func WithContext(parent context.Context, rc *Context) context.Context {
	return context.WithValue(parent, contextKey{}, rc)
}

// GetContext returns the Context stored by WithContext. Its embedded
// context.Context is replaced by ctx so cancellation follows the command.
func GetContext(ctx context.Context) (*Context, error) {
	if ctx == nil {
		return nil, errors.New("no command context")
	}
	rc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || rc == nil {
		return nil, errors.New("runtime context not initialized")
	}
	out := *rc
	out.Context = ctx
	return &out, nil
}
