package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewContext_Defaults(t *testing.T) {
	t.Parallel()

	ctx := NewContext(context.Background(), nil, nil)
	require.NotNil(t, ctx.Splog)
	require.NotNil(t, ctx.Config)
	require.Equal(t, "grunt", ctx.Config.BuildCommand)

	_, err := uuid.Parse(ctx.RunID)
	require.NoError(t, err)
	require.NotEqual(t, ctx.RunID, NewContext(context.Background(), nil, nil).RunID)
}

func TestNewContext_PropagatesCancellation(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	ctx := NewContext(parent, nil, nil)
	cancel()

	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestGetContext(t *testing.T) {
	t.Parallel()

	_, err := GetContext(context.Background())
	require.Error(t, err)

	rc := NewContext(context.Background(), nil, nil)
	parent, cancel := context.WithCancel(WithContext(context.Background(), rc))

	got, err := GetContext(parent)
	require.NoError(t, err)
	require.Equal(t, rc.RunID, got.RunID)
	require.Same(t, rc.Splog, got.Splog)

	cancel()
	require.ErrorIs(t, got.Err(), context.Canceled)
	require.NoError(t, rc.Err())
}
