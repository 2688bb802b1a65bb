package loopback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zduny/mezzenger"
)

func TestSendThenReceive(t *testing.T) {
	ctx := context.Background()
	tr := New[string]()

	require.NoError(t, tr.Send(ctx, "a"))
	require.NoError(t, tr.Send(ctx, "b"))

	msg, err := tr.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", msg)

	msg, err = tr.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", msg)
}

func TestCloseDrainsThenClosed(t *testing.T) {
	ctx := context.Background()
	tr := New[int]()

	require.NoError(t, tr.Send(ctx, 1))
	require.NoError(t, tr.Close(ctx))
	assert.True(t, tr.IsClosed())

	msg, err := tr.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, msg)

	_, err = tr.Receive(ctx)
	assert.True(t, mezzenger.IsClosed(err))

	assert.ErrorIs(t, tr.Send(ctx, 2), mezzenger.Closed)
}
