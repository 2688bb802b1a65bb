package latestonly_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zduny/mezzenger/duplex"
	"github.com/zduny/mezzenger/latestonly"
	"github.com/zduny/mezzenger/numbered"
)

func TestTransportReturnsMostRecentlyNumberedMessage(t *testing.T) {
	ctx := context.Background()
	leftInner, rightInner := duplex.New[numbered.Wrapper[uint, int], numbered.Wrapper[uint, int]]()
	leftNumbered := numbered.New[uint, int, int](leftInner)
	rightNumbered := numbered.New[uint, int, int](rightInner)

	left := latestonly.New[uint, numbered.Wrapper[uint, int], int](leftNumbered)
	right := latestonly.New[uint, numbered.Wrapper[uint, int], int](rightNumbered)

	require.NoError(t, left.Send(ctx, 1))
	require.NoError(t, left.Send(ctx, 2))
	require.NoError(t, left.Send(ctx, 3))

	w, err := right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Unwrap())

	require.NoError(t, right.Send(ctx, 1))
	require.NoError(t, right.Send(ctx, 2))
	require.NoError(t, right.Send(ctx, 3))

	w, err = left.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Unwrap())
}

func TestComparisonIsStrictlyGreaterThanNotWrapAware(t *testing.T) {
	ctx := context.Background()
	plainLeft, rightInner := duplex.New[numbered.Wrapper[uint, int], numbered.Wrapper[uint, int]]()
	rightNumbered := numbered.New[uint, int, int](rightInner)
	right := latestonly.New[uint, numbered.Wrapper[uint, int], int](rightNumbered)

	require.NoError(t, plainLeft.Send(ctx, numbered.Wrapper[uint, int]{Number: 1, Wrapped: 2}))
	require.NoError(t, plainLeft.Send(ctx, numbered.Wrapper[uint, int]{Number: 2, Wrapped: 3}))
	require.NoError(t, plainLeft.Send(ctx, numbered.Wrapper[uint, int]{Number: 0, Wrapped: 1}))

	w, err := right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Unwrap())

	require.NoError(t, right.Send(ctx, 1))
	w2, err := plainLeft.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, w2.Wrapped)
}

func TestUnwrappingAutomaticallyUnwrapsMessages(t *testing.T) {
	ctx := context.Background()
	leftInner, rightInner := duplex.New[numbered.Wrapper[uint, int], numbered.Wrapper[uint, int]]()
	leftNumbered := numbered.New[uint, int, int](leftInner)
	rightNumbered := numbered.New[uint, int, int](rightInner)

	left := latestonly.NewUnwrapping[uint, numbered.Wrapper[uint, int], int, int](leftNumbered)
	right := latestonly.NewUnwrapping[uint, numbered.Wrapper[uint, int], int, int](rightNumbered)

	require.NoError(t, left.Send(ctx, 1))
	require.NoError(t, left.Send(ctx, 2))
	require.NoError(t, left.Send(ctx, 3))

	v, err := right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	require.NoError(t, right.Send(ctx, 1))
	require.NoError(t, right.Send(ctx, 2))
	require.NoError(t, right.Send(ctx, 3))

	v, err = left.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
