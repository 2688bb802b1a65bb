package numbered_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zduny/mezzenger/duplex"
	"github.com/zduny/mezzenger/numbered"
)

func TestNumbersStartAtZeroAndAdvanceOnSuccessfulSend(t *testing.T) {
	ctx := context.Background()
	leftInner, rightInner := duplex.New[numbered.Wrapper[uint, int], numbered.Wrapper[uint, int]]()
	left := numbered.New[uint, int, int](leftInner)
	right := numbered.New[uint, int, int](rightInner)

	require.NoError(t, left.Send(ctx, 1))
	require.NoError(t, left.Send(ctx, 2))
	require.NoError(t, left.Send(ctx, 3))

	w, err := right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, numbered.Wrapper[uint, int]{Number: 0, Wrapped: 1}, w)
	w, err = right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, numbered.Wrapper[uint, int]{Number: 1, Wrapped: 2}, w)
	w, err = right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, numbered.Wrapper[uint, int]{Number: 2, Wrapped: 3}, w)

	require.NoError(t, right.Send(ctx, 1))
	require.NoError(t, right.Send(ctx, 2))
	require.NoError(t, right.Send(ctx, 3))

	w, err = left.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, numbered.Wrapper[uint, int]{Number: 0, Wrapped: 1}, w)
	w, err = left.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, numbered.Wrapper[uint, int]{Number: 1, Wrapped: 2}, w)
	w, err = left.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, numbered.Wrapper[uint, int]{Number: 2, Wrapped: 3}, w)
}

func TestCurrentNumberWrapsOnOverflow(t *testing.T) {
	ctx := context.Background()
	leftInner, _ := duplex.New[numbered.Wrapper[uint8, int], numbered.Wrapper[uint8, int]]()
	left := numbered.New[uint8, int, int](leftInner)

	for i := 0; i < 255; i++ {
		require.NoError(t, left.Send(ctx, i))
	}
	assert.Equal(t, uint8(255), left.CurrentNumber())
	require.NoError(t, left.Send(ctx, 255))
	assert.Equal(t, uint8(0), left.CurrentNumber())
}
