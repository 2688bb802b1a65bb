package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/duplex"
	"github.com/zduny/mezzenger/worker"
)

func dialPair(t *testing.T) (*worker.Transport[string, string], *worker.Transport[string, string]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	leftInner, rightInner := duplex.New[worker.Envelope[string], worker.Envelope[string]]()

	type dialResult struct {
		t   *worker.Transport[string, string]
		err error
	}
	leftCh := make(chan dialResult, 1)
	rightCh := make(chan dialResult, 1)
	go func() {
		tr, err := worker.Dial[string, string](ctx, leftInner)
		leftCh <- dialResult{tr, err}
	}()
	go func() {
		tr, err := worker.Dial[string, string](ctx, rightInner)
		rightCh <- dialResult{tr, err}
	}()

	left := <-leftCh
	right := <-rightCh
	require.NoError(t, left.err)
	require.NoError(t, right.err)
	return left.t, right.t
}

func TestDialHandshakeThenSendReceive(t *testing.T) {
	left, right := dialPair(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, left.Send(ctx, "hello"))
	msg, err := right.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg)

	require.NoError(t, right.Send(ctx, "world"))
	msg, err = left.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "world", msg)
}

func TestDialTimesOutWithoutPeer(t *testing.T) {
	leftInner, _ := duplex.New[worker.Envelope[string], worker.Envelope[string]]()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := worker.Dial[string, string](ctx, leftInner, worker.WithOpenTimeout(10*time.Millisecond))
	require.Error(t, err)
}

func TestCloseSendsCloseEnvelopeAndEndsPeerReceive(t *testing.T) {
	left, right := dialPair(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, left.Close(ctx))

	_, err := right.Receive(ctx)
	assert.True(t, mezzenger.IsClosed(err))
	assert.True(t, left.IsClosed())
}

func TestSendBufferFullLogsRateLimitedWarningAndStillDelivers(t *testing.T) {
	left, right := dialPair(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	const n = worker.DefaultSendBuffer + 5
	for i := 0; i < n; i++ {
		require.NoError(t, left.Send(ctx, "x"))
	}
	for i := 0; i < n; i++ {
		_, err := right.Receive(ctx)
		require.NoError(t, err)
	}
}
