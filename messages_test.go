package mezzenger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zduny/mezzenger"
	"github.com/zduny/mezzenger/loopback"
)

func TestMessagesYieldsInSendOrderAndStopsOnClosed(t *testing.T) {
	transport := loopback.New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 1; i <= 3; i++ {
		require.NoError(t, transport.Send(ctx, i))
	}
	require.NoError(t, transport.Close(ctx))

	var got []int
	for msg := range mezzenger.Messages[int](ctx, transport, nil) {
		got = append(got, msg)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

// flakyReceiver fails its failAt-th Receive call with a non-Closed error and
// reports mezzenger.Closed once its messages run out, exercising Messages' "Other errors
// don't end the stream" behavior without requiring a real carrier to
// misbehave.
type flakyReceiver struct {
	calls    int
	failAt   int
	messages []int
	err      error
}

func (f *flakyReceiver) Receive(context.Context) (int, error) {
	f.calls++
	if f.calls == f.failAt {
		return 0, f.err
	}
	if len(f.messages) == 0 {
		return 0, mezzenger.Closed
	}
	msg := f.messages[0]
	f.messages = f.messages[1:]
	return msg, nil
}

func TestMessagesReportsOtherErrorsOutOfBandAndContinues(t *testing.T) {
	boom := errors.New("boom")
	receiver := &flakyReceiver{failAt: 2, messages: []int{1, 2}, err: boom}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	var got []int
	for msg := range mezzenger.Messages[int](ctx, receiver, func(err error) { errs = append(errs, err) }) {
		got = append(got, msg)
	}
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, []error{boom}, errs)
}

func TestMessagesStopsEarlyWhenConsumerBreaks(t *testing.T) {
	transport := loopback.New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 1; i <= 5; i++ {
		require.NoError(t, transport.Send(ctx, i))
	}

	var got []int
	for msg := range mezzenger.Messages[int](ctx, transport, nil) {
		got = append(got, msg)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestSinkSendsEveryMessageInOrder(t *testing.T) {
	transport := loopback.New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seq := func(yield func(int) bool) {
		for i := 1; i <= 3; i++ {
			if !yield(i) {
				return
			}
		}
	}
	require.NoError(t, mezzenger.Sink[int](ctx, transport, seq))

	var got []int
	for i := 0; i < 3; i++ {
		msg, err := transport.Receive(ctx)
		require.NoError(t, err)
		got = append(got, msg)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSinkStopsAtFirstSendError(t *testing.T) {
	transport := loopback.New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, transport.Close(ctx))

	sent := 0
	seq := func(yield func(int) bool) {
		for i := 1; i <= 3; i++ {
			sent++
			if !yield(i) {
				return
			}
		}
	}
	err := mezzenger.Sink[int](ctx, transport, seq)
	assert.True(t, mezzenger.IsClosed(err))
	assert.Equal(t, 1, sent)
}
