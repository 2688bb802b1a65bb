package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zduny/mezzenger"
)

func TestImmediateDelivery(t *testing.T) {
	s := New[string]()
	s.PushMessage("hello")
	msg, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", msg)
}

func TestCloseDrainsThenReportsClosed(t *testing.T) {
	s := New[int]()
	s.PushMessage(1)
	s.PushMessage(2)
	s.Close()

	msg, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, msg)

	msg, err = s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, msg)

	_, err = s.Receive(context.Background())
	assert.True(t, mezzenger.IsClosed(err))
}

func TestErrorDeliveredAsOther(t *testing.T) {
	s := New[int]()
	cause := errors.New("decode failed")
	s.PushError(cause)
	_, err := s.Receive(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.False(t, mezzenger.IsClosed(err))
}

func TestParkedReceiverWokenInOrder(t *testing.T) {
	s := New[int]()
	order := make(chan int, 2)

	go func() {
		msg, err := s.Receive(context.Background())
		if err == nil {
			order <- msg
		}
	}()
	time.Sleep(20 * time.Millisecond) // let the first receiver park

	go func() {
		msg, err := s.Receive(context.Background())
		if err == nil {
			order <- msg
		}
	}()
	time.Sleep(20 * time.Millisecond)

	s.PushMessage(1)
	s.PushMessage(2)

	first := <-order
	second := <-order
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestCancellationHandsOffWakeup(t *testing.T) {
	s := New[int]()

	ctx, cancel := context.WithCancel(context.Background())
	woken := make(chan struct{})

	var got int
	var gotErr error
	go func() {
		// Park, then cancel right after it is woken.
		got, gotErr = s.Receive(ctx)
		close(woken)
	}()
	time.Sleep(20 * time.Millisecond)

	s.PushMessage(42)
	cancel()
	<-woken

	// The item must not be stranded. Either the parked call consumed it
	// (its wakeup came before the cancellation, and a queued item takes
	// priority over a done ctx), or it returned the cancellation error and
	// a fresh receive still finds the item.
	if gotErr == nil {
		assert.Equal(t, 42, got)
		return
	}
	msg, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, msg)
}

func TestAbandonedReceiverGarbageCollected(t *testing.T) {
	s := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The abandoned call must not leave behind a registry entry that absorbs
	// a later push's wakeup meant for a subsequent, live receiver.
	done := make(chan struct{})
	go func() {
		_, _ = s.Receive(context.Background())
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	s.PushMessage(1)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("receiver was never woken")
	}
}
