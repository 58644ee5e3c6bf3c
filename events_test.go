package goamqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventSetClearIsSet(t *testing.T) {
	e := newEvent()
	require.False(t, e.IsSet())

	e.Set()
	require.True(t, e.IsSet())

	// Set is idempotent.
	e.Set()
	require.True(t, e.IsSet())

	e.Clear()
	require.False(t, e.IsSet())
}

func TestEventWaitUnblocksOnSet(t *testing.T) {
	e := newEvent()
	done := make(chan struct{})

	go func() {
		e.Wait(0)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before Set")
	case <-time.After(20 * time.Millisecond):
	}

	e.Set()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait never unblocked after Set")
	}
}

func TestEventWaitTimesOut(t *testing.T) {
	e := newEvent()
	require.False(t, e.Wait(10*time.Millisecond))
}

func TestEventClearIsNewEdge(t *testing.T) {
	e := newEvent()
	e.Set()
	e.Clear()

	// A waiter started after Clear must block until the next Set, not
	// observe the channel closed by the first Set.
	done := make(chan struct{})
	go func() {
		e.Wait(0)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned on a stale edge")
	case <-time.After(20 * time.Millisecond):
	}

	e.Set()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait never unblocked on the new edge")
	}
}

func TestEventRegistryNamesIndependent(t *testing.T) {
	r := NewEventRegistry()
	require.False(t, r.IsSet(SocketOpened))
	require.False(t, r.IsSet(SocketClosed))

	r.Set(SocketOpened)
	require.True(t, r.IsSet(SocketOpened))
	require.False(t, r.IsSet(SocketClosed))

	require.True(t, r.Wait(SocketOpened, 10*time.Millisecond))
	require.False(t, r.Wait(SocketClosed, 10*time.Millisecond))
}

func TestEventNameString(t *testing.T) {
	require.Equal(t, "SOCKET_OPENED", SocketOpened.String())
	require.Equal(t, "EXCEPTION_RAISED", ExceptionRaised.String())
}
