package goamqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfirmTrackerNextAssignsSequentialTags(t *testing.T) {
	ct := newConfirmTracker()
	require.Equal(t, uint64(1), ct.next())
	require.Equal(t, uint64(2), ct.next())
	require.Equal(t, uint64(3), ct.next())
}

func TestConfirmTrackerSingleAck(t *testing.T) {
	ct := newConfirmTracker()
	ack := make(chan uint64, 1)
	ct.subscribe(ack, nil)

	ct.next()
	ct.next()
	ct.ack(1, false)

	select {
	case tag := <-ack:
		require.Equal(t, uint64(1), tag)
	case <-time.After(time.Second):
		t.Fatal("ack never fanned out")
	}

	// tag 2 remains pending.
	require.True(t, ct.pending[2])
}

func TestConfirmTrackerMultipleAckResolvesAscending(t *testing.T) {
	ct := newConfirmTracker()
	ack := make(chan uint64, 8)
	ct.subscribe(ack, nil)

	for i := 0; i < 5; i++ {
		ct.next()
	}
	ct.ack(3, true)

	var got []uint64
	for i := 0; i < 3; i++ {
		select {
		case tag := <-ack:
			got = append(got, tag)
		case <-time.After(time.Second):
			t.Fatalf("expected 3 acks, got %d", i)
		}
	}
	require.Equal(t, []uint64{1, 2, 3}, got)
	require.False(t, ct.pending[1])
	require.False(t, ct.pending[2])
	require.False(t, ct.pending[3])
	require.True(t, ct.pending[4])
	require.True(t, ct.pending[5])
}

func TestConfirmTrackerNack(t *testing.T) {
	ct := newConfirmTracker()
	nack := make(chan uint64, 1)
	ct.subscribe(nil, nack)

	ct.next()
	ct.nack(1, false)

	select {
	case tag := <-nack:
		require.Equal(t, uint64(1), tag)
	case <-time.After(time.Second):
		t.Fatal("nack never fanned out")
	}
}

func TestConfirmTrackerFanoutDoesNotBlockOnFullChannel(t *testing.T) {
	ct := newConfirmTracker()
	ack := make(chan uint64) // unbuffered, no reader yet
	ct.subscribe(ack, nil)

	ct.next()
	done := make(chan struct{})
	go func() {
		ct.ack(1, false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ack blocked the caller despite no ready receiver")
	}

	select {
	case tag := <-ack:
		require.Equal(t, uint64(1), tag)
	case <-time.After(time.Second):
		t.Fatal("fanout goroutine never delivered the tag")
	}
}
