package goamqp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelAllocatorSmallestUnused(t *testing.T) {
	a := newChannelAllocator(3)

	id1, err := a.allocate()
	require.NoError(t, err)
	require.Equal(t, 1, id1)

	id2, err := a.allocate()
	require.NoError(t, err)
	require.Equal(t, 2, id2)

	a.release(id1)

	id3, err := a.allocate()
	require.NoError(t, err)
	require.Equal(t, 1, id3, "released id should be reused before advancing past max")
}

func TestChannelAllocatorExhaustion(t *testing.T) {
	a := newChannelAllocator(2)

	_, err := a.allocate()
	require.NoError(t, err)
	_, err = a.allocate()
	require.NoError(t, err)

	_, err = a.allocate()
	require.Error(t, err)
	var tooMany *ErrTooManyChannels
	require.ErrorAs(t, err, &tooMany)
	require.Equal(t, 2, tooMany.Max)
}

func TestChannelAllocatorReleaseUnknownIsNoop(t *testing.T) {
	a := newChannelAllocator(1)
	a.release(99)

	id, err := a.allocate()
	require.NoError(t, err)
	require.Equal(t, 1, id)
}
