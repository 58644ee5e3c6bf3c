package goamqp

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExceptionChannelFIFOOrder(t *testing.T) {
	ec := NewExceptionChannel()
	require.Equal(t, 0, ec.Len())
	require.Nil(t, ec.Drain())

	first := errors.New("first")
	second := errors.New("second")
	ec.Push(first)
	ec.Push(second)
	require.Equal(t, 2, ec.Len())

	require.Equal(t, first, ec.Drain())
	require.Equal(t, second, ec.Drain())
	require.Nil(t, ec.Drain())
	require.Equal(t, 0, ec.Len())
}

func TestExceptionChannelPushNilIsNoop(t *testing.T) {
	ec := NewExceptionChannel()
	ec.Push(nil)
	require.Equal(t, 0, ec.Len())
}

func TestExceptionChannelConcurrentPush(t *testing.T) {
	ec := NewExceptionChannel()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ec.Push(errors.New("boom"))
		}()
	}
	wg.Wait()
	require.Equal(t, 50, ec.Len())
}
