package goamqp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNegotiateMinMaxRules(t *testing.T) {
	require.Equal(t, 10, negotiate(10, 20))
	require.Equal(t, 10, negotiate(20, 10))
	require.Equal(t, 20, negotiate(0, 20))
	require.Equal(t, 20, negotiate(20, 0))
	require.Equal(t, 0, negotiate(0, 0))
}

func TestHandshakeHappyPath(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.expectConnectionClose()
	})

	conn, err := DialConfig(fmt.Sprintf("amqp://guest:guest@%s/", addr), Config{Timeout: 2 * time.Second})
	require.NoError(t, err)
	require.False(t, conn.IsClosed())
	require.Equal(t, 2047, conn.negotiated.ChannelMax)
	require.Equal(t, 131072, conn.negotiated.FrameMax)

	require.NoError(t, conn.Close())
	require.True(t, conn.IsClosed())
}

func TestHandshakeVersionMismatch(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.readProtocolHeader()
		b.writeMethod(0, &connectionStart{
			VersionMajor: 1,
			VersionMinor: 0,
			Mechanisms:   "PLAIN",
			Locales:      "en_US",
		})
	})

	_, err := DialConfig(fmt.Sprintf("amqp://guest:guest@%s/", addr), Config{Timeout: 2 * time.Second})
	require.Error(t, err)
}

func TestHandshakeNoSharedSASLMechanism(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.readProtocolHeader()
		b.writeMethod(0, &connectionStart{
			VersionMajor: 0,
			VersionMinor: 9,
			Mechanisms:   "AMQPLAIN",
			Locales:      "en_US",
		})
	})

	_, err := DialConfig(fmt.Sprintf("amqp://guest:guest@%s/", addr), Config{Timeout: 2 * time.Second})
	require.ErrorIs(t, err, ErrSASL)
}

func TestHandshakeTuneNegotiatesSmallerChannelMax(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 10, 131072)
		b.expectConnectionClose()
	})

	conn, err := DialConfig(fmt.Sprintf("amqp://guest:guest@%s/?channel_max=2000", addr), Config{Timeout: 2 * time.Second})
	require.NoError(t, err)
	require.Equal(t, 10, conn.negotiated.ChannelMax)
	require.NoError(t, conn.Close())
}

func TestSplitMechanisms(t *testing.T) {
	require.Equal(t, []string{"PLAIN", "AMQPLAIN"}, splitMechanisms("PLAIN AMQPLAIN"))
	require.Nil(t, splitMechanisms(""))
	require.Equal(t, []string{"PLAIN"}, splitMechanisms("PLAIN"))
}
