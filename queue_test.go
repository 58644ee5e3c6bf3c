package goamqp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueDeclareReportsServerAssignedName(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		d, ok := m.(*queueDeclare)
		if !ok || d.Queue != "" || !d.Exclusive {
			return
		}
		b.writeMethod(1, &queueDeclareOk{Queue: "amq.gen-abc123", MessageCount: 0, ConsumerCount: 0})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	q := NewQueue(ch, "")

	name, msgCount, consumerCount, err := q.Declare(false, true, false, false, nil)
	require.NoError(t, err)
	require.Equal(t, "amq.gen-abc123", name)
	require.Equal(t, uint32(0), msgCount)
	require.Equal(t, uint32(0), consumerCount)
	require.Equal(t, "amq.gen-abc123", q.Name)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestQueueDeclarePassive(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		d, ok := m.(*queueDeclare)
		if !ok || !d.Passive {
			return
		}
		b.writeMethod(1, &queueDeclareOk{Queue: "tasks", MessageCount: 42, ConsumerCount: 2})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	q := NewQueue(ch, "tasks")

	msgCount, consumerCount, err := q.DeclarePassive()
	require.NoError(t, err)
	require.Equal(t, uint32(42), msgCount)
	require.Equal(t, uint32(2), consumerCount)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestQueueBindUnbindPurgeDelete(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		bind := b.readMethod()
		bd, ok := bind.(*queueBind)
		if !ok || bd.Queue != "tasks" || bd.Exchange != "ex" {
			return
		}
		b.writeMethod(1, &queueBindOk{})

		unbind := b.readMethod()
		ub, ok := unbind.(*queueUnbind)
		if !ok || ub.Queue != "tasks" {
			return
		}
		b.writeMethod(1, &queueUnbindOk{})

		purge := b.readMethod()
		if _, ok := purge.(*queuePurge); !ok {
			return
		}
		b.writeMethod(1, &queuePurgeOk{MessageCount: 5})

		del := b.readMethod()
		d, ok := del.(*queueDelete)
		if !ok || !d.IfEmpty {
			return
		}
		b.writeMethod(1, &queueDeleteOk{MessageCount: 0})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	q := NewQueue(ch, "tasks")

	require.NoError(t, q.Bind("ex", "rk", false, nil))
	require.NoError(t, q.Unbind("ex", "rk", nil))

	purged, err := q.Purge(false)
	require.NoError(t, err)
	require.Equal(t, uint32(5), purged)

	remaining, err := q.Delete(false, true, false)
	require.NoError(t, err)
	require.Equal(t, uint32(0), remaining)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestQueueConsumeReturnsConsumer(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		c, ok := m.(*basicConsume)
		if !ok || c.Queue != "tasks" {
			return
		}
		b.writeMethod(1, &basicConsumeOk{ConsumerTag: c.ConsumerTag})

		cancel := b.readMethod()
		if _, ok := cancel.(*basicCancel); !ok {
			return
		}
		b.writeMethod(1, &basicCancelOk{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	q := NewQueue(ch, "tasks")

	consumer, err := q.Consume("worker-1", false, false, false, false, nil)
	require.NoError(t, err)
	require.Equal(t, "worker-1", consumer.Tag())
	require.NotNil(t, consumer.Messages())

	require.NoError(t, consumer.Cancel(false))

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestQueueGetDelegatesToChannel(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		if _, ok := m.(*basicGet); !ok {
			return
		}
		b.writeMethod(1, &basicGetEmpty{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	q := NewQueue(ch, "tasks")

	msg, err := q.Get(true)
	require.NoError(t, err)
	require.Nil(t, msg)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}
