package goamqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExchangeDeclareAndPassive(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		decl := b.readMethod()
		d, ok := decl.(*exchangeDeclare)
		if !ok {
			return
		}
		if d.Exchange != "orders" || d.Type != ExchangeTopic || !d.Durable {
			return
		}
		b.writeMethod(1, &exchangeDeclareOk{})

		passive := b.readMethod()
		p, ok := passive.(*exchangeDeclare)
		if !ok || !p.Passive {
			return
		}
		b.writeMethod(1, &exchangeDeclareOk{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	ex := NewExchange(ch, "orders")

	require.NoError(t, ex.Declare(ExchangeTopic, true, false, false, false, nil))
	require.NoError(t, ex.DeclarePassive(ExchangeTopic))

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestExchangeBindUnbindDelete(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		bind := b.readMethod()
		bnd, ok := bind.(*exchangeBind)
		if !ok || bnd.Destination != "fanout-dest" || bnd.Source != "fanout-src" {
			return
		}
		b.writeMethod(1, &exchangeBindOk{})

		unbind := b.readMethod()
		unb, ok := unbind.(*exchangeUnbind)
		if !ok || unb.Destination != "fanout-dest" {
			return
		}
		b.writeMethod(1, &exchangeUnbindOk{})

		del := b.readMethod()
		d, ok := del.(*exchangeDelete)
		if !ok || !d.IfUnused {
			return
		}
		b.writeMethod(1, &exchangeDeleteOk{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	ex := NewExchange(ch, "fanout-dest")

	require.NoError(t, ex.Bind("fanout-src", "", false, nil))
	require.NoError(t, ex.Unbind("fanout-src", "", false, nil))
	require.NoError(t, ex.Delete(true, false))

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestExchangePublishDelegatesToChannel(t *testing.T) {
	published := make(chan *basicPublish, 1)

	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		pub, ok := m.(*basicPublish)
		if !ok {
			return
		}
		_ = b.readFrame() // header

		published <- pub

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)
	ex := NewExchange(ch, "orders")

	_, err := ex.Publish("order.created", true, false, Message{Body: []byte("x")})
	require.NoError(t, err)

	select {
	case pub := <-published:
		require.Equal(t, "orders", pub.Exchange)
		require.Equal(t, "order.created", pub.RoutingKey)
		require.True(t, pub.Mandatory)
	case <-time.After(2 * time.Second):
		t.Fatal("broker never saw the publish")
	}

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}
