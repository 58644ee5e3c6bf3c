package goamqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// dialOpenChannel dials a test connection and opens channel 1 against
// a broker that has already answered the handshake.
func dialOpenChannel(t *testing.T, addr string) (*Connection, *Channel) {
	t.Helper()
	conn := dialTestConnection(t, addr)
	ch, err := conn.Channel()
	require.NoError(t, err)
	return conn, ch
}

func TestChannelPublishChunksBodyAcrossFrameMax(t *testing.T) {
	published := make(chan []byte, 1)

	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 4096)
		b.openChannel(1)

		m := b.readMethod()
		if _, ok := m.(*basicPublish); !ok {
			return
		}

		hf := b.readFrame()
		hdr, ok := hf.(*headerFrame)
		if !ok {
			return
		}

		var body []byte
		for uint64(len(body)) < hdr.Size {
			bf := b.readFrame()
			bodyF, ok := bf.(*bodyFrame)
			if !ok {
				return
			}
			body = append(body, bodyF.Body...)
		}
		published <- body

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	// frame_max of 4096 leaves maxBodyChunk = 4088; send something
	// larger so it spans more than one body frame.
	body := make([]byte, 9000)
	for i := range body {
		body[i] = byte(i % 251)
	}

	_, err := ch.Publish("", "q", false, false, Message{Body: body})
	require.NoError(t, err)

	select {
	case got := <-published:
		require.Equal(t, body, got)
	case <-time.After(2 * time.Second):
		t.Fatal("broker never reassembled the published body")
	}

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelConsumeReceivesDeliveries(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		consume, ok := m.(*basicConsume)
		if !ok {
			return
		}
		b.writeMethod(1, &basicConsumeOk{ConsumerTag: consume.ConsumerTag})

		b.writeMethod(1, &basicDeliver{
			ConsumerTag: consume.ConsumerTag,
			DeliveryTag: 1,
			Exchange:    "ex",
			RoutingKey:  "rk",
		})
		b.writeFrame(&headerFrame{ChannelID: 1, ClassID: classBasic, Size: 5, Properties: Properties{ContentType: "text/plain"}.toWire()})
		b.writeFrame(&bodyFrame{ChannelID: 1, Body: []byte("hello")})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	tag, deliveries, err := ch.Consume("q", "", false, false, false, false, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tag)

	select {
	case msg := <-deliveries:
		require.Equal(t, []byte("hello"), msg.Body)
		require.Equal(t, "text/plain", msg.Properties.ContentType)
		require.Equal(t, "ex", msg.Exchange)
		require.Equal(t, "rk", msg.RoutingKey)
	case <-time.After(2 * time.Second):
		t.Fatal("never received the delivery")
	}

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelCancelClosesDeliveryChannel(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		m := b.readMethod()
		consume, ok := m.(*basicConsume)
		if !ok {
			return
		}
		b.writeMethod(1, &basicConsumeOk{ConsumerTag: consume.ConsumerTag})

		cancel := b.readMethod()
		c, ok := cancel.(*basicCancel)
		if !ok {
			return
		}
		b.writeMethod(1, &basicCancelOk{ConsumerTag: c.ConsumerTag})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	tag, deliveries, err := ch.Consume("q", "mytag", false, false, false, false, nil)
	require.NoError(t, err)
	require.Equal(t, "mytag", tag)

	require.NoError(t, ch.Cancel(tag, false))

	_, open := <-deliveries
	require.False(t, open)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelGetReturnsMessageThenEmpty(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		get1 := b.readMethod()
		if _, ok := get1.(*basicGet); !ok {
			return
		}
		b.writeMethod(1, &basicGetOk{DeliveryTag: 7, Exchange: "ex", RoutingKey: "rk"})
		b.writeFrame(&headerFrame{ChannelID: 1, ClassID: classBasic, Size: 3})
		b.writeFrame(&bodyFrame{ChannelID: 1, Body: []byte("abc")})

		get2 := b.readMethod()
		if _, ok := get2.(*basicGet); !ok {
			return
		}
		b.writeMethod(1, &basicGetEmpty{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	msg, err := ch.Get("q", false)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Equal(t, []byte("abc"), msg.Body)
	require.Equal(t, uint64(7), msg.DeliveryTag)

	msg, err = ch.Get("q", false)
	require.NoError(t, err)
	require.Nil(t, msg)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelAckNackReject(t *testing.T) {
	acks := make(chan *basicAck, 1)
	nacks := make(chan *basicNack, 1)
	rejects := make(chan *basicReject, 1)

	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		for i := 0; i < 3; i++ {
			m := b.readMethod()
			switch v := m.(type) {
			case *basicAck:
				acks <- v
			case *basicNack:
				nacks <- v
			case *basicReject:
				rejects <- v
			}
		}

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	require.NoError(t, ch.Ack(1, true))
	require.NoError(t, ch.Nack(2, false, true))
	require.NoError(t, ch.Reject(3, false))

	require.Equal(t, &basicAck{DeliveryTag: 1, Multiple: true}, <-acks)
	require.Equal(t, &basicNack{DeliveryTag: 2, Multiple: false, Requeue: true}, <-nacks)
	require.Equal(t, &basicReject{DeliveryTag: 3, Requeue: false}, <-rejects)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelQosRecoverFlow(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		qos := b.readMethod()
		if _, ok := qos.(*basicQos); !ok {
			return
		}
		b.writeMethod(1, &basicQosOk{})

		recover := b.readMethod()
		if _, ok := recover.(*basicRecover); !ok {
			return
		}
		b.writeMethod(1, &basicRecoverOk{})

		flow := b.readMethod()
		fl, ok := flow.(*channelFlow)
		if !ok {
			return
		}
		b.writeMethod(1, &channelFlowOk{Active: fl.Active})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	require.NoError(t, ch.Qos(10, 0, false))
	require.NoError(t, ch.Recover(true))
	require.NoError(t, ch.Flow(false))

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelConfirmModeAcksAndNacks(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		sel := b.readMethod()
		if _, ok := sel.(*confirmSelect); !ok {
			return
		}
		b.writeMethod(1, &confirmSelectOk{})

		for i := 0; i < 2; i++ {
			m := b.readMethod()
			if _, ok := m.(*basicPublish); !ok {
				return
			}
			_ = b.readFrame() // header
		}

		b.writeMethod(1, &basicAck{DeliveryTag: 1, Multiple: false})
		b.writeMethod(1, &basicNack{DeliveryTag: 2, Multiple: false})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	require.NoError(t, ch.Confirm(false))

	ack := make(chan uint64, 1)
	nack := make(chan uint64, 1)
	ch.NotifyConfirm(ack, nack)

	tag1, err := ch.Publish("", "q", false, false, Message{})
	require.NoError(t, err)
	require.Equal(t, uint64(1), tag1)

	tag2, err := ch.Publish("", "q", false, false, Message{})
	require.NoError(t, err)
	require.Equal(t, uint64(2), tag2)

	select {
	case tag := <-ack:
		require.Equal(t, uint64(1), tag)
	case <-time.After(2 * time.Second):
		t.Fatal("never received ack")
	}

	select {
	case tag := <-nack:
		require.Equal(t, uint64(2), tag)
	case <-time.After(2 * time.Second):
		t.Fatal("never received nack")
	}

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelConfirmAndTxAreMutuallyExclusive(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		sel := b.readMethod()
		if _, ok := sel.(*confirmSelect); !ok {
			return
		}
		b.writeMethod(1, &confirmSelectOk{})

		b.expectChannelClose(1)
		b.expectConnectionClose()
	})

	conn, ch := dialOpenChannel(t, addr)

	require.NoError(t, ch.Confirm(false))

	tx := NewTx(ch)
	err := tx.Select()
	require.ErrorIs(t, err, ErrTxConfirmConflict)

	require.NoError(t, ch.Close(ReplySuccess, "bye"))
	require.NoError(t, conn.Close())
}

func TestChannelRemoteCloseDeliversError(t *testing.T) {
	addr := listenBroker(t, func(b *testBroker) {
		b.handshake(0, 2047, 131072)
		b.openChannel(1)

		b.writeMethod(1, &channelClose{ReplyCode: NotFound, ReplyText: "no such queue"})
		closeOk := b.readMethod()
		_, _ = closeOk.(*channelCloseOk)

		b.expectConnectionClose()
	})

	conn, _ := dialOpenChannel(t, addr)

	deadline := time.After(2 * time.Second)
	var err error
	for err == nil {
		err = conn.exceptions.Drain()
		if err != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("never observed the remote channel close as an exception")
		case <-time.After(10 * time.Millisecond):
		}
	}

	var remoteErr *RemoteClosedChannelError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, int(NotFound), remoteErr.Code)

	require.NoError(t, conn.Close())
}
