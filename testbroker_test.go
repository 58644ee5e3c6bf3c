package goamqp

import (
	"bufio"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testBroker is a minimal scripted AMQP peer driving the client state
// machine over a real socket: Connection.open dials with net.Dial, so
// the fake peer needs a real net.Listener rather than net.Pipe.
//
// Assertions inside a testBroker method run on the broker's own
// goroutine, never the test's goroutine, so they use assert (which
// records a failure and continues) rather than require (whose FailNow
// must run on the test goroutine).
type testBroker struct {
	t    *testing.T
	conn net.Conn
	r    *reader
	w    *writer
}

// listenBroker starts a loopback listener and runs fn against the
// first accepted connection on its own goroutine, returning the
// address a client should dial.
func listenBroker(t *testing.T, fn func(b *testBroker)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		b := &testBroker{
			t:    t,
			conn: conn,
			r:    &reader{r: bufio.NewReader(conn)},
			w:    &writer{w: conn},
		}
		fn(b)
	}()

	return ln.Addr().String()
}

func (b *testBroker) readProtocolHeader() {
	buf := make([]byte, 8)
	_, err := io.ReadFull(b.conn, buf)
	if !assert.NoError(b.t, err) {
		return
	}
	assert.Equal(b.t, []byte("AMQP\x00\x00\x09\x01"), buf)
}

func (b *testBroker) readFrame() frame {
	f, err := b.r.ReadFrame()
	assert.NoError(b.t, err)
	return f
}

// readMethod reads one frame and asserts it is a method frame,
// returning the decoded message (nil if the assertion failed).
func (b *testBroker) readMethod() message {
	f := b.readFrame()
	mf, ok := f.(*methodFrame)
	if !assert.True(b.t, ok, "expected a method frame, got %T", f) {
		return nil
	}
	return mf.Method
}

func (b *testBroker) writeMethod(channel uint16, m message) {
	err := b.w.WriteFrame(&methodFrame{ChannelID: channel, Method: m})
	assert.NoError(b.t, err)
}

func (b *testBroker) writeFrame(f frame) {
	err := b.w.WriteFrame(f)
	assert.NoError(b.t, err)
}

// handshake drives the strictly-ordered Start/StartOk/Tune/TuneOk/
// Open/OpenOk sequence as the broker side, offering PLAIN and the
// given tuning parameters.
func (b *testBroker) handshake(heartbeat, channelMax, frameMax int) {
	b.readProtocolHeader()

	b.writeMethod(0, &connectionStart{
		VersionMajor:     0,
		VersionMinor:     9,
		ServerProperties: Table{"product": "testBroker"},
		Mechanisms:       "PLAIN",
		Locales:          "en_US",
	})

	startOk := b.readMethod()
	assert.IsType(b.t, &connectionStartOk{}, startOk)

	b.writeMethod(0, &connectionTune{
		ChannelMax: uint16(channelMax),
		FrameMax:   uint32(frameMax),
		Heartbeat:  uint16(heartbeat),
	})

	tuneOk := b.readMethod()
	assert.IsType(b.t, &connectionTuneOk{}, tuneOk)

	open := b.readMethod()
	assert.IsType(b.t, &connectionOpen{}, open)

	b.writeMethod(0, &connectionOpenOk{})
}

// openChannel answers a pending Channel.Open with Channel.Open-Ok.
func (b *testBroker) openChannel(id uint16) {
	m := b.readMethod()
	assert.IsType(b.t, &channelOpen{}, m)
	b.writeMethod(id, &channelOpenOk{})
}

// expectConnectionClose reads a client-initiated Connection.Close and
// answers it, the broker side of Connection.Close.
func (b *testBroker) expectConnectionClose() {
	m := b.readMethod()
	assert.IsType(b.t, &connectionClose{}, m)
	b.writeMethod(0, &connectionCloseOk{})
}

// expectChannelClose reads a client-initiated Channel.Close on id and
// answers it.
func (b *testBroker) expectChannelClose(id uint16) {
	m := b.readMethod()
	assert.IsType(b.t, &channelClose{}, m)
	b.writeMethod(id, &channelCloseOk{})
}
