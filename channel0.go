// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// channel0.go implements Channel 0: the connection-level state
// machine driving the handshake and handling the asynchronous frames
// a broker may send at any time once open (Close, Blocked/Unblocked,
// heartbeats). It is pulled out of Connection into its own type so it
// is a distinct, independently testable component.

package goamqp

import (
	"fmt"
)

// negotiated holds the three values Connection.Tune negotiates.
type negotiated struct {
	ChannelMax int
	FrameMax   int
	Heartbeat  int // seconds
}

type channel0 struct {
	events     *EventRegistry
	exceptions *ExceptionChannel
	logger     Logger

	worker *ioWorker // wired after both are constructed (connection.go)

	inbound chan frame
	rpc     chan message

	state lifecycle

	serverProps Table
	major, minor int
}

func newChannel0(events *EventRegistry, exceptions *ExceptionChannel, logger Logger) *channel0 {
	c0 := &channel0{
		events:     events,
		exceptions: exceptions,
		logger:     logger,
		inbound:    make(chan frame, 8),
		rpc:        make(chan message, 1),
	}
	c0.state.set(stateClosed)
	return c0
}

// deliver is invoked by the I/O Worker's reader loop for every frame
// whose channel id is 0.
func (c0 *channel0) deliver(f frame) {
	mf, ok := f.(*methodFrame)
	if !ok {
		// Content frames are never valid on channel 0.
		return
	}

	switch m := mf.Method.(type) {
	case *connectionClose:
		// Translate reply_code, push to the exception channel,
		// reply CloseOk, and tear the socket down so IsClosed/
		// NotifyClose and any blocked caller observe it immediately.
		err := replyCodeError(m.ReplyCode, m.ReplyText)
		c0.exceptions.Push(err)
		c0.events.Set(ExceptionRaised)
		_ = c0.worker.enqueue(writeBatch{&methodFrame{ChannelID: 0, Method: &connectionCloseOk{}}})
		c0.state.set(stateClosed)
		c0.events.Set(Channel0Closed)
		c0.worker.shutdown()

	case *connectionCloseOk:
		c0.state.set(stateClosed)
		c0.events.Set(Channel0Closed)
		// Wake closeLocal, which is blocked in call.
		select {
		case c0.rpc <- m:
		default:
		}

	case *connectionBlocked:
		c0.logger.Warnf("goamqp: connection blocked: %s", m.Reason)
		c0.events.Set(ConnectionBlocked)

	case *connectionUnblocked:
		c0.events.Clear(ConnectionBlocked)
		c0.events.Set(ConnectionUnblocked)

	default:
		// Handshake responses (Start, Tune, OpenOk) are requested
		// synchronously by handshake() below.
		select {
		case c0.rpc <- m:
		default:
			c0.logger.Warnf("goamqp: dropping unexpected channel-0 method %T", m)
		}
	}
}

// call sends a method on channel 0 and blocks for the matching
// response. It is used by the handshake and by closeLocal; any other
// method arriving on channel 0 once Open is an asynchronous
// notification handled in deliver.
func (c0 *channel0) call(req message) (message, error) {
	if req != nil {
		if err := c0.worker.enqueue(writeBatch{&methodFrame{ChannelID: 0, Method: req}}); err != nil {
			return nil, err
		}
	}

	select {
	case resp := <-c0.rpc:
		return resp, nil
	case <-c0.worker.closeOnce:
		if err := c0.exceptions.Drain(); err != nil {
			return nil, err
		}
		return nil, &ConnectionResetError{Reason: "socket closed during handshake"}
	}
}

func (c0 *channel0) sendHeader() error {
	return c0.worker.enqueue(writeBatch{protocolHeader{}})
}

// negotiate implements Connection.Tune's rule: min(client, server) if
// both nonzero, else whichever of client/server is nonzero.
func negotiate(client, server int) int {
	if client == 0 || server == 0 {
		if client > server {
			return client
		}
		return server
	}
	if client < server {
		return client
	}
	return server
}

// handshake drives the strictly-ordered protocol-header/Start/
// StartOk/Tune/TuneOk/Open/OpenOk sequence.
func (c0 *channel0) handshake(cfg Config, uri URI) (negotiated, error) {
	var n negotiated

	c0.state.set(stateOpening)

	if err := c0.sendHeader(); err != nil {
		return n, err
	}

	startResp, err := c0.call(nil)
	if err != nil {
		return n, err
	}
	start, ok := startResp.(*connectionStart)
	if !ok {
		return n, fmt.Errorf("goamqp: expected Connection.Start, got %T", startResp)
	}
	if start.VersionMajor != 0 || start.VersionMinor != 9 {
		err := &ConnectionResetError{Reason: fmt.Sprintf("unsupported AMQP version %d.%d", start.VersionMajor, start.VersionMinor)}
		c0.exceptions.Push(err)
		return n, err
	}
	c0.major, c0.minor = int(start.VersionMajor), int(start.VersionMinor)
	c0.serverProps = start.ServerProperties

	auth, ok := pickSASLMechanism(cfg.SASL, splitMechanisms(start.Mechanisms))
	if !ok {
		return n, ErrSASL
	}

	startOk := &connectionStartOk{
		ClientProperties: clientProperties(),
		Mechanism:        auth.Mechanism(),
		Response:         auth.Response(),
		Locale:           cfg.effectiveLocale(),
	}
	tuneResp, err := c0.callWith(startOk)
	if err != nil {
		return n, ErrCredentials
	}
	tune, ok := tuneResp.(*connectionTune)
	if !ok {
		return n, fmt.Errorf("goamqp: expected Connection.Tune, got %T", tuneResp)
	}

	n.ChannelMax = negotiate(cfg.effectiveChannelMax(uri), int(tune.ChannelMax))
	n.FrameMax = negotiate(cfg.effectiveFrameMax(uri), int(tune.FrameMax))
	n.Heartbeat = negotiate(int(cfg.effectiveHeartbeat(uri).Seconds()), int(tune.Heartbeat))

	c0.state.set(stateOpening) // TuneWait -> effectively still opening

	tuneOk := &connectionTuneOk{
		ChannelMax: uint16(n.ChannelMax),
		FrameMax:   uint32(n.FrameMax),
		Heartbeat:  uint16(n.Heartbeat),
	}
	if err := c0.worker.enqueue(writeBatch{&methodFrame{ChannelID: 0, Method: tuneOk}}); err != nil {
		return n, err
	}

	openOkResp, err := c0.callWith(&connectionOpen{VirtualHost: uri.Vhost})
	if err != nil {
		return n, ErrVhost
	}
	if _, ok := openOkResp.(*connectionOpenOk); !ok {
		return n, fmt.Errorf("goamqp: expected Connection.OpenOk, got %T", openOkResp)
	}

	c0.state.set(stateOpen)
	c0.events.Set(Channel0Opened)

	return n, nil
}

func (c0 *channel0) callWith(req message) (message, error) {
	return c0.call(req)
}

// closeLocal implements the client-initiated half of the
// close-Connection grammar: send Connection.Close, wait for
// Connection.Close-Ok.
func (c0 *channel0) closeLocal(code uint16, reason string) error {
	c0.state.set(stateClosing)
	_, err := c0.call(&connectionClose{ReplyCode: code, ReplyText: reason})
	c0.state.set(stateClosed)
	c0.events.Set(Channel0Closed)
	return err
}

func splitMechanisms(s string) []string {
	var out []string
	word := ""
	for _, r := range s {
		if r == ' ' {
			if word != "" {
				out = append(out, word)
				word = ""
			}
			continue
		}
		word += string(r)
	}
	if word != "" {
		out = append(out, word)
	}
	return out
}

// clientProperties builds the capabilities table Connection.StartOk
// carries: product name, platform, and the capability flags
// (authentication_failure_close, basic.nack, connection.blocked,
// consumer_cancel_notify, publisher_confirms).
func clientProperties() Table {
	return Table{
		"product":  "goamqp",
		"version":  moduleVersion,
		"platform": "Go",
		"capabilities": Table{
			"authentication_failure_close": true,
			"basic.nack":                   true,
			"connection.blocked":           true,
			"consumer_cancel_notify":       true,
			"publisher_confirms":           true,
		},
	}
}

const moduleVersion = "1.0.0"
