// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

// Frame types: 1-byte type, 2-byte channel, 4-byte length
// (big-endian), payload, 1-byte 0xCE terminator.
const (
	frameMethod    = 1
	frameHeader    = 2
	frameBody      = 3
	frameHeartbeat = 8
	frameEnd       = 0xCE

	frameMinSize = 4096
)

// protocolHeader is the 8-byte literal "AMQP\x00\x00\x09\x01" sent
// once at the start of every connection, before Connection.Start. It
// is the only frame with no channel id and no frame-end octet.
type protocolHeader struct{}

func (protocolHeader) channel() int { return 0 }

// frame is any of the four frame kinds: method, content header,
// content body, heartbeat. protocolHeader also satisfies it so the
// writer can treat it uniformly, even though it is wire-special.
type frame interface {
	channel() int
}

// methodFrame carries a synchronous AMQP command with its arguments.
type methodFrame struct {
	ChannelID uint16
	ClassID   uint16
	MethodID  uint16
	Method    message
}

func (f *methodFrame) channel() int { return int(f.ChannelID) }

// headerFrame carries message properties and the total body length
// that the following bodyFrames must sum to.
type headerFrame struct {
	ChannelID  uint16
	ClassID    uint16
	weight     uint16
	Size       uint64
	Properties properties
}

func (f *headerFrame) channel() int { return int(f.ChannelID) }

// bodyFrame carries one chunk of a message's opaque byte payload.
type bodyFrame struct {
	ChannelID uint16
	Body      []byte
}

func (f *bodyFrame) channel() int { return int(f.ChannelID) }

// heartbeatFrame is always empty and always on channel 0.
type heartbeatFrame struct {
	ChannelID uint16
}

func (f *heartbeatFrame) channel() int { return int(f.ChannelID) }

// message is implemented by every generated AMQP method struct
// (Connection.Start, Channel.Open, Basic.Publish, ...). id returns the
// (class, method) pair used both to marshal the wire header and to
// build the valid-response-set lookups in channel.go.
type message interface {
	id() (uint16, uint16)
	wait() bool
	read(r *reader) error
	write(w *writer) error
}
