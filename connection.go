// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// connection.go implements the Connection Facade: the public entry
// point that wires together the Event Registry, Exception Channel,
// I/O Worker, Channel 0, Heartbeat Timer, and the channel allocator
// and registry, delegating each concern to its own component instead
// of folding everything into one struct's methods.

package goamqp

import (
	"crypto/tls"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultFrameMax = 131072

// Config customizes a Dial beyond what the URI itself encodes. Every
// zero-valued field falls back to the corresponding URI value or, for
// TLSClientConfig/Logger/SASL, to a sensible default.
type Config struct {
	SASL            []Authentication
	TLSClientConfig *tls.Config
	Logger          Logger

	Heartbeat  time.Duration
	ChannelMax int
	FrameMax   int
	Locale     string
	Timeout    time.Duration
}

func (c Config) effectiveTimeout(uri URI) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return uri.Timeout
}

func (c Config) effectiveChannelMax(uri URI) int {
	if c.ChannelMax > 0 {
		return c.ChannelMax
	}
	return uri.ChannelMax
}

func (c Config) effectiveFrameMax(uri URI) int {
	if c.FrameMax > 0 {
		return c.FrameMax
	}
	if uri.FrameMax > 0 {
		return uri.FrameMax
	}
	return defaultFrameMax
}

func (c Config) effectiveHeartbeat(uri URI) time.Duration {
	if c.Heartbeat > 0 {
		return c.Heartbeat
	}
	return uri.Heartbeat
}

func (c Config) effectiveLocale() string {
	if c.Locale != "" {
		return c.Locale
	}
	return defaultLocale
}

// Connection is a single synchronous AMQP 0-9-1 connection: one
// socket, one I/O Worker, one Channel 0, and any number of
// numbered Channels allocated off it.
type Connection struct {
	uri URI
	cfg Config

	logger     Logger
	events     *EventRegistry
	exceptions *ExceptionChannel

	worker    *ioWorker
	channel0  *channel0
	heartbeat *heartbeatTimer

	registry  *channelRegistry
	allocator *channelAllocator

	negotiated negotiated

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the broker at uri using default settings and the
// URI's own credentials via PLAIN.
func Dial(uri string) (*Connection, error) {
	return DialConfig(uri, Config{})
}

// DialTLS connects using amqps:// semantics with an explicit TLS
// configuration, bypassing the query-string TLS options entirely.
func DialTLS(uri string, tlsConfig *tls.Config) (*Connection, error) {
	return DialConfig(uri, Config{TLSClientConfig: tlsConfig})
}

// DialConfig connects to the broker at uri with caller-supplied
// overrides.
func DialConfig(rawURI string, cfg Config) (*Connection, error) {
	parsed, err := ParseURI(rawURI)
	if err != nil {
		return nil, err
	}
	return open(parsed, cfg)
}

func open(uri URI, cfg Config) (*Connection, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NewLogrusLogger(nil, "goamqp")
	}
	if len(cfg.SASL) == 0 {
		cfg.SASL = []Authentication{uri.PlainAuth()}
	}
	if cfg.Locale == "" {
		cfg.Locale = uri.Locale
	}

	events := NewEventRegistry()
	exceptions := NewExceptionChannel()

	conn, err := dialSocket(uri, cfg)
	if err != nil {
		return nil, err
	}
	events.Set(SocketOpened)

	registry := newChannelRegistry()
	ch0 := newChannel0(events, exceptions, logger)
	worker := newIOWorker(conn, logger, events, exceptions, registry, ch0)
	ch0.worker = worker

	go worker.runWriter()
	go worker.runReader()

	n, err := ch0.handshake(cfg, uri)
	if err != nil {
		worker.shutdown()
		return nil, err
	}

	hb := newHeartbeatTimer(time.Duration(n.Heartbeat)*time.Second, worker, exceptions, events, logger)
	worker.heartbeat = hb
	go hb.run()

	c := &Connection{
		uri:        uri,
		cfg:        cfg,
		logger:     logger,
		events:     events,
		exceptions: exceptions,
		worker:     worker,
		channel0:   ch0,
		heartbeat:  hb,
		registry:   registry,
		allocator:  newChannelAllocator(n.ChannelMax),
		negotiated: n,
	}
	return c, nil
}

// Channel allocates a new AMQP channel, the smallest unused id, and
// completes its Channel.Open handshake.
func (c *Connection) Channel() (*Channel, error) {
	id, err := c.allocator.allocate()
	if err != nil {
		return nil, err
	}

	ch := newChannel(uint16(id), c.worker, c.exceptions, c.logger, c.negotiated.FrameMax)
	c.registry.add(ch)

	if err := ch.open(); err != nil {
		c.registry.remove(uint16(id))
		c.allocator.release(id)
		return nil, err
	}
	return ch, nil
}

// IsClosed reports whether the connection's socket has gone away,
// whether by local Close, broker-initiated Connection.Close, or
// transport failure.
func (c *Connection) IsClosed() bool {
	return c.events.IsSet(SocketClosed)
}

// Err returns the oldest pending error, or nil if none is pending.
// The FIFO is shared by the whole connection: channel-level errors
// (a broker-sent Channel.Close, a returned message) are pushed to it
// too and are returned here.
func (c *Connection) Err() error {
	return c.exceptions.Drain()
}

// NotifyClose reports, blocking up to timeout, whether the socket has
// closed. A zero timeout blocks until it does.
func (c *Connection) NotifyClose(timeout time.Duration) bool {
	return c.events.Wait(SocketClosed, timeout)
}

// NotifyBlocked reports whether the broker has asked the connection
// to pause publishing (TCP back-pressure / memory or disk alarm).
func (c *Connection) NotifyBlocked() bool {
	return c.events.IsSet(ConnectionBlocked)
}

// Close performs an orderly shutdown: closes every open channel
// concurrently, then Channel 0, then stops the heartbeat timer and
// the I/O Worker. It is idempotent.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		var g errgroup.Group
		for _, ch := range c.registry.all() {
			ch := ch
			g.Go(func() error {
				err := ch.Close(ReplySuccess, "connection closing")
				c.registry.remove(uint16(ch.id))
				c.allocator.release(int(ch.id))
				return err
			})
		}
		_ = g.Wait()

		c.closeErr = c.channel0.closeLocal(ReplySuccess, "goodbye")
		c.heartbeat.Stop()
		c.worker.shutdown()
	})
	return c.closeErr
}
