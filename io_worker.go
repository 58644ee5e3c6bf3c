// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// io_worker.go implements the I/O Worker: the component that owns the
// socket exclusively, marshals every outbound frame, and demarshals
// and routes every inbound one. A dedicated reader goroutine and a
// dedicated writer goroutine each own one half of net.Conn (which
// explicitly permits concurrent use from one reader and one writer
// goroutine); every other goroutine hands outbound frames to the
// writer through a channel rather than touching the socket directly,
// so no caller goroutine ever calls a socket API, even indirectly
// through a mutex (see DESIGN.md).
package goamqp

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// writeBatch is one or more frames that MUST land on the wire
// contiguously, so that concurrent publishes on different channels can
// never interleave their frames. A single RPC method is a batch of
// one; a publish is a batch of 1+1+N (method, header, N body chunks).
type writeBatch []frame

// ioWorker owns the socket for the lifetime of one Connection.
type ioWorker struct {
	logger     Logger
	events     *EventRegistry
	exceptions *ExceptionChannel

	conn   net.Conn
	writer *writer

	queue chan writeBatch

	registry *channelRegistry
	channel0 *channel0

	heartbeat *heartbeatTimer // set after Connection.Tune negotiates; nil beforehand

	wrote chan struct{} // non-blocking fan-out: "a frame was written" tick for the heartbeat timer

	closeOnce chan struct{}
}

func newIOWorker(conn net.Conn, logger Logger, events *EventRegistry, exceptions *ExceptionChannel, registry *channelRegistry, ch0 *channel0) *ioWorker {
	return &ioWorker{
		logger:     logger,
		events:     events,
		exceptions: exceptions,
		conn:       conn,
		writer:     &writer{w: bufio.NewWriter(conn)},
		queue:      make(chan writeBatch, 64),
		registry:   registry,
		channel0:   ch0,
		wrote:      make(chan struct{}, 1),
		closeOnce:  make(chan struct{}),
	}
}

// dialSocket dials the broker: TCP_NODELAY, an optional TLS wrap using
// the configured material, and a bounded connect timeout.
func dialSocket(uri URI, cfg Config) (net.Conn, error) {
	addr := net.JoinHostPort(uri.Host, fmt.Sprintf("%d", uri.Port))

	dialer := net.Dialer{Timeout: cfg.effectiveTimeout(uri)}
	raw, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("goamqp: dial %s: %w", addr, err)
	}
	if tcpConn, ok := raw.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	if !uri.AMQPS() && cfg.TLSClientConfig == nil {
		return raw, nil
	}

	tlsConfig, err := buildTLSConfig(uri, cfg)
	if err != nil {
		raw.Close()
		return nil, err
	}

	client := tls.Client(raw, tlsConfig)
	client.SetDeadline(time.Now().Add(cfg.effectiveTimeout(uri)))
	if err := client.Handshake(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("goamqp: TLS handshake: %w", err)
	}
	client.SetDeadline(time.Time{})
	return client, nil
}

// buildTLSConfig turns the URI's TLS options (cacertfile, certfile,
// keyfile, verify, ssl_version) into a *tls.Config. Config.TLSClientConfig,
// if supplied directly by the caller, is used as-is and these options
// are ignored — this is the DialTLS escape hatch.
func buildTLSConfig(uri URI, cfg Config) (*tls.Config, error) {
	if cfg.TLSClientConfig != nil {
		c := cfg.TLSClientConfig.Clone()
		if c.ServerName == "" {
			c.ServerName = uri.Host
		}
		return c, nil
	}

	tlsConfig := &tls.Config{
		ServerName: uri.Host,
		MinVersion: tlsMinVersion(uri.SSLVersion),
	}

	switch uri.Verify {
	case VerifyIgnore:
		tlsConfig.InsecureSkipVerify = true
	case VerifyOptional, VerifyRequired:
		tlsConfig.InsecureSkipVerify = false
	}

	if uri.CACertFile != "" {
		pem, err := os.ReadFile(uri.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("goamqp: reading cacertfile: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("goamqp: cacertfile contained no usable certificates")
		}
		tlsConfig.RootCAs = pool
	}

	if uri.CertFile != "" && uri.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(uri.CertFile, uri.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("goamqp: loading client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func tlsMinVersion(v TLSVersion) uint16 {
	switch v {
	case TLSv1:
		return tls.VersionTLS10
	case TLSv1_1:
		return tls.VersionTLS11
	case TLSv1_2:
		return tls.VersionTLS12
	default:
		return tls.VersionTLS10
	}
}

// enqueue submits a batch to the write queue for the I/O Worker to
// marshal and send, preserving per-batch contiguity. It is the only
// path by which any other goroutine causes bytes to reach the socket.
func (w *ioWorker) enqueue(batch writeBatch) error {
	select {
	case w.queue <- batch:
		return nil
	case <-w.closeOnce:
		return &ConnectionResetError{Reason: "connection closed"}
	}
}

// runWriter drains the write queue in FIFO order, writing every frame
// of a batch back-to-back before moving to the next batch.
func (w *ioWorker) runWriter() {
	for {
		select {
		case batch, ok := <-w.queue:
			if !ok {
				return
			}
			for _, f := range batch {
				if err := w.writer.WriteFrame(f); err != nil {
					w.fail(&ConnectionResetError{Reason: err.Error()})
					return
				}
			}
			if err := w.flush(); err != nil {
				w.fail(&ConnectionResetError{Reason: err.Error()})
				return
			}
			select {
			case w.wrote <- struct{}{}:
			default:
			}
		case <-w.closeOnce:
			// Flush whatever is already queued before the socket goes
			// away on normal shutdown.
			for {
				select {
				case batch := <-w.queue:
					for _, f := range batch {
						_ = w.writer.WriteFrame(f)
					}
				default:
					_ = w.flush()
					return
				}
			}
		}
	}
}

type flusher interface {
	Flush() error
}

func (w *ioWorker) flush() error {
	if f, ok := w.writer.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// runReader reads and demarshals frames until the socket errs or is
// closed, routing each to Channel 0 or the frame's channel id.
func (w *ioWorker) runReader() {
	frames := &reader{r: bufio.NewReader(w.conn)}

	for {
		f, err := frames.ReadFrame()
		if err != nil {
			select {
			case <-w.closeOnce:
				// expected: shutdown closed our own socket out from under us
			default:
				w.fail(&ConnectionResetError{Reason: err.Error()})
			}
			return
		}

		if w.heartbeat != nil {
			w.heartbeat.noteReceived()
		}

		switch fr := f.(type) {
		case *heartbeatFrame:
			// Heartbeat frames bypass the inbound queue entirely and
			// notify the heartbeat timer directly.
			continue
		default:
			w.route(fr)
		}
	}
}

// route sends channel 0 frames to Channel 0 and all others to their
// registered channel; unknown ids are dropped with a warning.
func (w *ioWorker) route(f frame) {
	if f.channel() == 0 {
		w.channel0.deliver(f)
		return
	}

	ch := w.registry.get(uint16(f.channel()))
	if ch == nil {
		w.logger.Warnf("goamqp: dropping frame for unknown channel %d", f.channel())
		return
	}
	ch.deliver(f)
}

// fail pushes a terminal error and begins shutdown: the I/O worker and
// Channel 0 never throw across goroutines, they push into the
// exception channel, set SOCKET_CLOSE, and wake waiters.
func (w *ioWorker) fail(err error) {
	w.exceptions.Push(err)
	w.events.Set(ExceptionRaised)
	w.shutdown()
}

// shutdown is idempotent: it may be called from the reader goroutine
// (on socket error), the writer goroutine (on write error), or the
// Connection facade (on Close()).
func (w *ioWorker) shutdown() {
	select {
	case <-w.closeOnce:
		return
	default:
		close(w.closeOnce)
	}
	w.events.Set(SocketClose)
	w.conn.Close()
	w.events.Set(SocketClosed)
}

var _ io.Closer = (*ioWorker)(nil)

// Close implements io.Closer so ioWorker can be deferred like any
// other resource in tests.
func (w *ioWorker) Close() error {
	w.shutdown()
	return nil
}
