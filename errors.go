// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

import "fmt"

// Reply codes from the AMQP 0-9-1 spec, section 4.2.1.
const (
	ReplySuccess           = 200
	ContentTooLarge        = 311
	NoRoute                = 312
	NoConsumers            = 313
	ConnectionForced       = 320
	InvalidPath            = 402
	AccessRefused          = 403
	NotFound               = 404
	ResourceLocked         = 405
	PreconditionFailed     = 406
	FrameError             = 501
	SyntaxError            = 502
	CommandInvalid         = 503
	ChannelError           = 504
	UnexpectedFrame        = 505
	ResourceError          = 506
	NotAllowed             = 530
	NotImplemented         = 540
	InternalError          = 541
)

// Error captures a broker-originated or connection-level failure,
// matching the (reply_code, reply_text) pair in a Connection.Close or
// Channel.Close method. Recover reports whether the application may
// continue to use other channels/the connection after seeing it.
type Error struct {
	Code    int    // constant code from the AMQP spec
	Reason  string // description of the error
	Server  bool   // true if server sent the fail, false if client application created the error
	Recover bool   // true if this error is recoverable by retrying later or redeclaring
}

func newConnectionError(code uint16, text string) *Error {
	return &Error{
		Code:    int(code),
		Reason:  text,
		Server:  true,
		Recover: softErrors[int(code)],
	}
}

// softErrors are errors that only affect the current channel/method and
// may allow the connection to continue operating for other channels.
var softErrors = map[int]bool{
	ContentTooLarge:    true,
	NoRoute:            true,
	NoConsumers:        true,
	AccessRefused:      true,
	NotFound:           true,
	ResourceLocked:     true,
	PreconditionFailed: true,
}

func (e Error) Error() string {
	return fmt.Sprintf("Exception (%d) Reason: %q", e.Code, e.Reason)
}

// Sentinel usage errors, raised synchronously from the offending call.
var (
	ErrClosed           = &Error{Code: ChannelError, Reason: "channel/connection is not open"}
	ErrChannelMax        = &Error{Code: ChannelError, Reason: "channel id space exhausted"}
	ErrSASL              = &Error{Code: AccessRefused, Reason: "SASL could not negotiate a shared mechanism"}
	ErrCredentials       = &Error{Code: AccessRefused, Reason: "username or password not allowed"}
	ErrVhost             = &Error{Code: AccessRefused, Reason: "no access to this vhost"}
	ErrSyntax            = &Error{Code: SyntaxError, Reason: "invalid field or value inside of a frame"}
	ErrFrame             = &Error{Code: FrameError, Reason: "frame could not be parsed"}
	ErrCommandInvalid    = &Error{Code: CommandInvalid, Reason: "unexpected command received"}
	ErrUnexpectedFrame   = &Error{Code: UnexpectedFrame, Reason: "unexpected frame received"}
	ErrFieldType         = &Error{Code: SyntaxError, Reason: "unsupported table field type"}
)

// ErrInvalidProperty is raised when a Message or Publishing is
// constructed with a properties key outside the fixed AMQP basic
// properties set.
type ErrInvalidProperty struct {
	Key string
}

func (e *ErrInvalidProperty) Error() string {
	return fmt.Sprintf("goamqp: invalid message property key %q", e.Key)
}

// ErrTooManyChannels is raised by Connection.Channel when channel_max
// logical channels are already allocated.
type ErrTooManyChannels struct {
	Max int
}

func (e *ErrTooManyChannels) Error() string {
	return fmt.Sprintf("goamqp: too many channels open (max %d)", e.Max)
}

// ErrChannelClosed is raised against a caller blocked in an RPC when its
// Channel transitions to Closed for any reason other than a
// broker-sent Channel.Close (see RemoteClosedChannelError for that
// case).
type ErrChannelClosed struct {
	Channel int
}

func (e *ErrChannelClosed) Error() string {
	return fmt.Sprintf("goamqp: channel %d closed", e.Channel)
}

// RemoteClosedChannelError is raised on the next call against a
// Channel after the broker sends Channel.Close on it.
type RemoteClosedChannelError struct {
	Channel int
	Code    int
	Reason  string
}

func (e *RemoteClosedChannelError) Error() string {
	return fmt.Sprintf("goamqp: channel %d closed by broker: (%d) %s", e.Channel, e.Code, e.Reason)
}

// RemoteClosedError wraps a broker-initiated Connection.Close.
type RemoteClosedError struct {
	Code   int
	Reason string
}

func (e *RemoteClosedError) Error() string {
	return fmt.Sprintf("goamqp: connection closed by broker: (%d) %s", e.Code, e.Reason)
}

// ConnectionResetError covers transport-level failures: socket errors,
// heartbeat timeouts, TLS handshake failures, AMQP version mismatch.
type ConnectionResetError struct {
	Reason string
}

func (e *ConnectionResetError) Error() string {
	return fmt.Sprintf("goamqp: connection reset: %s", e.Reason)
}

// MessageReturnedError is pushed onto the connection's exception FIFO
// (read with Connection.Err) when the broker returns a
// mandatory/immediate publish it could not route. Channel methods do
// not return it.
type MessageReturnedError struct {
	MessageID string
	ReplyCode int
	ReplyText string
	Exchange  string
	RoutingKey string
}

func (e *MessageReturnedError) Error() string {
	return fmt.Sprintf("goamqp: message %q returned: (%d) %s", e.MessageID, e.ReplyCode, e.ReplyText)
}

// ErrNoActiveTransaction is raised by Tx.Commit/Tx.Rollback when
// Tx.Select has not been called (or the channel closed before it
// could be).
var ErrNoActiveTransaction = fmt.Errorf("goamqp: no active transaction")

// ErrTxConfirmConflict is raised by Tx.Select when the channel is
// already in publisher-confirms mode, and by Channel.Confirm when the
// channel is already transactional: a channel may not be both
// transactional and confirm-mode at once.
var ErrTxConfirmConflict = fmt.Errorf("goamqp: channel cannot be both transactional and in confirm mode")

// replyCodeError maps an AMQP reply code to a typed error value used
// when translating a broker-initiated Connection.Close: the hard
// protocol-error codes become a ConnectionResetError, everything else
// becomes a RemoteClosedError carrying the broker's code and text.
func replyCodeError(code uint16, text string) error {
	switch code {
	case FrameError, SyntaxError, CommandInvalid, ChannelError, UnexpectedFrame, ResourceError,
		NotAllowed, NotImplemented, InternalError:
		return &ConnectionResetError{Reason: fmt.Sprintf("(%d) %s", code, text)}
	default:
		return &RemoteClosedError{Code: int(code), Reason: text}
	}
}
