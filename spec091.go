// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

// This file implements the method codec: marshal/unmarshal for every
// AMQP method used by the connection engine, plus the class/method id
// constants from the published AMQP 0-9-1 XML. It intentionally
// mirrors the structure of
// a generated spec091.go (as streadway/amqp and rabbitmq/amqp091-go
// both ship one) but is hand-written, trimmed to the methods this
// core actually drives.

package goamqp

import "fmt"

const (
	classConnection = 10
	classChannel    = 20
	classExchange   = 40
	classQueue      = 50
	classBasic      = 60
	classConfirm    = 85
	classTx         = 90
)

// decodeMessage constructs the zero value for a (class, method) id
// pair so ReadFrame can demarshal into it.
func decodeMessage(classID, methodID uint16) (message, error) {
	switch classID {
	case classConnection:
		switch methodID {
		case 10:
			return &connectionStart{}, nil
		case 11:
			return &connectionStartOk{}, nil
		case 30:
			return &connectionTune{}, nil
		case 31:
			return &connectionTuneOk{}, nil
		case 40:
			return &connectionOpen{}, nil
		case 41:
			return &connectionOpenOk{}, nil
		case 50:
			return &connectionClose{}, nil
		case 51:
			return &connectionCloseOk{}, nil
		case 60:
			return &connectionBlocked{}, nil
		case 61:
			return &connectionUnblocked{}, nil
		}
	case classChannel:
		switch methodID {
		case 10:
			return &channelOpen{}, nil
		case 11:
			return &channelOpenOk{}, nil
		case 20:
			return &channelFlow{}, nil
		case 21:
			return &channelFlowOk{}, nil
		case 40:
			return &channelClose{}, nil
		case 41:
			return &channelCloseOk{}, nil
		}
	case classExchange:
		switch methodID {
		case 10:
			return &exchangeDeclare{}, nil
		case 11:
			return &exchangeDeclareOk{}, nil
		case 20:
			return &exchangeDelete{}, nil
		case 21:
			return &exchangeDeleteOk{}, nil
		case 30:
			return &exchangeBind{}, nil
		case 31:
			return &exchangeBindOk{}, nil
		case 40:
			return &exchangeUnbind{}, nil
		case 51:
			return &exchangeUnbindOk{}, nil
		}
	case classQueue:
		switch methodID {
		case 10:
			return &queueDeclare{}, nil
		case 11:
			return &queueDeclareOk{}, nil
		case 20:
			return &queueBind{}, nil
		case 21:
			return &queueBindOk{}, nil
		case 30:
			return &queuePurge{}, nil
		case 31:
			return &queuePurgeOk{}, nil
		case 40:
			return &queueDelete{}, nil
		case 41:
			return &queueDeleteOk{}, nil
		case 50:
			return &queueUnbind{}, nil
		case 51:
			return &queueUnbindOk{}, nil
		}
	case classBasic:
		switch methodID {
		case 10:
			return &basicQos{}, nil
		case 11:
			return &basicQosOk{}, nil
		case 20:
			return &basicConsume{}, nil
		case 21:
			return &basicConsumeOk{}, nil
		case 30:
			return &basicCancel{}, nil
		case 31:
			return &basicCancelOk{}, nil
		case 40:
			return &basicPublish{}, nil
		case 50:
			return &basicReturn{}, nil
		case 60:
			return &basicDeliver{}, nil
		case 70:
			return &basicGet{}, nil
		case 71:
			return &basicGetOk{}, nil
		case 72:
			return &basicGetEmpty{}, nil
		case 80:
			return &basicAck{}, nil
		case 90:
			return &basicReject{}, nil
		case 100:
			return &basicRecoverAsync{}, nil
		case 110:
			return &basicRecover{}, nil
		case 111:
			return &basicRecoverOk{}, nil
		case 120:
			return &basicNack{}, nil
		}
	case classConfirm:
		switch methodID {
		case 10:
			return &confirmSelect{}, nil
		case 11:
			return &confirmSelectOk{}, nil
		}
	case classTx:
		switch methodID {
		case 10:
			return &txSelect{}, nil
		case 11:
			return &txSelectOk{}, nil
		case 20:
			return &txCommit{}, nil
		case 21:
			return &txCommitOk{}, nil
		case 30:
			return &txRollback{}, nil
		case 31:
			return &txRollbackOk{}, nil
		}
	}
	return nil, fmt.Errorf("goamqp: unknown method %d/%d", classID, methodID)
}

// ---- Connection (class 10) ----

type connectionStart struct {
	VersionMajor     byte
	VersionMinor     byte
	ServerProperties Table
	Mechanisms       string
	Locales          string
}

func (*connectionStart) id() (uint16, uint16) { return classConnection, 10 }
func (*connectionStart) wait() bool           { return true }
func (m *connectionStart) read(r *reader) (err error) {
	if m.VersionMajor, err = r.ReadOctet(); err != nil {
		return
	}
	if m.VersionMinor, err = r.ReadOctet(); err != nil {
		return
	}
	if m.ServerProperties, err = r.ReadTable(); err != nil {
		return
	}
	if m.Mechanisms, err = r.ReadLongStr(); err != nil {
		return
	}
	m.Locales, err = r.ReadLongStr()
	return
}
func (m *connectionStart) write(w *writer) (err error) {
	if err = w.WriteOctet(m.VersionMajor); err != nil {
		return
	}
	if err = w.WriteOctet(m.VersionMinor); err != nil {
		return
	}
	if err = w.WriteTable(m.ServerProperties); err != nil {
		return
	}
	if err = w.WriteLongStr(m.Mechanisms); err != nil {
		return
	}
	return w.WriteLongStr(m.Locales)
}

type connectionStartOk struct {
	ClientProperties Table
	Mechanism        string
	Response         string
	Locale           string
}

func (*connectionStartOk) id() (uint16, uint16) { return classConnection, 11 }
func (*connectionStartOk) wait() bool           { return false }
func (m *connectionStartOk) read(r *reader) (err error) {
	if m.ClientProperties, err = r.ReadTable(); err != nil {
		return
	}
	if m.Mechanism, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Response, err = r.ReadLongStr(); err != nil {
		return
	}
	m.Locale, err = r.ReadShortStr()
	return
}
func (m *connectionStartOk) write(w *writer) (err error) {
	if err = w.WriteTable(m.ClientProperties); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Mechanism); err != nil {
		return
	}
	if err = w.WriteLongStr(m.Response); err != nil {
		return
	}
	return w.WriteShortStr(m.Locale)
}

type connectionTune struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*connectionTune) id() (uint16, uint16) { return classConnection, 30 }
func (*connectionTune) wait() bool           { return true }
func (m *connectionTune) read(r *reader) (err error) {
	if m.ChannelMax, err = r.ReadShort(); err != nil {
		return
	}
	if m.FrameMax, err = r.ReadLong(); err != nil {
		return
	}
	m.Heartbeat, err = r.ReadShort()
	return
}
func (m *connectionTune) write(w *writer) (err error) {
	if err = w.WriteShort(m.ChannelMax); err != nil {
		return
	}
	if err = w.WriteLong(m.FrameMax); err != nil {
		return
	}
	return w.WriteShort(m.Heartbeat)
}

type connectionTuneOk struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*connectionTuneOk) id() (uint16, uint16) { return classConnection, 31 }
func (*connectionTuneOk) wait() bool           { return false }
func (m *connectionTuneOk) read(r *reader) (err error) {
	if m.ChannelMax, err = r.ReadShort(); err != nil {
		return
	}
	if m.FrameMax, err = r.ReadLong(); err != nil {
		return
	}
	m.Heartbeat, err = r.ReadShort()
	return
}
func (m *connectionTuneOk) write(w *writer) (err error) {
	if err = w.WriteShort(m.ChannelMax); err != nil {
		return
	}
	if err = w.WriteLong(m.FrameMax); err != nil {
		return
	}
	return w.WriteShort(m.Heartbeat)
}

type connectionOpen struct {
	VirtualHost string
}

func (*connectionOpen) id() (uint16, uint16) { return classConnection, 40 }
func (*connectionOpen) wait() bool           { return true }
func (m *connectionOpen) read(r *reader) (err error) {
	if m.VirtualHost, err = r.ReadShortStr(); err != nil {
		return
	}
	if _, err = r.ReadShortStr(); err != nil { // reserved-1
		return
	}
	_, err = r.ReadOctet() // reserved-2 (bit, packed alone)
	return
}
func (m *connectionOpen) write(w *writer) (err error) {
	if err = w.WriteShortStr(m.VirtualHost); err != nil {
		return
	}
	if err = w.WriteShortStr(""); err != nil { // reserved-1
		return
	}
	return w.WriteOctet(0) // reserved-2
}

type connectionOpenOk struct{}

func (*connectionOpenOk) id() (uint16, uint16) { return classConnection, 41 }
func (*connectionOpenOk) wait() bool           { return false }
func (m *connectionOpenOk) read(r *reader) (err error) {
	_, err = r.ReadShortStr() // reserved-1
	return
}
func (m *connectionOpenOk) write(w *writer) error {
	return w.WriteShortStr("")
}

type connectionClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID   uint16
	MethodID  uint16
}

func (*connectionClose) id() (uint16, uint16) { return classConnection, 50 }
func (*connectionClose) wait() bool           { return true }
func (m *connectionClose) read(r *reader) (err error) {
	if m.ReplyCode, err = r.ReadShort(); err != nil {
		return
	}
	if m.ReplyText, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.ClassID, err = r.ReadShort(); err != nil {
		return
	}
	m.MethodID, err = r.ReadShort()
	return
}
func (m *connectionClose) write(w *writer) (err error) {
	if err = w.WriteShort(m.ReplyCode); err != nil {
		return
	}
	if err = w.WriteShortStr(m.ReplyText); err != nil {
		return
	}
	if err = w.WriteShort(m.ClassID); err != nil {
		return
	}
	return w.WriteShort(m.MethodID)
}

type connectionCloseOk struct{}

func (*connectionCloseOk) id() (uint16, uint16)         { return classConnection, 51 }
func (*connectionCloseOk) wait() bool                   { return false }
func (*connectionCloseOk) read(r *reader) error          { return nil }
func (*connectionCloseOk) write(w *writer) error         { return nil }

type connectionBlocked struct {
	Reason string
}

func (*connectionBlocked) id() (uint16, uint16) { return classConnection, 60 }
func (*connectionBlocked) wait() bool           { return false }
func (m *connectionBlocked) read(r *reader) (err error) {
	m.Reason, err = r.ReadShortStr()
	return
}
func (m *connectionBlocked) write(w *writer) error { return w.WriteShortStr(m.Reason) }

type connectionUnblocked struct{}

func (*connectionUnblocked) id() (uint16, uint16) { return classConnection, 61 }
func (*connectionUnblocked) wait() bool           { return false }
func (*connectionUnblocked) read(r *reader) error { return nil }
func (*connectionUnblocked) write(w *writer) error { return nil }

// ---- Channel (class 20) ----

type channelOpen struct{}

func (*channelOpen) id() (uint16, uint16) { return classChannel, 10 }
func (*channelOpen) wait() bool           { return true }
func (*channelOpen) read(r *reader) error  { _, err := r.ReadShortStr(); return err }
func (*channelOpen) write(w *writer) error { return w.WriteShortStr("") }

type channelOpenOk struct{}

func (*channelOpenOk) id() (uint16, uint16) { return classChannel, 11 }
func (*channelOpenOk) wait() bool           { return false }
func (*channelOpenOk) read(r *reader) error  { _, err := r.ReadLongStr(); return err }
func (*channelOpenOk) write(w *writer) error { return w.WriteLongStr("") }

type channelFlow struct {
	Active bool
}

func (*channelFlow) id() (uint16, uint16) { return classChannel, 20 }
func (*channelFlow) wait() bool           { return true }
func (m *channelFlow) read(r *reader) (err error) {
	b, err := r.ReadOctet()
	m.Active = b&1 != 0
	return
}
func (m *channelFlow) write(w *writer) error {
	var b byte
	if m.Active {
		b |= 1
	}
	return w.WriteOctet(b)
}

type channelFlowOk struct {
	Active bool
}

func (*channelFlowOk) id() (uint16, uint16) { return classChannel, 21 }
func (*channelFlowOk) wait() bool           { return false }
func (m *channelFlowOk) read(r *reader) (err error) {
	b, err := r.ReadOctet()
	m.Active = b&1 != 0
	return
}
func (m *channelFlowOk) write(w *writer) error {
	var b byte
	if m.Active {
		b |= 1
	}
	return w.WriteOctet(b)
}

type channelClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID   uint16
	MethodID  uint16
}

func (*channelClose) id() (uint16, uint16) { return classChannel, 40 }
func (*channelClose) wait() bool           { return true }
func (m *channelClose) read(r *reader) (err error) {
	if m.ReplyCode, err = r.ReadShort(); err != nil {
		return
	}
	if m.ReplyText, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.ClassID, err = r.ReadShort(); err != nil {
		return
	}
	m.MethodID, err = r.ReadShort()
	return
}
func (m *channelClose) write(w *writer) (err error) {
	if err = w.WriteShort(m.ReplyCode); err != nil {
		return
	}
	if err = w.WriteShortStr(m.ReplyText); err != nil {
		return
	}
	if err = w.WriteShort(m.ClassID); err != nil {
		return
	}
	return w.WriteShort(m.MethodID)
}

type channelCloseOk struct{}

func (*channelCloseOk) id() (uint16, uint16) { return classChannel, 41 }
func (*channelCloseOk) wait() bool           { return false }
func (*channelCloseOk) read(r *reader) error  { return nil }
func (*channelCloseOk) write(w *writer) error { return nil }
