// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

// ---- Basic (class 60) ----

type basicQos struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

func (*basicQos) id() (uint16, uint16) { return classBasic, 10 }
func (*basicQos) wait() bool           { return true }
func (m *basicQos) read(r *reader) (err error) {
	if m.PrefetchSize, err = r.ReadLong(); err != nil {
		return
	}
	if m.PrefetchCount, err = r.ReadShort(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.Global = bits&(1<<0) != 0
	return
}
func (m *basicQos) write(w *writer) (err error) {
	if err = w.WriteLong(m.PrefetchSize); err != nil {
		return
	}
	if err = w.WriteShort(m.PrefetchCount); err != nil {
		return
	}
	var bits byte
	if m.Global {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicQosOk struct{}

func (*basicQosOk) id() (uint16, uint16) { return classBasic, 11 }
func (*basicQosOk) wait() bool           { return false }
func (*basicQosOk) read(r *reader) error  { return nil }
func (*basicQosOk) write(w *writer) error { return nil }

type basicConsume struct {
	Queue       string
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Arguments   Table
}

func (*basicConsume) id() (uint16, uint16) { return classBasic, 20 }
func (*basicConsume) wait() bool           { return true }
func (m *basicConsume) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.ConsumerTag, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	if err != nil {
		return
	}
	m.NoLocal = bits&(1<<0) != 0
	m.NoAck = bits&(1<<1) != 0
	m.Exclusive = bits&(1<<2) != 0
	m.NoWait = bits&(1<<3) != 0
	m.Arguments, err = r.ReadTable()
	return
}
func (m *basicConsume) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	if err = w.WriteShortStr(m.ConsumerTag); err != nil {
		return
	}
	var bits byte
	if m.NoLocal {
		bits |= 1 << 0
	}
	if m.NoAck {
		bits |= 1 << 1
	}
	if m.Exclusive {
		bits |= 1 << 2
	}
	if m.NoWait {
		bits |= 1 << 3
	}
	if err = w.WriteOctet(bits); err != nil {
		return
	}
	return w.WriteTable(m.Arguments)
}

type basicConsumeOk struct {
	ConsumerTag string
}

func (*basicConsumeOk) id() (uint16, uint16) { return classBasic, 21 }
func (*basicConsumeOk) wait() bool           { return false }
func (m *basicConsumeOk) read(r *reader) (err error) {
	m.ConsumerTag, err = r.ReadShortStr()
	return
}
func (m *basicConsumeOk) write(w *writer) error { return w.WriteShortStr(m.ConsumerTag) }

type basicCancel struct {
	ConsumerTag string
	NoWait      bool
}

func (*basicCancel) id() (uint16, uint16) { return classBasic, 30 }
func (m *basicCancel) wait() bool         { return !m.NoWait }
func (m *basicCancel) read(r *reader) (err error) {
	if m.ConsumerTag, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.NoWait = bits&(1<<0) != 0
	return
}
func (m *basicCancel) write(w *writer) (err error) {
	if err = w.WriteShortStr(m.ConsumerTag); err != nil {
		return
	}
	var bits byte
	if m.NoWait {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicCancelOk struct {
	ConsumerTag string
}

func (*basicCancelOk) id() (uint16, uint16) { return classBasic, 31 }
func (*basicCancelOk) wait() bool           { return false }
func (m *basicCancelOk) read(r *reader) (err error) {
	m.ConsumerTag, err = r.ReadShortStr()
	return
}
func (m *basicCancelOk) write(w *writer) error { return w.WriteShortStr(m.ConsumerTag) }

type basicPublish struct {
	Exchange   string
	RoutingKey string
	Mandatory  bool
	Immediate  bool
}

func (*basicPublish) id() (uint16, uint16) { return classBasic, 40 }
func (*basicPublish) wait() bool           { return false }
func (m *basicPublish) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.RoutingKey, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.Mandatory = bits&(1<<0) != 0
	m.Immediate = bits&(1<<1) != 0
	return
}
func (m *basicPublish) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	if err = w.WriteShortStr(m.RoutingKey); err != nil {
		return
	}
	var bits byte
	if m.Mandatory {
		bits |= 1 << 0
	}
	if m.Immediate {
		bits |= 1 << 1
	}
	return w.WriteOctet(bits)
}

type basicReturn struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (*basicReturn) id() (uint16, uint16) { return classBasic, 50 }
func (*basicReturn) wait() bool           { return false }
func (m *basicReturn) read(r *reader) (err error) {
	if m.ReplyCode, err = r.ReadShort(); err != nil {
		return
	}
	if m.ReplyText, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	m.RoutingKey, err = r.ReadShortStr()
	return
}
func (m *basicReturn) write(w *writer) (err error) {
	if err = w.WriteShort(m.ReplyCode); err != nil {
		return
	}
	if err = w.WriteShortStr(m.ReplyText); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	return w.WriteShortStr(m.RoutingKey)
}

type basicDeliver struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (*basicDeliver) id() (uint16, uint16) { return classBasic, 60 }
func (*basicDeliver) wait() bool           { return false }
func (m *basicDeliver) read(r *reader) (err error) {
	if m.ConsumerTag, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	if err != nil {
		return
	}
	m.Redelivered = bits&(1<<0) != 0
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	m.RoutingKey, err = r.ReadShortStr()
	return
}
func (m *basicDeliver) write(w *writer) (err error) {
	if err = w.WriteShortStr(m.ConsumerTag); err != nil {
		return
	}
	if err = w.WriteLongLong(m.DeliveryTag); err != nil {
		return
	}
	var bits byte
	if m.Redelivered {
		bits |= 1 << 0
	}
	if err = w.WriteOctet(bits); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	return w.WriteShortStr(m.RoutingKey)
}

type basicGet struct {
	Queue string
	NoAck bool
}

func (*basicGet) id() (uint16, uint16) { return classBasic, 70 }
func (*basicGet) wait() bool           { return true }
func (m *basicGet) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.NoAck = bits&(1<<0) != 0
	return
}
func (m *basicGet) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	var bits byte
	if m.NoAck {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicGetOk struct {
	DeliveryTag  uint64
	Redelivered  bool
	Exchange     string
	RoutingKey   string
	MessageCount uint32
}

func (*basicGetOk) id() (uint16, uint16) { return classBasic, 71 }
func (*basicGetOk) wait() bool           { return false }
func (m *basicGetOk) read(r *reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	if err != nil {
		return
	}
	m.Redelivered = bits&(1<<0) != 0
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.RoutingKey, err = r.ReadShortStr(); err != nil {
		return
	}
	m.MessageCount, err = r.ReadLong()
	return
}
func (m *basicGetOk) write(w *writer) (err error) {
	if err = w.WriteLongLong(m.DeliveryTag); err != nil {
		return
	}
	var bits byte
	if m.Redelivered {
		bits |= 1 << 0
	}
	if err = w.WriteOctet(bits); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	if err = w.WriteShortStr(m.RoutingKey); err != nil {
		return
	}
	return w.WriteLong(m.MessageCount)
}

type basicGetEmpty struct{}

func (*basicGetEmpty) id() (uint16, uint16) { return classBasic, 72 }
func (*basicGetEmpty) wait() bool           { return false }
func (*basicGetEmpty) read(r *reader) error  { _, err := r.ReadShortStr(); return err }
func (*basicGetEmpty) write(w *writer) error { return w.WriteShortStr("") }

type basicAck struct {
	DeliveryTag uint64
	Multiple    bool
}

func (*basicAck) id() (uint16, uint16) { return classBasic, 80 }
func (*basicAck) wait() bool           { return false }
func (m *basicAck) read(r *reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.Multiple = bits&(1<<0) != 0
	return
}
func (m *basicAck) write(w *writer) (err error) {
	if err = w.WriteLongLong(m.DeliveryTag); err != nil {
		return
	}
	var bits byte
	if m.Multiple {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicReject struct {
	DeliveryTag uint64
	Requeue     bool
}

func (*basicReject) id() (uint16, uint16) { return classBasic, 90 }
func (*basicReject) wait() bool           { return false }
func (m *basicReject) read(r *reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.Requeue = bits&(1<<0) != 0
	return
}
func (m *basicReject) write(w *writer) (err error) {
	if err = w.WriteLongLong(m.DeliveryTag); err != nil {
		return
	}
	var bits byte
	if m.Requeue {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicRecoverAsync struct {
	Requeue bool
}

func (*basicRecoverAsync) id() (uint16, uint16) { return classBasic, 100 }
func (*basicRecoverAsync) wait() bool           { return false }
func (m *basicRecoverAsync) read(r *reader) (err error) {
	bits, err := r.ReadOctet()
	m.Requeue = bits&(1<<0) != 0
	return
}
func (m *basicRecoverAsync) write(w *writer) error {
	var bits byte
	if m.Requeue {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicRecover struct {
	Requeue bool
}

func (*basicRecover) id() (uint16, uint16) { return classBasic, 110 }
func (*basicRecover) wait() bool           { return true }
func (m *basicRecover) read(r *reader) (err error) {
	bits, err := r.ReadOctet()
	m.Requeue = bits&(1<<0) != 0
	return
}
func (m *basicRecover) write(w *writer) error {
	var bits byte
	if m.Requeue {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type basicRecoverOk struct{}

func (*basicRecoverOk) id() (uint16, uint16) { return classBasic, 111 }
func (*basicRecoverOk) wait() bool           { return false }
func (*basicRecoverOk) read(r *reader) error  { return nil }
func (*basicRecoverOk) write(w *writer) error { return nil }

type basicNack struct {
	DeliveryTag uint64
	Multiple    bool
	Requeue     bool
}

func (*basicNack) id() (uint16, uint16) { return classBasic, 120 }
func (*basicNack) wait() bool           { return false }
func (m *basicNack) read(r *reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.Multiple = bits&(1<<0) != 0
	m.Requeue = bits&(1<<1) != 0
	return
}
func (m *basicNack) write(w *writer) (err error) {
	if err = w.WriteLongLong(m.DeliveryTag); err != nil {
		return
	}
	var bits byte
	if m.Multiple {
		bits |= 1 << 0
	}
	if m.Requeue {
		bits |= 1 << 1
	}
	return w.WriteOctet(bits)
}
