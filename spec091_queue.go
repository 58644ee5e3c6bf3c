// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

// ---- Queue (class 50) ----

type queueDeclare struct {
	Queue      string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  Table
}

func (*queueDeclare) id() (uint16, uint16) { return classQueue, 10 }
func (*queueDeclare) wait() bool           { return true }
func (m *queueDeclare) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	if err != nil {
		return
	}
	m.Passive = bits&(1<<0) != 0
	m.Durable = bits&(1<<1) != 0
	m.Exclusive = bits&(1<<2) != 0
	m.AutoDelete = bits&(1<<3) != 0
	m.NoWait = bits&(1<<4) != 0
	m.Arguments, err = r.ReadTable()
	return
}
func (m *queueDeclare) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	var bits byte
	if m.Passive {
		bits |= 1 << 0
	}
	if m.Durable {
		bits |= 1 << 1
	}
	if m.Exclusive {
		bits |= 1 << 2
	}
	if m.AutoDelete {
		bits |= 1 << 3
	}
	if m.NoWait {
		bits |= 1 << 4
	}
	if err = w.WriteOctet(bits); err != nil {
		return
	}
	return w.WriteTable(m.Arguments)
}

type queueDeclareOk struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (*queueDeclareOk) id() (uint16, uint16) { return classQueue, 11 }
func (*queueDeclareOk) wait() bool           { return false }
func (m *queueDeclareOk) read(r *reader) (err error) {
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.MessageCount, err = r.ReadLong(); err != nil {
		return
	}
	m.ConsumerCount, err = r.ReadLong()
	return
}
func (m *queueDeclareOk) write(w *writer) (err error) {
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	if err = w.WriteLong(m.MessageCount); err != nil {
		return
	}
	return w.WriteLong(m.ConsumerCount)
}

type queueBind struct {
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  Table
}

func (*queueBind) id() (uint16, uint16) { return classQueue, 20 }
func (*queueBind) wait() bool           { return true }
func (m *queueBind) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.RoutingKey, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	if err != nil {
		return
	}
	m.NoWait = bits&(1<<0) != 0
	m.Arguments, err = r.ReadTable()
	return
}
func (m *queueBind) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	if err = w.WriteShortStr(m.RoutingKey); err != nil {
		return
	}
	var bits byte
	if m.NoWait {
		bits |= 1 << 0
	}
	if err = w.WriteOctet(bits); err != nil {
		return
	}
	return w.WriteTable(m.Arguments)
}

type queueBindOk struct{}

func (*queueBindOk) id() (uint16, uint16) { return classQueue, 21 }
func (*queueBindOk) wait() bool           { return false }
func (*queueBindOk) read(r *reader) error  { return nil }
func (*queueBindOk) write(w *writer) error { return nil }

type queueUnbind struct {
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  Table
}

func (*queueUnbind) id() (uint16, uint16) { return classQueue, 50 }
func (*queueUnbind) wait() bool           { return true }
func (m *queueUnbind) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.RoutingKey, err = r.ReadShortStr(); err != nil {
		return
	}
	m.Arguments, err = r.ReadTable()
	return
}
func (m *queueUnbind) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	if err = w.WriteShortStr(m.RoutingKey); err != nil {
		return
	}
	return w.WriteTable(m.Arguments)
}

type queueUnbindOk struct{}

func (*queueUnbindOk) id() (uint16, uint16) { return classQueue, 51 }
func (*queueUnbindOk) wait() bool           { return false }
func (*queueUnbindOk) read(r *reader) error  { return nil }
func (*queueUnbindOk) write(w *writer) error { return nil }

type queuePurge struct {
	Queue  string
	NoWait bool
}

func (*queuePurge) id() (uint16, uint16) { return classQueue, 30 }
func (*queuePurge) wait() bool           { return true }
func (m *queuePurge) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.NoWait = bits&(1<<0) != 0
	return
}
func (m *queuePurge) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	var bits byte
	if m.NoWait {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type queuePurgeOk struct {
	MessageCount uint32
}

func (*queuePurgeOk) id() (uint16, uint16) { return classQueue, 31 }
func (*queuePurgeOk) wait() bool           { return false }
func (m *queuePurgeOk) read(r *reader) (err error) {
	m.MessageCount, err = r.ReadLong()
	return
}
func (m *queuePurgeOk) write(w *writer) error { return w.WriteLong(m.MessageCount) }

type queueDelete struct {
	Queue    string
	IfUnused bool
	IfEmpty  bool
	NoWait   bool
}

func (*queueDelete) id() (uint16, uint16) { return classQueue, 40 }
func (*queueDelete) wait() bool           { return true }
func (m *queueDelete) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Queue, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.IfUnused = bits&(1<<0) != 0
	m.IfEmpty = bits&(1<<1) != 0
	m.NoWait = bits&(1<<2) != 0
	return
}
func (m *queueDelete) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Queue); err != nil {
		return
	}
	var bits byte
	if m.IfUnused {
		bits |= 1 << 0
	}
	if m.IfEmpty {
		bits |= 1 << 1
	}
	if m.NoWait {
		bits |= 1 << 2
	}
	return w.WriteOctet(bits)
}

type queueDeleteOk struct {
	MessageCount uint32
}

func (*queueDeleteOk) id() (uint16, uint16) { return classQueue, 41 }
func (*queueDeleteOk) wait() bool           { return false }
func (m *queueDeleteOk) read(r *reader) (err error) {
	m.MessageCount, err = r.ReadLong()
	return
}
func (m *queueDeleteOk) write(w *writer) error { return w.WriteLong(m.MessageCount) }
