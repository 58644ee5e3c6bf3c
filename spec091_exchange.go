// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

// ---- Exchange (class 40) ----

type exchangeDeclare struct {
	Exchange   string
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  Table
}

func (*exchangeDeclare) id() (uint16, uint16) { return classExchange, 10 }
func (*exchangeDeclare) wait() bool           { return true }
func (m *exchangeDeclare) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil { // reserved-1
		return
	}
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Type, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	if err != nil {
		return
	}
	m.Passive = bits&(1<<0) != 0
	m.Durable = bits&(1<<1) != 0
	m.AutoDelete = bits&(1<<2) != 0
	m.Internal = bits&(1<<3) != 0
	m.NoWait = bits&(1<<4) != 0
	m.Arguments, err = r.ReadTable()
	return
}
func (m *exchangeDeclare) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil { // reserved-1
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Type); err != nil {
		return
	}
	var bits byte
	if m.Passive {
		bits |= 1 << 0
	}
	if m.Durable {
		bits |= 1 << 1
	}
	if m.AutoDelete {
		bits |= 1 << 2
	}
	if m.Internal {
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

type exchangeDeclareOk struct{}

func (*exchangeDeclareOk) id() (uint16, uint16) { return classExchange, 11 }
func (*exchangeDeclareOk) wait() bool           { return false }
func (*exchangeDeclareOk) read(r *reader) error  { return nil }
func (*exchangeDeclareOk) write(w *writer) error { return nil }

type exchangeDelete struct {
	Exchange string
	IfUnused bool
	NoWait   bool
}

func (*exchangeDelete) id() (uint16, uint16) { return classExchange, 20 }
func (*exchangeDelete) wait() bool           { return true }
func (m *exchangeDelete) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Exchange, err = r.ReadShortStr(); err != nil {
		return
	}
	bits, err := r.ReadOctet()
	m.IfUnused = bits&(1<<0) != 0
	m.NoWait = bits&(1<<1) != 0
	return
}
func (m *exchangeDelete) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Exchange); err != nil {
		return
	}
	var bits byte
	if m.IfUnused {
		bits |= 1 << 0
	}
	if m.NoWait {
		bits |= 1 << 1
	}
	return w.WriteOctet(bits)
}

type exchangeDeleteOk struct{}

func (*exchangeDeleteOk) id() (uint16, uint16) { return classExchange, 21 }
func (*exchangeDeleteOk) wait() bool           { return false }
func (*exchangeDeleteOk) read(r *reader) error  { return nil }
func (*exchangeDeleteOk) write(w *writer) error { return nil }

type exchangeBind struct {
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   Table
}

func (*exchangeBind) id() (uint16, uint16) { return classExchange, 30 }
func (*exchangeBind) wait() bool           { return true }
func (m *exchangeBind) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Destination, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Source, err = r.ReadShortStr(); err != nil {
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
func (m *exchangeBind) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Destination); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Source); err != nil {
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

type exchangeBindOk struct{}

func (*exchangeBindOk) id() (uint16, uint16) { return classExchange, 31 }
func (*exchangeBindOk) wait() bool           { return false }
func (*exchangeBindOk) read(r *reader) error  { return nil }
func (*exchangeBindOk) write(w *writer) error { return nil }

type exchangeUnbind struct {
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   Table
}

func (*exchangeUnbind) id() (uint16, uint16) { return classExchange, 40 }
func (*exchangeUnbind) wait() bool           { return true }
func (m *exchangeUnbind) read(r *reader) (err error) {
	if _, err = r.ReadShort(); err != nil {
		return
	}
	if m.Destination, err = r.ReadShortStr(); err != nil {
		return
	}
	if m.Source, err = r.ReadShortStr(); err != nil {
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
func (m *exchangeUnbind) write(w *writer) (err error) {
	if err = w.WriteShort(0); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Destination); err != nil {
		return
	}
	if err = w.WriteShortStr(m.Source); err != nil {
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

type exchangeUnbindOk struct{}

func (*exchangeUnbindOk) id() (uint16, uint16) { return classExchange, 51 }
func (*exchangeUnbindOk) wait() bool           { return false }
func (*exchangeUnbindOk) read(r *reader) error  { return nil }
func (*exchangeUnbindOk) write(w *writer) error { return nil }
