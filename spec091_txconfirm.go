// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

// ---- Confirm (class 85) ----

type confirmSelect struct {
	NoWait bool
}

func (*confirmSelect) id() (uint16, uint16) { return classConfirm, 10 }
func (*confirmSelect) wait() bool           { return true }
func (m *confirmSelect) read(r *reader) (err error) {
	bits, err := r.ReadOctet()
	m.NoWait = bits&(1<<0) != 0
	return
}
func (m *confirmSelect) write(w *writer) error {
	var bits byte
	if m.NoWait {
		bits |= 1 << 0
	}
	return w.WriteOctet(bits)
}

type confirmSelectOk struct{}

func (*confirmSelectOk) id() (uint16, uint16) { return classConfirm, 11 }
func (*confirmSelectOk) wait() bool           { return false }
func (*confirmSelectOk) read(r *reader) error  { return nil }
func (*confirmSelectOk) write(w *writer) error { return nil }

// ---- Tx (class 90) ----

type txSelect struct{}

func (*txSelect) id() (uint16, uint16) { return classTx, 10 }
func (*txSelect) wait() bool           { return true }
func (*txSelect) read(r *reader) error  { return nil }
func (*txSelect) write(w *writer) error { return nil }

type txSelectOk struct{}

func (*txSelectOk) id() (uint16, uint16) { return classTx, 11 }
func (*txSelectOk) wait() bool           { return false }
func (*txSelectOk) read(r *reader) error  { return nil }
func (*txSelectOk) write(w *writer) error { return nil }

type txCommit struct{}

func (*txCommit) id() (uint16, uint16) { return classTx, 20 }
func (*txCommit) wait() bool           { return true }
func (*txCommit) read(r *reader) error  { return nil }
func (*txCommit) write(w *writer) error { return nil }

type txCommitOk struct{}

func (*txCommitOk) id() (uint16, uint16) { return classTx, 21 }
func (*txCommitOk) wait() bool           { return false }
func (*txCommitOk) read(r *reader) error  { return nil }
func (*txCommitOk) write(w *writer) error { return nil }

type txRollback struct{}

func (*txRollback) id() (uint16, uint16) { return classTx, 30 }
func (*txRollback) wait() bool           { return true }
func (*txRollback) read(r *reader) error  { return nil }
func (*txRollback) write(w *writer) error { return nil }

type txRollbackOk struct{}

func (*txRollbackOk) id() (uint16, uint16) { return classTx, 31 }
func (*txRollbackOk) wait() bool           { return false }
func (*txRollbackOk) read(r *reader) error  { return nil }
func (*txRollbackOk) write(w *writer) error { return nil }
