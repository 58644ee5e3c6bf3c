// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// tx.go exposes the Tx domain object: transactional publish/ack
// batching over a Channel, mutually exclusive with publisher confirms
// (Channel.Confirm) on the same channel.

package goamqp

// Tx wraps a Channel already switched into transactional mode via
// Select.
type Tx struct {
	channel *Channel
	active  bool
}

// NewTx returns a handle for driving transactions on ch. Select must
// be called before Commit/Rollback.
func NewTx(ch *Channel) *Tx {
	return &Tx{channel: ch}
}

// Select switches the channel into transactional mode.
func (t *Tx) Select() error {
	t.channel.mu.Lock()
	if t.channel.confirms != nil {
		t.channel.mu.Unlock()
		return ErrTxConfirmConflict
	}
	t.channel.mu.Unlock()

	if _, err := t.channel.call(&txSelect{}); err != nil {
		return err
	}

	t.channel.mu.Lock()
	t.channel.txActive = true
	t.channel.mu.Unlock()

	t.active = true
	return nil
}

// Commit commits every publish and ack issued on the channel since
// the last Commit/Rollback.
func (t *Tx) Commit() error {
	if !t.active {
		return ErrNoActiveTransaction
	}
	_, err := t.channel.call(&txCommit{})
	return err
}

// Rollback discards every publish and ack issued on the channel since
// the last Commit/Rollback.
func (t *Tx) Rollback() error {
	if !t.active {
		return ErrNoActiveTransaction
	}
	_, err := t.channel.call(&txRollback{})
	return err
}
