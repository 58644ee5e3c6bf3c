// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// state.go holds the four-value lifecycle enum shared by Connection
// and Channel: closed -> opening -> open -> closing -> closed.

package goamqp

import "sync/atomic"

type lifecycleState int32

const (
	stateClosed lifecycleState = iota
	stateOpening
	stateOpen
	stateClosing
)

func (s lifecycleState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpening:
		return "opening"
	case stateOpen:
		return "open"
	case stateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// lifecycle is a small atomic wrapper so Connection and Channel can
// both query/transition state from any goroutine without a bespoke
// mutex at every call site.
type lifecycle struct {
	v int32
}

func (l *lifecycle) set(s lifecycleState) { atomic.StoreInt32(&l.v, int32(s)) }
func (l *lifecycle) get() lifecycleState  { return lifecycleState(atomic.LoadInt32(&l.v)) }
func (l *lifecycle) is(s lifecycleState) bool { return l.get() == s }
