// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// events.go implements the Event Registry: a fixed set of named,
// edge-triggered binary signals shared across goroutines. Close-and-
// replace `chan struct{}` idioms like this show up ad hoc wherever a
// connection needs to broadcast a one-shot condition (NotifyClose,
// NotifyBlocked); this file generalizes that idiom into one named
// registry so every component (I/O Worker, Channel 0, Heartbeat Timer,
// Connection Facade) coordinates through a single vocabulary.

package goamqp

import (
	"sync"
	"time"
)

// EventName enumerates the fixed signal set.
type EventName int

const (
	SocketOpened EventName = iota
	SocketClose
	SocketClosed
	Channel0Opened
	Channel0Close
	Channel0Closed
	ConnectionBlocked
	ConnectionUnblocked
	ExceptionRaised
)

var eventNames = map[EventName]string{
	SocketOpened:        "SOCKET_OPENED",
	SocketClose:         "SOCKET_CLOSE",
	SocketClosed:        "SOCKET_CLOSED",
	Channel0Opened:      "CHANNEL0_OPENED",
	Channel0Close:       "CHANNEL0_CLOSE",
	Channel0Closed:      "CHANNEL0_CLOSED",
	ConnectionBlocked:   "CONNECTION_BLOCKED",
	ConnectionUnblocked: "CONNECTION_UNBLOCKED",
	ExceptionRaised:     "EXCEPTION_RAISED",
}

func (e EventName) String() string { return eventNames[e] }

// event is a single edge-triggered signal: Set closes `ch` to wake any
// blocked waiter; Clear swaps in a fresh channel so the next Set is a
// new edge. Set/Clear/IsSet are idempotent and safe for any number of
// concurrent callers.
type event struct {
	mu sync.Mutex
	on bool
	ch chan struct{}
}

func newEvent() *event {
	return &event{ch: make(chan struct{})}
}

func (e *event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.on {
		e.on = true
		close(e.ch)
	}
}

func (e *event) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.on {
		e.on = false
		e.ch = make(chan struct{})
	}
}

func (e *event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.on
}

func (e *event) waitChan() chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// Wait blocks until the signal is Set or the timeout elapses, and
// reports whether it was Set within that window. A zero timeout
// blocks forever.
func (e *event) Wait(timeout time.Duration) bool {
	ch := e.waitChan()
	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return e.IsSet()
	}
}

// EventRegistry is the connection-wide set of named signals. Signals
// are independent; no ordering is implied between distinct signals.
type EventRegistry struct {
	events map[EventName]*event
}

// NewEventRegistry builds a registry with every name pre-allocated and
// Clear.
func NewEventRegistry() *EventRegistry {
	r := &EventRegistry{events: make(map[EventName]*event, len(eventNames))}
	for name := range eventNames {
		r.events[name] = newEvent()
	}
	return r
}

func (r *EventRegistry) get(name EventName) *event {
	e, ok := r.events[name]
	if !ok {
		panic("goamqp: unknown event " + name.String())
	}
	return e
}

// Set raises the named signal (no-op if already set).
func (r *EventRegistry) Set(name EventName) { r.get(name).Set() }

// Clear lowers the named signal so the next Set is a fresh edge.
func (r *EventRegistry) Clear(name EventName) { r.get(name).Clear() }

// IsSet is a non-blocking check of the named signal's current state.
func (r *EventRegistry) IsSet(name EventName) bool { return r.get(name).IsSet() }

// Wait blocks until the named signal is Set or the timeout elapses.
// It returns true iff the signal was observed Set within the timeout.
func (r *EventRegistry) Wait(name EventName, timeout time.Duration) bool {
	return r.get(name).Wait(timeout)
}
