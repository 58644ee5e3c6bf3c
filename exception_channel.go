// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// exception_channel.go implements the Exception Channel: a
// thread-safe FIFO the I/O Worker and Channel 0 push errors into, and
// every user goroutine opportunistically drains before it blocks.
// Draining is destructive and at-most-once per error: the I/O worker
// and Channel 0 never throw across goroutines, they push into this
// queue instead.

package goamqp

import "sync"

// ExceptionChannel is a multi-producer, multi-consumer FIFO of errors.
type ExceptionChannel struct {
	mu    sync.Mutex
	items []error
}

// NewExceptionChannel returns an empty FIFO.
func NewExceptionChannel() *ExceptionChannel {
	return &ExceptionChannel{}
}

// Push appends an error to the back of the FIFO.
func (e *ExceptionChannel) Push(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.items = append(e.items, err)
	e.mu.Unlock()
}

// Drain removes and returns the oldest pending error, or nil if the
// FIFO is empty. It is the sole destructive read operation: each
// error is returned to exactly one caller.
func (e *ExceptionChannel) Drain() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.items) == 0 {
		return nil
	}
	err := e.items[0]
	e.items = e.items[1:]
	return err
}

// Len reports the number of pending errors, for diagnostics/tests
// only; never used to decide correctness (that's Drain's job).
func (e *ExceptionChannel) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}
