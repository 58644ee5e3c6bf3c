// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// confirms.go tracks publisher-confirms delivery tags once a channel
// has called Confirm.Select. Tags are assigned by an incrementing
// counter as Publish is called, and correlated against Basic.Ack/
// Basic.Nack as the broker replies, each of which may cover a single
// tag or (Multiple) every outstanding tag up to and including it.

package goamqp

import (
	"sort"
	"sync"
)

type confirmTracker struct {
	mu        sync.Mutex
	counter   uint64
	pending   map[uint64]bool
	ackChans  []chan uint64
	nackChans []chan uint64
}

func newConfirmTracker() *confirmTracker {
	return &confirmTracker{pending: make(map[uint64]bool)}
}

// next assigns the next delivery tag to an outbound publish.
func (c *confirmTracker) next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	c.pending[c.counter] = true
	return c.counter
}

func (c *confirmTracker) subscribe(ack, nack chan uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ack != nil {
		c.ackChans = append(c.ackChans, ack)
	}
	if nack != nil {
		c.nackChans = append(c.nackChans, nack)
	}
}

func (c *confirmTracker) ack(tag uint64, multiple bool) {
	c.mu.Lock()
	tags := c.resolve(tag, multiple)
	chans := c.ackChans
	c.mu.Unlock()
	for _, t := range tags {
		c.fanout(chans, t)
	}
}

func (c *confirmTracker) nack(tag uint64, multiple bool) {
	c.mu.Lock()
	tags := c.resolve(tag, multiple)
	chans := c.nackChans
	c.mu.Unlock()
	for _, t := range tags {
		c.fanout(chans, t)
	}
}

// resolve returns the tags a Basic.Ack/Basic.Nack covers and removes
// them from the pending set. Without Multiple it is just tag itself
// (even if it was never tracked, e.g. broker-initiated renumbering
// edge cases); with Multiple it is every pending tag <= tag, in
// ascending order so subscribers see monotonically increasing tags.
func (c *confirmTracker) resolve(tag uint64, multiple bool) []uint64 {
	if !multiple {
		delete(c.pending, tag)
		return []uint64{tag}
	}

	var tags []uint64
	for t := range c.pending {
		if t <= tag {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, t := range tags {
		delete(c.pending, t)
	}
	return tags
}

func (c *confirmTracker) fanout(chans []chan uint64, tag uint64) {
	for _, ch := range chans {
		select {
		case ch <- tag:
		default:
			go func(ch chan uint64, tag uint64) { ch <- tag }(ch, tag)
		}
	}
}
