// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// allocator.go tracks which channel ids in [1, channel_max] are in
// use, so Connection.Channel can hand out the smallest unused id.

package goamqp

import "sync"

// channelAllocator hands out and reclaims channel ids. Channel 0 is
// reserved and never allocated here.
type channelAllocator struct {
	mu   sync.Mutex
	max  int
	used map[int]bool
	next int // set to 1 at construction; allocate does not read it and always scans from 1
}

func newChannelAllocator(max int) *channelAllocator {
	return &channelAllocator{
		max:  max,
		used: make(map[int]bool),
		next: 1,
	}
}

// allocate returns the smallest unused id in [1, max], or
// ErrTooManyChannels if none remain.
func (a *channelAllocator) allocate() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.used) >= a.max {
		return 0, &ErrTooManyChannels{Max: a.max}
	}

	for id := 1; id <= a.max; id++ {
		if !a.used[id] {
			a.used[id] = true
			return id, nil
		}
	}
	return 0, &ErrTooManyChannels{Max: a.max}
}

func (a *channelAllocator) release(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.used, id)
}
