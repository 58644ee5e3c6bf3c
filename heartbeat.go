// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// heartbeat.go implements the Heartbeat Timer: a single select loop
// covering two independent concerns, emitting heartbeats when outbound
// traffic has gone quiet, and failing the connection when inbound
// traffic has gone quiet for too long.

package goamqp

import (
	"sync"
	"time"
)

// maxMissedHeartbeats is the number of missed heartbeat intervals the
// connection tolerates before it declares the socket dead.
const maxMissedHeartbeats = 3

type heartbeatTimer struct {
	interval   time.Duration
	worker     *ioWorker
	exceptions *ExceptionChannel
	events     *EventRegistry
	logger     Logger

	mu           sync.Mutex
	lastReceived time.Time

	stop chan struct{}
	done chan struct{}
}

func newHeartbeatTimer(interval time.Duration, worker *ioWorker, exceptions *ExceptionChannel, events *EventRegistry, logger Logger) *heartbeatTimer {
	return &heartbeatTimer{
		interval:     interval,
		worker:       worker,
		exceptions:   exceptions,
		events:       events,
		logger:       logger,
		lastReceived: time.Now(),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// noteReceived is called by the I/O Worker's reader loop on every
// frame (including heartbeats) it successfully demarshals.
func (h *heartbeatTimer) noteReceived() {
	h.mu.Lock()
	h.lastReceived = time.Now()
	h.mu.Unlock()
}

func (h *heartbeatTimer) since() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return time.Since(h.lastReceived)
}

// run is a no-op if the negotiated heartbeat is 0: heartbeats are
// disabled entirely in that case.
func (h *heartbeatTimer) run() {
	defer close(h.done)

	if h.interval <= 0 {
		return
	}

	ticker := time.NewTicker(h.interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case <-h.worker.wrote:
				// At least one frame (possibly our own previous
				// heartbeat) went out since the last tick; skip
				// sending one.
			default:
				if err := h.worker.enqueue(writeBatch{&heartbeatFrame{ChannelID: 0}}); err != nil {
					return
				}
			}

			if h.since() >= h.interval*maxMissedHeartbeats {
				h.logger.Errorf("goamqp: no heartbeat received in %s, resetting connection", h.since())
				h.exceptions.Push(&ConnectionResetError{Reason: "heartbeat timeout"})
				h.events.Set(ExceptionRaised)
				h.worker.shutdown()
				return
			}

		case <-h.stop:
			return
		}
	}
}

func (h *heartbeatTimer) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.done
}
