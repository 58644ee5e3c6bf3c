// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// consumer.go wraps a Channel's raw delivery chan into a small
// iterator type with an explicit Cancel, so callers don't need to
// know the consumer tag to stop consuming cleanly.

package goamqp

// Consumer iterates the Messages a Basic.Consume delivers. The
// channel returned by Messages() closes both when the caller calls
// Cancel and when the broker sends a consumer-cancel notification
// (e.g. because the queue it was consuming from was deleted).
type Consumer struct {
	tag        string
	channel    *Channel
	deliveries <-chan *Message
}

// Tag returns the consumer tag the broker confirmed.
func (c *Consumer) Tag() string { return c.tag }

// Messages returns the channel of deliveries. Range over it; it
// closes when the consumer ends for any reason.
func (c *Consumer) Messages() <-chan *Message { return c.deliveries }

// Cancel stops the consumer and waits for the broker's
// Basic.Cancel-Ok (unless noWait is set).
func (c *Consumer) Cancel(noWait bool) error {
	return c.channel.Cancel(c.tag, noWait)
}
