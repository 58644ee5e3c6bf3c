// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// queue.go exposes the Queue domain object: a thin wrapper over the
// Queue-class RPCs and the consume/get paths a Channel already
// implements.

package goamqp

// Queue is a named AMQP queue scoped to one Channel.
type Queue struct {
	channel *Channel
	Name    string
}

// NewQueue returns a handle to a queue by name on ch.
func NewQueue(ch *Channel, name string) *Queue {
	return &Queue{channel: ch, Name: name}
}

// Declare creates the queue (or, if Name is empty, asks the broker to
// generate a name) and reports the broker-assigned name plus current
// message/consumer counts.
func (q *Queue) Declare(durable, exclusive, autoDelete, noWait bool, args Table) (name string, messageCount, consumerCount uint32, err error) {
	resp, err := q.channel.call(&queueDeclare{
		Queue:      q.Name,
		Durable:    durable,
		Exclusive:  exclusive,
		AutoDelete: autoDelete,
		NoWait:     noWait,
		Arguments:  args,
	})
	if err != nil {
		return "", 0, 0, err
	}
	if ok, isOk := resp.(*queueDeclareOk); isOk {
		q.Name = ok.Queue
		return ok.Queue, ok.MessageCount, ok.ConsumerCount, nil
	}
	return q.Name, 0, 0, nil
}

// DeclarePassive asserts the queue already exists.
func (q *Queue) DeclarePassive() (messageCount, consumerCount uint32, err error) {
	resp, err := q.channel.call(&queueDeclare{Queue: q.Name, Passive: true})
	if err != nil {
		return 0, 0, err
	}
	if ok, isOk := resp.(*queueDeclareOk); isOk {
		return ok.MessageCount, ok.ConsumerCount, nil
	}
	return 0, 0, nil
}

// Bind binds this queue to exchange, matching routingKey.
func (q *Queue) Bind(exchange, routingKey string, noWait bool, args Table) error {
	_, err := q.channel.call(&queueBind{Queue: q.Name, Exchange: exchange, RoutingKey: routingKey, NoWait: noWait, Arguments: args})
	return err
}

// Unbind removes a previously created queue binding.
func (q *Queue) Unbind(exchange, routingKey string, args Table) error {
	_, err := q.channel.call(&queueUnbind{Queue: q.Name, Exchange: exchange, RoutingKey: routingKey, Arguments: args})
	return err
}

// Purge removes all ready (non-unacked) messages and reports how many
// were removed.
func (q *Queue) Purge(noWait bool) (uint32, error) {
	resp, err := q.channel.call(&queuePurge{Queue: q.Name, NoWait: noWait})
	if err != nil {
		return 0, err
	}
	if ok, isOk := resp.(*queuePurgeOk); isOk {
		return ok.MessageCount, nil
	}
	return 0, nil
}

// Delete removes the queue, optionally restricted to unused/empty
// queues, and reports how many messages it held.
func (q *Queue) Delete(ifUnused, ifEmpty, noWait bool) (uint32, error) {
	resp, err := q.channel.call(&queueDelete{Queue: q.Name, IfUnused: ifUnused, IfEmpty: ifEmpty, NoWait: noWait})
	if err != nil {
		return 0, err
	}
	if ok, isOk := resp.(*queueDeleteOk); isOk {
		return ok.MessageCount, nil
	}
	return 0, nil
}

// Consume starts consuming from this queue and returns a Consumer
// iterating its deliveries.
func (q *Queue) Consume(consumerTag string, noAck, exclusive, noLocal, noWait bool, args Table) (*Consumer, error) {
	tag, deliveries, err := q.channel.Consume(q.Name, consumerTag, noAck, exclusive, noLocal, noWait, args)
	if err != nil {
		return nil, err
	}
	return &Consumer{tag: tag, channel: q.channel, deliveries: deliveries}, nil
}

// Get performs a single synchronous fetch, returning nil if the queue
// was empty.
func (q *Queue) Get(noAck bool) (*Message, error) {
	return q.channel.Get(q.Name, noAck)
}
