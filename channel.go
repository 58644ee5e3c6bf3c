// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// channel.go implements the per-channel RPC engine for channels
// numbered 1 and above: synchronous request/response calls, content
// reassembly for Basic.Deliver/Return/Get-Ok, publish batching, and
// the local/remote close grammar.

package goamqp

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// channelRegistry tracks every open Channel by id so the I/O Worker
// can route inbound frames without knowing about the Connection
// facade.
type channelRegistry struct {
	mu       sync.RWMutex
	channels map[uint16]*Channel
}

func newChannelRegistry() *channelRegistry {
	return &channelRegistry{channels: make(map[uint16]*Channel)}
}

func (r *channelRegistry) add(ch *Channel) {
	r.mu.Lock()
	r.channels[ch.id] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) get(id uint16) *Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channels[id]
}

func (r *channelRegistry) remove(id uint16) {
	r.mu.Lock()
	delete(r.channels, id)
	r.mu.Unlock()
}

func (r *channelRegistry) all() []*Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		out = append(out, ch)
	}
	return out
}

// pendingContent accumulates a header frame and its following body
// frames into a single Message, the reassembly state machine every
// Deliver/Return/Get-Ok goes through before it can be handed to a
// caller.
type pendingContent struct {
	kind        string // "deliver", "return", "getOk"
	deliver     *basicDeliver
	ret         *basicReturn
	getOk       *basicGetOk
	size        uint64
	body        []byte
	props       properties
	haveHeader  bool
}

// Channel is one AMQP channel (numbered 1..channel_max) multiplexed
// over the connection's single socket.
type Channel struct {
	id       uint16
	worker   *ioWorker
	frameMax int

	exceptions *ExceptionChannel
	logger     Logger

	state lifecycle

	rpc chan message

	mu           sync.Mutex
	pending      *pendingContent
	closeErr     error
	confirms     *confirmTracker
	txActive     bool
	consumers    map[string]chan *Message
	getResult    chan *Message
	flowActive   bool
}

func newChannel(id uint16, worker *ioWorker, exceptions *ExceptionChannel, logger Logger, frameMax int) *Channel {
	ch := &Channel{
		id:         id,
		worker:     worker,
		frameMax:   frameMax,
		exceptions: exceptions,
		logger:     logger,
		rpc:        make(chan message, 1),
		consumers:  make(map[string]chan *Message),
		flowActive: true,
	}
	ch.state.set(stateClosed)
	return ch
}

// open performs the Channel.Open / Channel.Open-Ok handshake.
func (ch *Channel) open() error {
	ch.state.set(stateOpening)
	if _, err := ch.call(&channelOpen{}); err != nil {
		ch.state.set(stateClosed)
		return err
	}
	ch.state.set(stateOpen)
	return nil
}

// call sends a method on this channel and blocks for its response,
// failing fast if the channel is Closed (Opening and Closing are let
// through for the channel's own Open and Close handshakes) or closes
// while waiting.
func (ch *Channel) call(req message) (message, error) {
	if !ch.state.is(stateOpen) && !ch.state.is(stateOpening) && !ch.state.is(stateClosing) {
		return nil, ch.closedError()
	}

	if err := ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: req}}); err != nil {
		return nil, err
	}

	if !req.wait() {
		return nil, nil
	}

	select {
	case resp := <-ch.rpc:
		if _, ok := resp.(*channelClose); ok {
			return nil, ch.closedError()
		}
		return resp, nil
	case <-ch.worker.closeOnce:
		return nil, ch.closedError()
	}
}

func (ch *Channel) closedError() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closeErr != nil {
		return ch.closeErr
	}
	return &ErrChannelClosed{Channel: int(ch.id)}
}

// deliver is invoked by the I/O Worker's reader loop for every frame
// addressed to this channel.
func (ch *Channel) deliver(f frame) {
	switch v := f.(type) {
	case *headerFrame:
		ch.mu.Lock()
		if ch.pending != nil {
			ch.pending.props = v.Properties
			ch.pending.size = v.Size
			ch.pending.haveHeader = true
			if v.Size == 0 {
				ch.finishPending()
			}
		}
		ch.mu.Unlock()

	case *bodyFrame:
		ch.mu.Lock()
		if ch.pending != nil {
			ch.pending.body = append(ch.pending.body, v.Body...)
			if uint64(len(ch.pending.body)) >= ch.pending.size {
				ch.finishPending()
			}
		}
		ch.mu.Unlock()

	case *methodFrame:
		ch.deliverMethod(v.Method)

	default:
		ch.logger.Warnf("goamqp: channel %d: unexpected frame %T", ch.id, f)
	}
}

func (ch *Channel) deliverMethod(m message) {
	switch v := m.(type) {
	case *channelClose:
		closeErr := &RemoteClosedChannelError{Channel: int(ch.id), Code: int(v.ReplyCode), Reason: v.ReplyText}
		ch.mu.Lock()
		ch.closeErr = closeErr
		ch.mu.Unlock()
		ch.exceptions.Push(closeErr)
		_ = ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: &channelCloseOk{}}})
		ch.state.set(stateClosed)
		ch.closeConsumers()
		// Wake a caller blocked in call; it reports closeErr.
		select {
		case ch.rpc <- v:
		default:
		}

	case *channelCloseOk:
		ch.state.set(stateClosed)
		select {
		case ch.rpc <- v:
		default:
		}

	case *channelFlow:
		ch.mu.Lock()
		ch.flowActive = v.Active
		ch.mu.Unlock()
		_ = ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: &channelFlowOk{Active: v.Active}}})

	case *basicDeliver:
		ch.mu.Lock()
		ch.pending = &pendingContent{kind: "deliver", deliver: v}
		ch.mu.Unlock()

	case *basicReturn:
		ch.mu.Lock()
		ch.pending = &pendingContent{kind: "return", ret: v}
		ch.mu.Unlock()

	case *basicGetOk:
		ch.mu.Lock()
		ch.pending = &pendingContent{kind: "getOk", getOk: v}
		ch.mu.Unlock()

	case *basicGetEmpty:
		ch.mu.Lock()
		gr := ch.getResult
		ch.mu.Unlock()
		if gr != nil {
			gr <- nil
		}

	case *basicAck:
		ch.mu.Lock()
		confirms := ch.confirms
		ch.mu.Unlock()
		if confirms != nil {
			confirms.ack(v.DeliveryTag, v.Multiple)
		}

	case *basicNack:
		ch.mu.Lock()
		confirms := ch.confirms
		ch.mu.Unlock()
		if confirms != nil {
			confirms.nack(v.DeliveryTag, v.Multiple)
		}

	case *basicCancel:
		ch.mu.Lock()
		deliveries, ok := ch.consumers[v.ConsumerTag]
		delete(ch.consumers, v.ConsumerTag)
		ch.mu.Unlock()
		if ok {
			close(deliveries)
		}

	default:
		select {
		case ch.rpc <- m:
		default:
			ch.logger.Warnf("goamqp: channel %d: dropping unexpected method %T", ch.id, m)
		}
	}
}

// finishPending must be called with ch.mu held. It converts the
// accumulated header+body into a Message and routes it to whichever
// consumer, Get() caller, or exception sink is waiting for it.
func (ch *Channel) finishPending() {
	p := ch.pending
	ch.pending = nil

	msg := &Message{
		Body:       p.body,
		Properties: propertiesFromWire(p.props),
	}

	switch p.kind {
	case "deliver":
		msg.DeliveryTag = p.deliver.DeliveryTag
		msg.Redelivered = p.deliver.Redelivered
		msg.Exchange = p.deliver.Exchange
		msg.RoutingKey = p.deliver.RoutingKey
		msg.ConsumerTag = p.deliver.ConsumerTag
		if deliveries, ok := ch.consumers[p.deliver.ConsumerTag]; ok {
			go func() { deliveries <- msg }()
		}

	case "return":
		msg.Exchange = p.ret.Exchange
		msg.RoutingKey = p.ret.RoutingKey
		ch.exceptions.Push(&MessageReturnedError{
			MessageID:  msg.Properties.MessageID,
			ReplyCode:  int(p.ret.ReplyCode),
			ReplyText:  p.ret.ReplyText,
			Exchange:   p.ret.Exchange,
			RoutingKey: p.ret.RoutingKey,
		})

	case "getOk":
		msg.DeliveryTag = p.getOk.DeliveryTag
		msg.Redelivered = p.getOk.Redelivered
		msg.Exchange = p.getOk.Exchange
		msg.RoutingKey = p.getOk.RoutingKey
		if ch.getResult != nil {
			gr := ch.getResult
			go func() { gr <- msg }()
		}
	}
}

func (ch *Channel) closeConsumers() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for tag, deliveries := range ch.consumers {
		close(deliveries)
		delete(ch.consumers, tag)
	}
}

// maxBodyChunk returns how many bytes of a message body fit in one
// body frame given the negotiated frame size, leaving room for the
// frame envelope (type+channel+length+frame-end = 8 bytes).
func (ch *Channel) maxBodyChunk() int {
	if ch.frameMax <= 8 {
		return frameMinSize - 8
	}
	return ch.frameMax - 8
}

// Publish sends a message, batching the method, header, and body
// frames as a single write-queue submission so they always land on
// the wire contiguously, never interleaved with another channel's or
// another publish's frames. If publisher confirms are enabled it
// returns the delivery tag assigned to this message; otherwise 0.
func (ch *Channel) Publish(exchange, routingKey string, mandatory, immediate bool, msg Message) (uint64, error) {
	if !ch.state.is(stateOpen) {
		return 0, ch.closedError()
	}

	var tag uint64
	ch.mu.Lock()
	confirms := ch.confirms
	ch.mu.Unlock()
	if confirms != nil {
		tag = confirms.next()
	}

	batch := writeBatch{
		&methodFrame{ChannelID: ch.id, Method: &basicPublish{
			Exchange:   exchange,
			RoutingKey: routingKey,
			Mandatory:  mandatory,
			Immediate:  immediate,
		}},
		&headerFrame{
			ChannelID:  ch.id,
			ClassID:    classBasic,
			Size:       uint64(len(msg.Body)),
			Properties: msg.Properties.toWire(),
		},
	}

	chunk := ch.maxBodyChunk()
	for offset := 0; offset < len(msg.Body); offset += chunk {
		end := offset + chunk
		if end > len(msg.Body) {
			end = len(msg.Body)
		}
		batch = append(batch, &bodyFrame{ChannelID: ch.id, Body: msg.Body[offset:end]})
	}

	if err := ch.worker.enqueue(batch); err != nil {
		return 0, err
	}
	return tag, nil
}

// Consume registers a consumer tag with the broker and returns the
// channel of Messages the broker delivers to it, and the server-
// assigned (or confirmed) consumer tag.
func (ch *Channel) Consume(queue, consumerTag string, noAck, exclusive, noLocal, noWait bool, args Table) (string, <-chan *Message, error) {
	if consumerTag == "" {
		consumerTag = uuid.NewString()
	}

	resp, err := ch.call(&basicConsume{
		Queue:       queue,
		ConsumerTag: consumerTag,
		NoLocal:     noLocal,
		NoAck:       noAck,
		Exclusive:   exclusive,
		NoWait:      noWait,
		Arguments:   args,
	})
	if err != nil {
		return "", nil, err
	}

	tag := consumerTag
	if ok, isOk := resp.(*basicConsumeOk); isOk && ok.ConsumerTag != "" {
		tag = ok.ConsumerTag
	}

	deliveries := make(chan *Message, 16)
	ch.mu.Lock()
	ch.consumers[tag] = deliveries
	ch.mu.Unlock()

	return tag, deliveries, nil
}

// Cancel stops a consumer, both notifying the broker and closing the
// local delivery channel.
func (ch *Channel) Cancel(consumerTag string, noWait bool) error {
	_, err := ch.call(&basicCancel{ConsumerTag: consumerTag, NoWait: noWait})

	ch.mu.Lock()
	deliveries, ok := ch.consumers[consumerTag]
	delete(ch.consumers, consumerTag)
	ch.mu.Unlock()
	if ok {
		close(deliveries)
	}
	return err
}

// Get performs a synchronous Basic.Get and returns the message, or
// nil if the queue was empty.
func (ch *Channel) Get(queue string, noAck bool) (*Message, error) {
	if !ch.state.is(stateOpen) {
		return nil, ch.closedError()
	}

	result := make(chan *Message, 1)
	ch.mu.Lock()
	ch.getResult = result
	ch.mu.Unlock()
	defer func() {
		ch.mu.Lock()
		ch.getResult = nil
		ch.mu.Unlock()
	}()

	if err := ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: &basicGet{Queue: queue, NoAck: noAck}}}); err != nil {
		return nil, err
	}

	select {
	case msg := <-result:
		return msg, nil
	case <-ch.worker.closeOnce:
		return nil, ch.closedError()
	}
}

// Ack acknowledges one or more deliveries up to and including tag.
func (ch *Channel) Ack(tag uint64, multiple bool) error {
	return ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: &basicAck{DeliveryTag: tag, Multiple: multiple}}})
}

// Nack negatively acknowledges one or more deliveries.
func (ch *Channel) Nack(tag uint64, multiple, requeue bool) error {
	return ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: &basicNack{DeliveryTag: tag, Multiple: multiple, Requeue: requeue}}})
}

// Reject rejects a single delivery.
func (ch *Channel) Reject(tag uint64, requeue bool) error {
	return ch.worker.enqueue(writeBatch{&methodFrame{ChannelID: ch.id, Method: &basicReject{DeliveryTag: tag, Requeue: requeue}}})
}

// Qos sets the channel's prefetch limits.
func (ch *Channel) Qos(prefetchCount uint16, prefetchSize uint32, global bool) error {
	_, err := ch.call(&basicQos{PrefetchCount: prefetchCount, PrefetchSize: prefetchSize, Global: global})
	return err
}

// Recover asks the broker to redeliver unacknowledged messages.
func (ch *Channel) Recover(requeue bool) error {
	_, err := ch.call(&basicRecover{Requeue: requeue})
	return err
}

// Flow enables or disables broker-to-client delivery flow.
func (ch *Channel) Flow(active bool) error {
	_, err := ch.call(&channelFlow{Active: active})
	return err
}

// Confirm switches this channel into publisher-confirms mode; it is
// mutually exclusive with Tx — a channel may not be both
// transactional and confirm-mode at once.
func (ch *Channel) Confirm(noWait bool) error {
	ch.mu.Lock()
	if ch.confirms != nil {
		ch.mu.Unlock()
		return fmt.Errorf("goamqp: channel %d already in confirm mode", ch.id)
	}
	if ch.txActive {
		ch.mu.Unlock()
		return ErrTxConfirmConflict
	}
	ch.mu.Unlock()

	if _, err := ch.call(&confirmSelect{NoWait: noWait}); err != nil {
		return err
	}

	ch.mu.Lock()
	ch.confirms = newConfirmTracker()
	ch.mu.Unlock()
	return nil
}

// NotifyConfirm registers channels that receive delivery tags as the
// broker acknowledges or rejects published messages. Confirm must
// have been called first.
func (ch *Channel) NotifyConfirm(ack, nack chan uint64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.confirms != nil {
		ch.confirms.subscribe(ack, nack)
	}
}

// Close performs the client-initiated Channel.Close / Channel.Close-
// Ok grammar. It does not release the channel id: the id stays
// allocated, and the channel registered, until Connection.Close
// releases it.
func (ch *Channel) Close(code uint16, reason string) error {
	if ch.state.is(stateClosed) {
		return nil
	}
	ch.state.set(stateClosing)
	_, err := ch.call(&channelClose{ReplyCode: code, ReplyText: reason})
	ch.state.set(stateClosed)
	ch.closeConsumers()
	return err
}

// ID reports this channel's AMQP channel number.
func (ch *Channel) ID() int { return int(ch.id) }
