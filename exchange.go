// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// exchange.go exposes the Exchange domain object: a thin, validating
// wrapper over the Exchange-class RPCs a Channel already knows how to
// make.

package goamqp

// Exchange kind constants, the values the broker expects in
// Exchange.Declare's type field.
const (
	ExchangeDirect  = "direct"
	ExchangeFanout  = "fanout"
	ExchangeTopic   = "topic"
	ExchangeHeaders = "headers"
)

// Exchange is a named AMQP exchange scoped to one Channel.
type Exchange struct {
	channel *Channel
	Name    string
}

// NewExchange returns a handle to an exchange by name on ch. It does
// not itself contact the broker; call Declare (or DeclarePassive to
// assert it already exists).
func NewExchange(ch *Channel, name string) *Exchange {
	return &Exchange{channel: ch, Name: name}
}

// Declare creates the exchange with the given kind and properties.
func (e *Exchange) Declare(kind string, durable, autoDelete, internal, noWait bool, args Table) error {
	_, err := e.channel.call(&exchangeDeclare{
		Exchange:   e.Name,
		Type:       kind,
		Durable:    durable,
		AutoDelete: autoDelete,
		Internal:   internal,
		NoWait:     noWait,
		Arguments:  args,
	})
	return err
}

// DeclarePassive asserts the exchange already exists with the given
// kind, failing with a channel-level NotFound if it does not.
func (e *Exchange) DeclarePassive(kind string) error {
	_, err := e.channel.call(&exchangeDeclare{Exchange: e.Name, Type: kind, Passive: true})
	return err
}

// Delete removes the exchange. ifUnused restricts deletion to
// exchanges with no bindings.
func (e *Exchange) Delete(ifUnused, noWait bool) error {
	_, err := e.channel.call(&exchangeDelete{Exchange: e.Name, IfUnused: ifUnused, NoWait: noWait})
	return err
}

// Bind binds this exchange as the destination of routes published
// through source, matching routingKey.
func (e *Exchange) Bind(source, routingKey string, noWait bool, args Table) error {
	_, err := e.channel.call(&exchangeBind{Destination: e.Name, Source: source, RoutingKey: routingKey, NoWait: noWait, Arguments: args})
	return err
}

// Unbind removes a previously created exchange-to-exchange binding.
func (e *Exchange) Unbind(source, routingKey string, noWait bool, args Table) error {
	_, err := e.channel.call(&exchangeUnbind{Destination: e.Name, Source: source, RoutingKey: routingKey, NoWait: noWait, Arguments: args})
	return err
}

// Publish sends a message to this exchange. See Channel.Publish for
// the mandatory/immediate semantics and confirms correlation.
func (e *Exchange) Publish(routingKey string, mandatory, immediate bool, msg Message) (uint64, error) {
	return e.channel.Publish(e.Name, routingKey, mandatory, immediate, msg)
}
