// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp
//
// message.go implements the user-facing Message type: an opaque body
// plus the 14 named AMQP basic properties, represented as a closed
// record rather than a dynamic property dispatch. Construction
// validates field names and coerces timestamp values through a single
// normalization function.

package goamqp

import (
	"fmt"
	"strconv"
	"time"
)

// Properties is the user-facing view of the 14 named AMQP basic
// properties. Zero values mean "not set" on the wire, matching
// properties.write's omit-if-empty behavior.
type Properties struct {
	ContentType     string
	ContentEncoding string
	Headers         Table
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       time.Time
	Type            string
	UserID          string
	AppID           string
	ClusterID       string
}

// propertyFieldNames is the fixed 14-key set: any other key supplied
// to NewMessageFromTable raises InvalidProperty.
var propertyFieldNames = map[string]bool{
	"content_type":     true,
	"content_encoding": true,
	"headers":          true,
	"delivery_mode":    true,
	"priority":         true,
	"correlation_id":   true,
	"reply_to":         true,
	"expiration":       true,
	"message_id":       true,
	"timestamp":        true,
	"type":             true,
	"user_id":          true,
	"app_id":           true,
	"cluster_id":       true,
}

// Message is the unit a publisher sends and a consumer/getter
// receives. DeliveryTag, Redelivered, Exchange, RoutingKey, and
// ConsumerTag are routing-derived metadata only ever populated on
// receive, after content reassembly.
type Message struct {
	Body       []byte
	Properties Properties

	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
	ConsumerTag string
}

// NewMessage builds a Message from a body and a set of already-typed
// Properties, normalizing the timestamp through NormalizeTimestamp.
func NewMessage(body []byte, props Properties) *Message {
	props.Timestamp, _ = NormalizeTimestamp(props.Timestamp)
	return &Message{Body: body, Properties: props}
}

// NewMessageFromTable builds a Message from a dynamically-keyed
// property map, the shape a caller porting from a dict-based client
// will have on hand. It rejects any key outside the fixed 14-name set
// and normalizes timestamp through NormalizeTimestamp, accepting any
// of int, float, numeric string, time.Time, or nil.
func NewMessageFromTable(body []byte, fields map[string]interface{}) (*Message, error) {
	var p Properties

	for key, val := range fields {
		if !propertyFieldNames[key] {
			return nil, &ErrInvalidProperty{Key: key}
		}

		var err error
		switch key {
		case "content_type":
			p.ContentType, err = asString(val)
		case "content_encoding":
			p.ContentEncoding, err = asString(val)
		case "headers":
			p.Headers, err = asTable(val)
		case "delivery_mode":
			p.DeliveryMode, err = asUint8(val)
		case "priority":
			p.Priority, err = asUint8(val)
		case "correlation_id":
			p.CorrelationID, err = asString(val)
		case "reply_to":
			p.ReplyTo, err = asString(val)
		case "expiration":
			p.Expiration, err = asString(val)
		case "message_id":
			p.MessageID, err = asString(val)
		case "timestamp":
			p.Timestamp, err = NormalizeTimestamp(val)
		case "type":
			p.Type, err = asString(val)
		case "user_id":
			p.UserID, err = asString(val)
		case "app_id":
			p.AppID, err = asString(val)
		case "cluster_id":
			p.ClusterID, err = asString(val)
		}
		if err != nil {
			return nil, fmt.Errorf("goamqp: property %q: %w", key, err)
		}
	}

	return &Message{Body: body, Properties: p}, nil
}

// NormalizeTimestamp coerces any of int, int64, float32/64, a numeric
// string, time.Time, or nil into an absolute time.Time (the zero value
// iff the input was nil). A caller with broken-down time fields
// constructs a time.Time themselves; this function accepts it like any
// other absolute form.
func NormalizeTimestamp(t interface{}) (time.Time, error) {
	switch v := t.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v.UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case float32:
		return floatToTime(float64(v)), nil
	case float64:
		return floatToTime(v), nil
	case string:
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid numeric timestamp string %q: %w", v, err)
		}
		return time.Unix(secs, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", t)
	}
}

func floatToTime(secs float64) time.Time {
	whole := int64(secs)
	frac := secs - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).UTC()
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asTable(v interface{}) (Table, error) {
	t, ok := v.(Table)
	if !ok {
		return nil, fmt.Errorf("expected Table, got %T", v)
	}
	return t, nil
}

func asUint8(v interface{}) (uint8, error) {
	switch n := v.(type) {
	case uint8:
		return n, nil
	case int:
		return uint8(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func (p Properties) toWire() properties {
	return properties{
		ContentType:     p.ContentType,
		ContentEncoding: p.ContentEncoding,
		Headers:         p.Headers,
		DeliveryMode:    p.DeliveryMode,
		Priority:        p.Priority,
		CorrelationID:   p.CorrelationID,
		ReplyTo:         p.ReplyTo,
		Expiration:      p.Expiration,
		MessageID:       p.MessageID,
		Timestamp:       p.Timestamp,
		Type:            p.Type,
		UserID:          p.UserID,
		AppID:           p.AppID,
		ClusterID:       p.ClusterID,
	}
}

func propertiesFromWire(w properties) Properties {
	return Properties{
		ContentType:     w.ContentType,
		ContentEncoding: w.ContentEncoding,
		Headers:         w.Headers,
		DeliveryMode:    w.DeliveryMode,
		Priority:        w.Priority,
		CorrelationID:   w.CorrelationID,
		ReplyTo:         w.ReplyTo,
		Expiration:      w.Expiration,
		MessageID:       w.MessageID,
		Timestamp:       w.Timestamp,
		Type:            w.Type,
		UserID:          w.UserID,
		AppID:           w.AppID,
		ClusterID:       w.ClusterID,
	}
}
