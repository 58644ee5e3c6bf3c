// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

import "time"

// Property presence-flag bits in a content header frame, most
// significant bit first, matching the order fields are declared
// below (AMQP 0-9-1 basic-properties class).
const (
	flagContentType     = 0x8000
	flagContentEncoding = 0x4000
	flagHeaders         = 0x2000
	flagDeliveryMode    = 0x1000
	flagPriority        = 0x0800
	flagCorrelationID   = 0x0400
	flagReplyTo         = 0x0200
	flagExpiration      = 0x0100
	flagMessageID       = 0x0080
	flagTimestamp       = 0x0040
	flagType            = 0x0020
	flagUserID          = 0x0010
	flagAppID           = 0x0008
	flagClusterID       = 0x0004
)

// properties is the wire representation of the 14 named AMQP basic
// properties. It is populated off a headerFrame and copied into/out of
// the user-facing Message (message.go).
type properties struct {
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

func (p *properties) read(r *reader) error {
	flags, err := r.ReadShort()
	if err != nil {
		return err
	}

	if flags&flagContentType != 0 {
		if p.ContentType, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagContentEncoding != 0 {
		if p.ContentEncoding, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagHeaders != 0 {
		if p.Headers, err = r.ReadTable(); err != nil {
			return err
		}
	}
	if flags&flagDeliveryMode != 0 {
		if p.DeliveryMode, err = r.ReadOctet(); err != nil {
			return err
		}
	}
	if flags&flagPriority != 0 {
		if p.Priority, err = r.ReadOctet(); err != nil {
			return err
		}
	}
	if flags&flagCorrelationID != 0 {
		if p.CorrelationID, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagReplyTo != 0 {
		if p.ReplyTo, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagExpiration != 0 {
		if p.Expiration, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagMessageID != 0 {
		if p.MessageID, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagTimestamp != 0 {
		if p.Timestamp, err = r.ReadTimestamp(); err != nil {
			return err
		}
	}
	if flags&flagType != 0 {
		if p.Type, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagUserID != 0 {
		if p.UserID, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagAppID != 0 {
		if p.AppID, err = r.ReadShortStr(); err != nil {
			return err
		}
	}
	if flags&flagClusterID != 0 {
		if p.ClusterID, err = r.ReadShortStr(); err != nil {
			return err
		}
	}

	return nil
}

func (p *properties) write(w *writer) (err error) {
	var flags uint16

	if len(p.ContentType) > 0 {
		flags |= flagContentType
	}
	if len(p.ContentEncoding) > 0 {
		flags |= flagContentEncoding
	}
	if len(p.Headers) > 0 {
		flags |= flagHeaders
	}
	if p.DeliveryMode > 0 {
		flags |= flagDeliveryMode
	}
	if p.Priority > 0 {
		flags |= flagPriority
	}
	if len(p.CorrelationID) > 0 {
		flags |= flagCorrelationID
	}
	if len(p.ReplyTo) > 0 {
		flags |= flagReplyTo
	}
	if len(p.Expiration) > 0 {
		flags |= flagExpiration
	}
	if len(p.MessageID) > 0 {
		flags |= flagMessageID
	}
	if !p.Timestamp.IsZero() {
		flags |= flagTimestamp
	}
	if len(p.Type) > 0 {
		flags |= flagType
	}
	if len(p.UserID) > 0 {
		flags |= flagUserID
	}
	if len(p.AppID) > 0 {
		flags |= flagAppID
	}
	if len(p.ClusterID) > 0 {
		flags |= flagClusterID
	}

	if err = w.WriteShort(flags); err != nil {
		return
	}

	if flags&flagContentType != 0 {
		if err = w.WriteShortStr(p.ContentType); err != nil {
			return
		}
	}
	if flags&flagContentEncoding != 0 {
		if err = w.WriteShortStr(p.ContentEncoding); err != nil {
			return
		}
	}
	if flags&flagHeaders != 0 {
		if err = w.WriteTable(p.Headers); err != nil {
			return
		}
	}
	if flags&flagDeliveryMode != 0 {
		if err = w.WriteOctet(p.DeliveryMode); err != nil {
			return
		}
	}
	if flags&flagPriority != 0 {
		if err = w.WriteOctet(p.Priority); err != nil {
			return
		}
	}
	if flags&flagCorrelationID != 0 {
		if err = w.WriteShortStr(p.CorrelationID); err != nil {
			return
		}
	}
	if flags&flagReplyTo != 0 {
		if err = w.WriteShortStr(p.ReplyTo); err != nil {
			return
		}
	}
	if flags&flagExpiration != 0 {
		if err = w.WriteShortStr(p.Expiration); err != nil {
			return
		}
	}
	if flags&flagMessageID != 0 {
		if err = w.WriteShortStr(p.MessageID); err != nil {
			return
		}
	}
	if flags&flagTimestamp != 0 {
		if err = w.WriteTimestamp(p.Timestamp); err != nil {
			return
		}
	}
	if flags&flagType != 0 {
		if err = w.WriteShortStr(p.Type); err != nil {
			return
		}
	}
	if flags&flagUserID != 0 {
		if err = w.WriteShortStr(p.UserID); err != nil {
			return
		}
	}
	if flags&flagAppID != 0 {
		if err = w.WriteShortStr(p.AppID); err != nil {
			return
		}
	}
	if flags&flagClusterID != 0 {
		if err = w.WriteShortStr(p.ClusterID); err != nil {
			return
		}
	}

	return nil
}
