// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

// writer marshals frames to an io.Writer, used by the I/O Worker's
// write path: frames are always marshaled on the worker goroutine.
type writer struct {
	w io.Writer
}

// WriteFrame marshals and writes a single complete frame, including
// the frame-end octet. protocolHeader is special-cased: it has no
// envelope.
func (w *writer) WriteFrame(f frame) error {
	if _, ok := f.(protocolHeader); ok {
		_, err := w.w.Write([]byte("AMQP\x00\x00\x09\x01"))
		return err
	}

	var payload bytes.Buffer
	pw := &writer{w: &payload}

	var typ byte
	var channel uint16

	switch v := f.(type) {
	case *methodFrame:
		typ, channel = frameMethod, v.ChannelID
		classID, methodID := v.Method.id()
		if err := pw.WriteShort(classID); err != nil {
			return err
		}
		if err := pw.WriteShort(methodID); err != nil {
			return err
		}
		if err := v.Method.write(pw); err != nil {
			return err
		}

	case *headerFrame:
		typ, channel = frameHeader, v.ChannelID
		if err := pw.WriteShort(v.ClassID); err != nil {
			return err
		}
		if err := pw.WriteShort(0); err != nil { // weight
			return err
		}
		if err := pw.WriteLongLong(v.Size); err != nil {
			return err
		}
		if err := v.Properties.write(pw); err != nil {
			return err
		}

	case *bodyFrame:
		typ, channel = frameBody, v.ChannelID
		if _, err := payload.Write(v.Body); err != nil {
			return err
		}

	case *heartbeatFrame:
		typ, channel = frameHeartbeat, v.ChannelID

	default:
		return fmt.Errorf("goamqp: cannot marshal frame of type %T", f)
	}

	var header [7]byte
	header[0] = typ
	binary.BigEndian.PutUint16(header[1:3], channel)
	binary.BigEndian.PutUint32(header[3:7], uint32(payload.Len()))

	if _, err := w.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(payload.Bytes()); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{frameEnd})
	return err
}

func (w *writer) WriteOctet(b byte) error {
	_, err := w.w.Write([]byte{b})
	return err
}

func (w *writer) WriteShort(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.w.Write(b[:])
	return err
}

func (w *writer) WriteLong(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.w.Write(b[:])
	return err
}

func (w *writer) WriteLongLong(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := w.w.Write(b[:])
	return err
}

var errShortStrTooLong = errors.New("goamqp: short string longer than 255 bytes")

func (w *writer) WriteShortStr(s string) error {
	if len(s) > 255 {
		return errShortStrTooLong
	}
	if err := w.WriteOctet(byte(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, s)
	return err
}

func (w *writer) WriteLongStr(s string) error {
	if err := w.WriteLong(uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, s)
	return err
}

func (w *writer) WriteBytes(b []byte) error {
	if err := w.WriteLong(uint32(len(b))); err != nil {
		return err
	}
	_, err := w.w.Write(b)
	return err
}

func (w *writer) WriteTimestamp(t time.Time) error {
	return w.WriteLongLong(uint64(t.Unix()))
}

func (w *writer) WriteDecimal(d Decimal) error {
	if err := w.WriteOctet(d.Scale); err != nil {
		return err
	}
	return w.WriteLong(uint32(d.Value))
}

func (w *writer) WriteField(v interface{}) error {
	switch val := v.(type) {
	case nil:
		return w.WriteOctet('V')
	case bool:
		if err := w.WriteOctet('t'); err != nil {
			return err
		}
		if val {
			return w.WriteOctet(1)
		}
		return w.WriteOctet(0)
	case byte:
		if err := w.WriteOctet('B'); err != nil {
			return err
		}
		return w.WriteOctet(val)
	case int8:
		if err := w.WriteOctet('b'); err != nil {
			return err
		}
		return w.WriteOctet(byte(val))
	case int16:
		if err := w.WriteOctet('s'); err != nil {
			return err
		}
		return w.WriteShort(uint16(val))
	case int:
		if err := w.WriteOctet('I'); err != nil {
			return err
		}
		return w.WriteLong(uint32(val))
	case int32:
		if err := w.WriteOctet('I'); err != nil {
			return err
		}
		return w.WriteLong(uint32(val))
	case int64:
		if err := w.WriteOctet('l'); err != nil {
			return err
		}
		return w.WriteLongLong(uint64(val))
	case float32:
		if err := w.WriteOctet('f'); err != nil {
			return err
		}
		return w.WriteLong(math.Float32bits(val))
	case float64:
		if err := w.WriteOctet('d'); err != nil {
			return err
		}
		return w.WriteLongLong(math.Float64bits(val))
	case Decimal:
		if err := w.WriteOctet('D'); err != nil {
			return err
		}
		return w.WriteDecimal(val)
	case string:
		if err := w.WriteOctet('S'); err != nil {
			return err
		}
		return w.WriteLongStr(val)
	case []byte:
		if err := w.WriteOctet('x'); err != nil {
			return err
		}
		return w.WriteBytes(val)
	case time.Time:
		if err := w.WriteOctet('T'); err != nil {
			return err
		}
		return w.WriteTimestamp(val)
	case Table:
		if err := w.WriteOctet('F'); err != nil {
			return err
		}
		return w.WriteTable(val)
	case []interface{}:
		if err := w.WriteOctet('A'); err != nil {
			return err
		}
		return w.writeArray(val)
	default:
		return fmt.Errorf("goamqp: %w: %T", ErrFieldType, v)
	}
}

func (w *writer) writeArray(arr []interface{}) error {
	var buf bytes.Buffer
	bw := &writer{w: &buf}
	for _, v := range arr {
		if err := bw.WriteField(v); err != nil {
			return err
		}
	}
	if err := w.WriteLong(uint32(buf.Len())); err != nil {
		return err
	}
	_, err := w.w.Write(buf.Bytes())
	return err
}

// WriteTable writes a field-table as a 4-byte byte-length followed by
// name/value pairs.
func (w *writer) WriteTable(t Table) error {
	var buf bytes.Buffer
	bw := &writer{w: &buf}
	for k, v := range t {
		if err := bw.WriteShortStr(k); err != nil {
			return err
		}
		if err := bw.WriteField(v); err != nil {
			return err
		}
	}
	if err := w.WriteLong(uint32(buf.Len())); err != nil {
		return err
	}
	_, err := w.w.Write(buf.Bytes())
	return err
}
