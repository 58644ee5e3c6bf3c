// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"
)

// reader demarshals low level frames from an io.Reader. It does not
// parse the 8-byte protocol header; every frame it reads carries the
// type/channel/length envelope.
type reader struct {
	r io.Reader
}

var errInvalidFrameEnd = errors.New("goamqp: frame-end octet missing")

// ReadFrame reads exactly one frame off the wire: type, channel,
// length, payload, frame-end. It returns an already-demarshaled
// method/header/body/heartbeat frame.
func (r *reader) ReadFrame() (frame, error) {
	var scratch [7]byte

	if _, err := io.ReadFull(r.r, scratch[:]); err != nil {
		return nil, err
	}

	typ := scratch[0]
	channel := binary.BigEndian.Uint16(scratch[1:3])
	size := binary.BigEndian.Uint32(scratch[3:7])

	payload := make([]byte, size)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return nil, err
	}

	var end [1]byte
	if _, err := io.ReadFull(r.r, end[:]); err != nil {
		return nil, err
	}
	if end[0] != frameEnd {
		return nil, errInvalidFrameEnd
	}

	body := &reader{bytesReader(payload)}

	switch typ {
	case frameMethod:
		classID, err := body.ReadShort()
		if err != nil {
			return nil, err
		}
		methodID, err := body.ReadShort()
		if err != nil {
			return nil, err
		}
		msg, err := decodeMessage(classID, methodID)
		if err != nil {
			return nil, err
		}
		if err := msg.read(body); err != nil {
			return nil, err
		}
		return &methodFrame{ChannelID: channel, ClassID: classID, MethodID: methodID, Method: msg}, nil

	case frameHeader:
		classID, err := body.ReadShort()
		if err != nil {
			return nil, err
		}
		if _, err := body.ReadShort(); err != nil { // weight, reserved
			return nil, err
		}
		bodySize, err := body.ReadLongLong()
		if err != nil {
			return nil, err
		}
		hf := &headerFrame{ChannelID: channel, ClassID: classID, Size: bodySize}
		if err := hf.Properties.read(body); err != nil {
			return nil, err
		}
		return hf, nil

	case frameBody:
		return &bodyFrame{ChannelID: channel, Body: payload}, nil

	case frameHeartbeat:
		return &heartbeatFrame{ChannelID: channel}, nil

	default:
		return nil, ErrFrame
	}
}

func bytesReader(b []byte) io.Reader {
	return &byteSliceReader{b: b}
}

// byteSliceReader avoids pulling in bytes.Reader just for io.Reader;
// kept tiny and allocation free for the hot read path.
type byteSliceReader struct {
	b []byte
	i int
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

func (r *reader) ReadOctet() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) ReadShort() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *reader) ReadLong() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (r *reader) ReadLongLong() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (r *reader) ReadShortStr() (string, error) {
	length, err := r.ReadOctet()
	if err != nil {
		return "", err
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) ReadLongStr() (string, error) {
	length, err := r.ReadLong()
	if err != nil {
		return "", err
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) ReadBytes() ([]byte, error) {
	length, err := r.ReadLong()
	if err != nil {
		return nil, err
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *reader) ReadTimestamp() (time.Time, error) {
	secs, err := r.ReadLongLong()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0).UTC(), nil
}

func (r *reader) ReadDecimal() (Decimal, error) {
	scale, err := r.ReadOctet()
	if err != nil {
		return Decimal{}, err
	}
	value, err := r.ReadLong()
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Scale: scale, Value: int32(value)}, nil
}

// ReadField reads one AMQP field-value: a type octet followed by the
// value in that type's wire form.
func (r *reader) ReadField() (interface{}, error) {
	typ, err := r.ReadOctet()
	if err != nil {
		return nil, err
	}

	switch typ {
	case 't':
		b, err := r.ReadOctet()
		return b != 0, err
	case 'b':
		b, err := r.ReadOctet()
		return int8(b), err
	case 'B':
		return r.ReadOctet()
	case 's':
		v, err := r.ReadShort()
		return int16(v), err
	case 'I':
		v, err := r.ReadLong()
		return int32(v), err
	case 'i':
		v, err := r.ReadLong()
		return v, err
	case 'l':
		v, err := r.ReadLongLong()
		return int64(v), err
	case 'f':
		v, err := r.ReadLong()
		return float32frombits(v), err
	case 'd':
		v, err := r.ReadLongLong()
		return float64frombits(v), err
	case 'D':
		return r.ReadDecimal()
	case 'S':
		return r.ReadLongStr()
	case 'x':
		return r.ReadBytes()
	case 'A':
		return r.readArray()
	case 'T':
		return r.ReadTimestamp()
	case 'F':
		return r.ReadTable()
	case 'V':
		return nil, nil
	default:
		return nil, ErrFieldType
	}
}

func (r *reader) readArray() ([]interface{}, error) {
	size, err := r.ReadLong()
	if err != nil {
		return nil, err
	}

	cr := &countingReader{r: r.r}
	rr := &reader{r: cr}
	var arr []interface{}
	for int64(cr.n) < int64(size) {
		v, err := rr.ReadField()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

// ReadTable reads a field-table: a 4-byte byte-length followed by
// name/value pairs until that many bytes are consumed.
func (r *reader) ReadTable() (Table, error) {
	size, err := r.ReadLong()
	if err != nil {
		return nil, err
	}

	cr := &countingReader{r: r.r}
	rr := &reader{r: cr}
	table := make(Table)
	for int64(cr.n) < int64(size) {
		key, err := rr.ReadShortStr()
		if err != nil {
			return nil, err
		}
		val, err := rr.ReadField()
		if err != nil {
			return nil, err
		}
		table[key] = val
	}
	return table, nil
}

// countingReader wraps an io.Reader to track bytes consumed, used to
// know when a nested table or array's declared byte length has been
// fully read even though its field values have variable width.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func float32frombits(b uint32) float32 {
	return math.Float32frombits(b)
}

func float64frombits(b uint64) float64 {
	return math.Float64frombits(b)
}
