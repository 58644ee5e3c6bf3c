// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

import (
	"fmt"
	"time"
)

// Table stores user supplied fields of the following types:
//
//	bool
//	byte
//	int8
//	float32
//	float64
//	int
//	int16
//	int32
//	int64
//	nil
//	string
//	time.Time
//	Decimal
//	Table
//	[]byte
//	[]interface{} - containing above types
//
// Other types of fields are forbidden in AMQP. The reader decodes
// each wire field type to exactly one Go type, so when decoding values
// from an incoming Table, expect the following type assertions:
//
//	bool
//	int8
//	byte
//	int16
//	int32
//	uint32
//	int64
//	float32
//	float64
//	Decimal
//	string
//	[]byte
//	[]interface{}
//	Table
//	time.Time
//	nil
type Table map[string]interface{}

// Decimal matches the AMQP decimal type: a scale and a signed integer
// value such that the decimal value is Value * 10^-Scale.
type Decimal struct {
	Scale uint8
	Value int32
}

// validateField validates the types used in a Table so that the
// marshaler never attempts to encode an unsupported type.
func validateField(f interface{}) error {
	switch v := f.(type) {
	case nil, bool, byte, int8, float32, float64, int, int16, int32, int64, string, []byte, Decimal, time.Time:
		return nil

	case Table:
		for k, val := range v {
			if err := validateField(val); err != nil {
				return fmt.Errorf("table field %q: %w", k, err)
			}
		}
		return nil

	case []interface{}:
		for i, val := range v {
			if err := validateField(val); err != nil {
				return fmt.Errorf("array field index %d: %w", i, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("invalid table field %T", f)
	}
}
