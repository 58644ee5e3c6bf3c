// Copyright (c) 2012, Sean Treadway, SoundCloud Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// Source code and contact info at http://github.com/streadway/amqp

package goamqp

import "fmt"

// Authentication interface provides a means for different SASL
// authentication mechanisms to be used during connection negotiation.
// Only PLAIN ships here; the interface is kept open so a caller may
// supply their own (e.g. AMQPLAIN) without touching the connection
// engine.
type Authentication interface {
	Mechanism() string
	Response() string
}

// PlainAuth is a SASL method for basic username and password
// authentication, sent as the StartOk response.
type PlainAuth struct {
	Username string
	Password string
}

// Mechanism returns "PLAIN"
func (auth *PlainAuth) Mechanism() string {
	return "PLAIN"
}

// Response returns the null-separated triplet "\0user\0password".
func (auth *PlainAuth) Response() string {
	return fmt.Sprintf("\000%s\000%s", auth.Username, auth.Password)
}

// pickSASLMechanism finds the first mechanism in `client` whose name
// appears in the broker-offered `serverMechanisms`.
func pickSASLMechanism(client []Authentication, serverMechanisms []string) (auth Authentication, ok bool) {
	for _, auth := range client {
		for _, mech := range serverMechanisms {
			if auth.Mechanism() == mech {
				return auth, true
			}
		}
	}
	return nil, false
}
