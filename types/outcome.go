// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Outcome indicates whether a knock made it onto the wire and got some answer,
// or whether it failed in any way.
type Outcome int

// The outcomes of a knock.
const (
	Sent   Outcome = iota // query sent and answered without error.
	Failed                // timeout, NXDOMAIN, unreachable resolver, et cetera.
)

// String returns the clear-text representation of an Outcome value.
func (o Outcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// MarshalText returns the clear-text representation of an Outcome value, so
// that outcomes show up as "sent" and "failed" in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
