// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"strings"
	"time"

	"github.com/miekg/dns"
)

// RecordType is the (upper case) name of a DNS record type to knock with.
type RecordType string

// The record types we know how to knock with.
const (
	A     RecordType = "A"
	AAAA  RecordType = "AAAA"
	CNAME RecordType = "CNAME"
	MX    RecordType = "MX"
	NS    RecordType = "NS"
	PTR   RecordType = "PTR"
	SOA   RecordType = "SOA"
	SRV   RecordType = "SRV"
	TXT   RecordType = "TXT"
)

// RecordTypes lists all valid record types.
var RecordTypes = []RecordType{A, AAAA, CNAME, MX, NS, PTR, SOA, SRV, TXT}

// Qtype returns the numeric DNS query type, or dns.TypeNone for invalid record
// types.
func (t RecordType) Qtype() uint16 {
	if !t.Valid() {
		return dns.TypeNone
	}
	return dns.StringToType[string(t)]
}

// Valid returns true if the record type is one of the supported types.
func (t RecordType) Valid() bool {
	for _, rt := range RecordTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// ParseRecordType returns the RecordType for the specified name, ignoring
// case and surrounding white space.
func ParseRecordType(name string) (RecordType, error) {
	rt := RecordType(strings.ToUpper(strings.TrimSpace(name)))
	if !rt.Valid() {
		return "", &ConfigError{Reason: "invalid record type: " + name}
	}
	return rt, nil
}

// ParseRecordTypes parses a comma-separated list of record type names, such as
// "A,aaaa". It fails on the first invalid record type or if the list is empty;
// invalid types are never silently skipped.
func ParseRecordTypes(list string) ([]RecordType, error) {
	rts := []RecordType{}
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		rt, err := ParseRecordType(name)
		if err != nil {
			return nil, err
		}
		rts = append(rts, rt)
	}
	if len(rts) == 0 {
		return nil, &ConfigError{Reason: "no record types specified"}
	}
	return rts, nil
}

// LookupRequest describes a single knock. Please treat it as immutable.
type LookupRequest struct {
	Target   string        `json:"target"`   // name to query for.
	Resolver string        `json:"resolver"` // resolver address, with optional port.
	Type     RecordType    `json:"type"`     // record type to query for.
	Timeout  time.Duration `json:"timeout"`  // per-query timeout.
}

// Event reports a single knock attempt.
type Event struct {
	Time     time.Time  `json:"time"`
	Target   string     `json:"target"`
	Resolver string     `json:"resolver"`
	Type     RecordType `json:"type"`
	Outcome  Outcome    `json:"outcome"`
	Err      error      `json:"-"` // optional failure reason, informational only.
}

// NewEvent returns an Event for the specified request and outcome, timestamped
// now.
func NewEvent(req LookupRequest, outcome Outcome, err error) Event {
	return Event{
		Time:     time.Now(),
		Target:   req.Target,
		Resolver: req.Resolver,
		Type:     req.Type,
		Outcome:  outcome,
		Err:      err,
	}
}
