// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package source

import (
	"math/rand"
	"time"

	"github.com/siemens/pdknockr/noise"
	"github.com/siemens/pdknockr/types"
)

// Policy controls how record types get assigned to requests.
type Policy int

// Record type policies.
const (
	RandomPerRequest Policy = iota // random record type for each request.
	FixedPerDomain                 // random record type per domain, then fixed.
)

// String returns the clear-text representation of a Policy value.
func (p Policy) String() string {
	switch p {
	case RandomPerRequest:
		return "random-per-request"
	case FixedPerDomain:
		return "fixed-per-domain"
	}
	return "Policy(?)"
}

// Config describes what to knock with. A nil Noise disables noise and thus
// selects single-pass mode.
type Config struct {
	Domains     []string
	Resolvers   []string
	RecordTypes []types.RecordType
	Timeout     time.Duration
	Noise       *noise.Spec
}

// Source produces lookup requests. See the package documentation for details.
type Source struct {
	domains   []string
	resolvers []string
	rtypes    []types.RecordType
	timeout   time.Duration
	noise     *noise.Generator
	policy    Policy
	rnd       *rand.Rand
	fixed     map[string]types.RecordType // per-domain record types, if FixedPerDomain.

	domainIdx   int
	resolverIdx int
	passes      int
	done        bool
}

// Option can be passed to New when creating new [Source] objects.
type Option func(*Source)

// WithRand sets the source of randomness used for picking record types and
// synthesizing noise names.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Source) {
		s.rnd = rnd
	}
}

// WithRecordTypePolicy sets how record types get assigned to requests; it
// defaults to [RandomPerRequest].
func WithRecordTypePolicy(policy Policy) Option {
	return func(s *Source) {
		s.policy = policy
	}
}

// New returns a new Source for the specified configuration. The domain,
// resolver, and record type lists are copied, so later changes to cfg do not
// affect the returned Source.
//
// An empty domain or resolver list is not an error: the source then simply
// yields nothing, even in looping mode. However, New returns a
// [types.ConfigError] if there are no (or invalid) record types, a
// non-positive timeout, or an unusable noise specification.
func New(cfg Config, options ...Option) (*Source, error) {
	s := &Source{
		domains:   append([]string(nil), cfg.Domains...),
		resolvers: append([]string(nil), cfg.Resolvers...),
		rtypes:    append([]types.RecordType(nil), cfg.RecordTypes...),
		timeout:   cfg.Timeout,
		fixed:     map[string]types.RecordType{},
	}
	for _, opt := range options {
		opt(s)
	}
	if len(s.rtypes) == 0 {
		return nil, &types.ConfigError{Reason: "no record types specified"}
	}
	for _, rt := range s.rtypes {
		if !rt.Valid() {
			return nil, &types.ConfigError{Reason: "invalid record type: " + string(rt)}
		}
	}
	if s.timeout <= 0 {
		return nil, &types.ConfigError{Reason: "query timeout must be positive"}
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Noise != nil {
		gen, err := noise.NewGenerator(*cfg.Noise, s.rnd)
		if err != nil {
			return nil, err
		}
		s.noise = gen
	}
	return s, nil
}

// Looping returns true if this Source never ends on its own.
func (s *Source) Looping() bool {
	return s.noise != nil
}

// Passes returns the number of completed passes over the domain × resolver
// product so far.
func (s *Source) Passes() int {
	return s.passes
}

// Next returns the next lookup request and true, or a zero request and false
// after the end of the sequence.
func (s *Source) Next() (types.LookupRequest, bool) {
	if s.done || len(s.domains) == 0 || len(s.resolvers) == 0 {
		return types.LookupRequest{}, false
	}
	domain := s.domains[s.domainIdx]
	target := domain
	if s.noise != nil {
		target = s.noise.Name(domain)
	}
	req := types.LookupRequest{
		Target:   target,
		Resolver: s.resolvers[s.resolverIdx],
		Type:     s.recordType(domain),
		Timeout:  s.timeout,
	}
	s.advance()
	return req, true
}

// advance moves on to the next domain × resolver combination, wrapping around
// after the last resolver of the last domain.
func (s *Source) advance() {
	s.resolverIdx++
	if s.resolverIdx < len(s.resolvers) {
		return
	}
	s.resolverIdx = 0
	s.domainIdx++
	if s.domainIdx < len(s.domains) {
		return
	}
	s.domainIdx = 0
	s.passes++
	if !s.Looping() {
		s.done = true
	}
}

// recordType returns the record type to use for the next request for the
// specified domain, according to the record type policy.
func (s *Source) recordType(domain string) types.RecordType {
	if len(s.rtypes) == 1 {
		return s.rtypes[0]
	}
	if s.policy != FixedPerDomain {
		return s.rtypes[s.rnd.Intn(len(s.rtypes))]
	}
	rt, ok := s.fixed[domain]
	if !ok {
		rt = s.rtypes[s.rnd.Intn(len(s.rtypes))]
		s.fixed[domain] = rt
	}
	return rt
}

// Collect pulls up to max requests from the specified Source and returns
// them. A negative max pulls until the end of the sequence, so never pass a
// negative max with a looping Source.
func Collect(s *Source, max int) []types.LookupRequest {
	reqs := []types.LookupRequest{}
	for max < 0 || len(reqs) < max {
		req, ok := s.Next()
		if !ok {
			break
		}
		reqs = append(reqs, req)
	}
	return reqs
}
