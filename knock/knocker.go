// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package knock

import (
	"context"
	"fmt"

	"github.com/siemens/pdknockr/resolver"
	"github.com/siemens/pdknockr/types"
)

// Executor executes a single lookup request and returns its outcome. It never
// fails.
type Executor interface {
	Knock(ctx context.Context, req types.LookupRequest) types.Outcome
}

// Knocker knocks using a resolver, reporting each knock to its event sinks.
type Knocker struct {
	resolver resolver.Resolver
	sinks    []EventSink
	stats    Stats
}

var _ Executor = (*Knocker)(nil)

// NewKnocker returns a new Knocker using the specified resolver and reporting
// to the specified sinks.
func NewKnocker(res resolver.Resolver, sinks ...EventSink) *Knocker {
	return &Knocker{
		resolver: res,
		sinks:    sinks,
	}
}

// Stats returns the Knocker's knock statistics.
func (k *Knocker) Stats() *Stats {
	return &k.stats
}

// Knock sends a single DNS query for the specified request and reports the
// outcome to the event sinks. Knock always returns; lookup errors, and even
// panics inside the resolver, are turned into a [types.Failed] outcome.
func (k *Knocker) Knock(ctx context.Context, req types.LookupRequest) (outcome types.Outcome) {
	k.stats.started.Add(1)
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panic: %v", r)
		}
		outcome = types.Sent
		if err != nil {
			outcome = types.Failed
			k.stats.failed.Add(1)
		} else {
			k.stats.sent.Add(1)
		}
		ev := types.NewEvent(req, outcome, err)
		for _, sink := range k.sinks {
			sink.Record(ev)
		}
	}()
	err = k.resolver.Query(ctx, req.Target, req.Type, req.Resolver, req.Timeout)
	return
}
