// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package knock

import (
	"context"
	"fmt"

	"github.com/gammazero/workerpool"
	log "github.com/sirupsen/logrus"

	"github.com/siemens/pdknockr/types"
)

// Source produces lookup requests until it returns false. A Source may never
// return false at all.
type Source interface {
	Next() (types.LookupRequest, bool)
}

// Dispatcher executes the lookup requests from a Source concurrently, with a
// limited number of them in flight at any time.
type Dispatcher struct {
	size     int
	executor Executor
}

// NewDispatcher returns a new Dispatcher allowing at most size lookup requests
// in flight, executing them using the specified executor. It returns a
// [types.ConfigError] if size isn't positive.
func NewDispatcher(size int, executor Executor) (*Dispatcher, error) {
	if size <= 0 {
		return nil, &types.ConfigError{
			Reason: fmt.Sprintf("concurrency limit must be positive, got %d", size)}
	}
	return &Dispatcher{
		size:     size,
		executor: executor,
	}, nil
}

// Size returns the maximum number of lookup requests in flight.
func (d *Dispatcher) Size() int {
	return d.size
}

// Dispatch pulls lookup requests from the specified source and executes them
// until either the source runs dry or the context gets cancelled. Requests get
// admitted in the order the source produces them; if all slots are taken,
// Dispatch blocks until the first of the in-flight requests finishes.
//
// In any case, Dispatch waits for all in-flight requests to finish before it
// returns. It returns nil after the source ran dry, and the context's error
// otherwise. Failing lookups never make Dispatch fail.
//
// In-flight requests do not see the cancellation of ctx, but instead always
// run to completion, bounded only by their own timeouts.
func (d *Dispatcher) Dispatch(ctx context.Context, src Source) error {
	workers := workerpool.New(d.size)
	defer workers.StopWait()

	opctx := context.WithoutCancel(ctx)
	// Completion notifications; as there are never more than size requests in
	// flight, finishing requests never block on sending their handles.
	finished := make(chan uint64, d.size)
	inflight := make(map[uint64]struct{}, d.size)
	// reap removes all in-flight handles that have finished by now, without
	// waiting.
	reap := func() {
		for {
			select {
			case handle := <-finished:
				delete(inflight, handle)
			default:
				return
			}
		}
	}

	var handle uint64
	admitted := 0
	for ctx.Err() == nil {
		req, ok := src.Next()
		if !ok {
			break
		}
		if len(inflight) >= d.size {
			// Wait for any in-flight request to finish, then clean up all
			// requests that finished in the meantime, too.
			delete(inflight, <-finished)
			reap()
		}
		handle++
		h := handle
		inflight[h] = struct{}{}
		admitted++
		workers.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("knock executor panicked on %s@%s: %v", req.Target, req.Resolver, r)
				}
				finished <- h
			}()
			d.executor.Knock(opctx, req)
		})
	}
	if err := ctx.Err(); err != nil {
		log.Debugf("dispatching cancelled, draining %d knocks in flight", len(inflight))
	}
	for len(inflight) > 0 {
		delete(inflight, <-finished)
	}
	log.Debugf("dispatched %d knocks", admitted)
	return ctx.Err()
}
