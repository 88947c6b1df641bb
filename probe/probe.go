// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/go-ping/ping"
	log "github.com/sirupsen/logrus"
)

// Prober checks the reachability of resolver addresses by pinging them, using
// a goroutine-limited worker pool.
type Prober struct {
	size                int           // maximum number of concurrent probes.
	count               int           // number of pings to send.
	interval            time.Duration // distance between pings.
	thresholdPercentage uint          // percentage of successful pings for a reachable address.
	unprivileged        bool          // if true, uses UDP-based pings instead of privileged ICMPs.
}

// ProberOption can be passed to New when creating new Prober objects.
type ProberOption func(*Prober)

// New returns a new [Prober] probing at most size addresses concurrently.
//
// The new prober defaults to pinging 3 times at intervals of 1s between each
// ping. The reachability threshold defaults to 50(%).
//
// The prober can be configured during creation using several options:
//   - [WithCount]
//   - [WithInterval]
//   - [WithThresholdPercentage]
//   - [AsUnprivileged]
func New(size int, options ...ProberOption) *Prober {
	if size < 1 {
		size = 1
	}
	p := &Prober{
		size:                size,
		count:               3,
		interval:            time.Second,
		thresholdPercentage: 50,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// WithCount sets the number of pings for testing reachability of an address.
func WithCount(count uint) ProberOption {
	return func(p *Prober) {
		p.count = int(count)
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.interval = interval
	}
}

// AsUnprivileged tells the Prober to carry out unprivileged pings using UDP
// instead of ICMP packets.
func AsUnprivileged() ProberOption {
	return func(p *Prober) {
		p.unprivileged = true
	}
}

// WithThresholdPercentage takes a percentage between 0 and 100 that specifies
// the percentage of successful ping responses required in order to consider an
// address to be reachable.
func WithThresholdPercentage(threshold uint) ProberOption {
	if threshold > 100 {
		panic(fmt.Errorf("Prober: threshold must be a percentage between 0 <= threshold <= 100, got: %d",
			threshold))
	}
	return func(p *Prober) {
		p.thresholdPercentage = threshold
	}
}

// Reachable probes the specified resolver addresses and returns the reachable
// ones, in their original order and with their original notation (including
// any port). When the context gets cancelled, pending probes are considered to
// have failed.
func (p *Prober) Reachable(ctx context.Context, addrs []string) []string {
	verdicts := make([]bool, len(addrs))
	workers := workerpool.New(p.size)
	for idx, addr := range addrs {
		idx, addr := idx, addr
		workers.Submit(func() {
			err := p.Probe(ctx, addr)
			if err != nil {
				log.Debugf("resolver %s unreachable: %s", addr, err)
				return
			}
			verdicts[idx] = true
		})
	}
	workers.StopWait()
	reachable := make([]string, 0, len(addrs))
	for idx, addr := range addrs {
		if verdicts[idx] {
			reachable = append(reachable, addr)
		}
	}
	return reachable
}

// Probe pings the specified resolver address, returning nil if it is
// reachable. A port in the address is ignored.
//
// The probe is automatically aborted when the specified context either meets
// its deadline or gets cancelled. The address is then considered to be
// unreachable.
func (p *Prober) Probe(ctx context.Context, addr string) error {
	// A quick and non-blocking check to see if the context has been cancelled
	// before we start our work...
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pinger, err := ping.NewPinger(Host(addr))
	if err != nil {
		return err
	}
	pinger.SetPrivileged(!p.unprivileged)
	pinger.Count = p.count
	pinger.Interval = p.interval
	// Always limit waiting for the last ping to get reflected (or not)!
	pinger.Timeout = time.Duration(int64(p.interval) * int64(p.count+2))
	// While the ping will be running, we need to monitor the context in case
	// it becomes "done" by either getting cancelled or reaching its deadline.
	// The done channel here works "the other way round" in the sense that it
	// terminates the concurrent context monitoring.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()
	if err = pinger.Run(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv < pinger.Count*int(p.thresholdPercentage)/100 {
		return errors.New("no replies or too many losses")
	}
	return nil
}

// Host returns the host part of a resolver address, stripping any port.
func Host(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
