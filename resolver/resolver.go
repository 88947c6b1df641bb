// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/siemens/pdknockr/types"
)

// Resolver sends a single DNS query to a specific nameserver, within the
// specified timeout. It returns nil if the query got answered without an
// error rcode.
type Resolver interface {
	Query(ctx context.Context, target string, rtype types.RecordType, nameserver string, timeout time.Duration) error
}

// RcodeError reports a DNS response with an rcode other than NOERROR, such as
// NXDOMAIN.
type RcodeError struct {
	Rcode int
}

func (e *RcodeError) Error() string {
	if s, ok := dns.RcodeToString[e.Rcode]; ok {
		return "rcode " + s
	}
	return fmt.Sprintf("rcode %d", e.Rcode)
}

// Client is a [Resolver] on top of miekg/dns.
type Client struct {
	net       string // "udp", "tcp", ...
	recursion bool   // set the RD bit in queries.
}

var _ Resolver = (*Client)(nil)

// ClientOption can be passed to New when creating new [Client] objects.
type ClientOption func(*Client)

// New returns a new DNS resolver client, by default sending recursive queries
// over UDP.
func New(options ...ClientOption) *Client {
	c := &Client{
		net:       "udp",
		recursion: true,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithNetwork sets the transport to use, such as "udp" or "tcp".
func WithNetwork(network string) ClientOption {
	return func(c *Client) {
		c.net = network
	}
}

// WithRecursion controls whether queries ask for recursion.
func WithRecursion(recursion bool) ClientOption {
	return func(c *Client) {
		c.recursion = recursion
	}
}

// Query sends a single query for the target name and record type to the
// specified nameserver. Nameserver addresses without a port default to port 53.
func (c *Client) Query(ctx context.Context, target string, rtype types.RecordType, nameserver string, timeout time.Duration) error {
	qtype := rtype.Qtype()
	if qtype == dns.TypeNone {
		return &types.ConfigError{Reason: "invalid record type: " + string(rtype)}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	dnsclnt := dns.Client{
		Net:     c.net,
		Timeout: timeout,
	}
	msg := dns.Msg{
		MsgHdr: dns.MsgHdr{Id: dns.Id()},
	}
	msg.SetQuestion(dns.Fqdn(target), qtype)
	msg.RecursionDesired = c.recursion
	r, _, err := dnsclnt.ExchangeContext(ctx, &msg, Addr(nameserver))
	if err != nil {
		return err
	}
	if r.Rcode != dns.RcodeSuccess {
		return &RcodeError{Rcode: r.Rcode}
	}
	return nil
}

// Addr returns the nameserver address in host:port format, defaulting to port
// 53.
func Addr(nameserver string) string {
	if ip := net.ParseIP(strings.Trim(nameserver, "[]")); ip != nil {
		return net.JoinHostPort(ip.String(), "53")
	}
	if _, _, err := net.SplitHostPort(nameserver); err == nil {
		return nameserver
	}
	return net.JoinHostPort(nameserver, "53")
}
