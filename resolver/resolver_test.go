// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
	"github.com/siemens/pdknockr/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// startServer starts an in-process DNS server on a random loopback UDP port,
// answering A queries for "knock.test." and NXDOMAIN otherwise. Queries for
// "silent.test." never get answered. It returns the server address.
func startServer(queries *atomic.Int64) string {
	GinkgoHelper()

	pc := Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			queries.Add(1)
			resp := new(dns.Msg)
			resp.SetReply(req)
			switch req.Question[0].Name {
			case "silent.test.":
				return
			case "knock.test.":
				rr, _ := dns.NewRR("knock.test. 60 IN A 127.0.0.42")
				resp.Answer = append(resp.Answer, rr)
			default:
				resp.SetRcode(req, dns.RcodeNameError)
			}
			_ = w.WriteMsg(resp)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	Eventually(started).Should(BeClosed())
	DeferCleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

var _ = Describe("DNS resolver client", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	DescribeTable("normalizes nameserver addresses",
		func(nameserver, addr string) {
			Expect(Addr(nameserver)).To(Equal(addr))
		},
		Entry("IPv4", "1.1.1.1", "1.1.1.1:53"),
		Entry("IPv4 with port", "1.1.1.1:5353", "1.1.1.1:5353"),
		Entry("IPv6", "2606:4700:4700::1111", "[2606:4700:4700::1111]:53"),
		Entry("bracketed IPv6", "[::1]", "[::1]:53"),
		Entry("IPv6 with port", "[::1]:5353", "[::1]:5353"),
		Entry("name", "dns.google", "dns.google:53"),
	)

	It("knocks successfully", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var queries atomic.Int64
		addr := startServer(&queries)
		Expect(New().Query(ctx, "knock.test", types.A, addr, 2*time.Second)).To(Succeed())
		Expect(queries.Load()).To(Equal(int64(1)))
	})

	It("reports error rcodes", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var queries atomic.Int64
		addr := startServer(&queries)
		err := New().Query(ctx, "nowhere.test", types.TXT, addr, 2*time.Second)
		var rcerr *RcodeError
		Expect(errors.As(err, &rcerr)).To(BeTrue())
		Expect(rcerr.Rcode).To(Equal(dns.RcodeNameError))
		Expect(err.Error()).To(Equal("rcode NXDOMAIN"))
		Expect(queries.Load()).To(Equal(int64(1)))
	})

	It("times out", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var queries atomic.Int64
		addr := startServer(&queries)
		start := time.Now()
		Expect(New().Query(ctx, "silent.test", types.A, addr, 250*time.Millisecond)).NotTo(Succeed())
		Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		Eventually(queries.Load).Should(Equal(int64(1)))
	})

	It("rejects invalid record types without sending", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var queries atomic.Int64
		addr := startServer(&queries)
		Expect(New().Query(ctx, "knock.test", types.RecordType("AXFR"), addr, time.Second)).
			To(BeAssignableToTypeOf(&types.ConfigError{}))
		Consistently(queries.Load).WithTimeout(250 * time.Millisecond).Should(BeZero())
	})

	It("supports TCP", NodeTimeout(10*time.Second), func(ctx context.Context) {
		ln := Successful(net.Listen("tcp", "127.0.0.1:0"))
		started := make(chan struct{})
		srv := &dns.Server{
			Listener:          ln,
			NotifyStartedFunc: func() { close(started) },
			Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
				resp := new(dns.Msg)
				resp.SetReply(req)
				_ = w.WriteMsg(resp)
			}),
		}
		go func() { _ = srv.ActivateAndServe() }()
		Eventually(started).Should(BeClosed())
		defer func() { _ = srv.Shutdown() }()

		Expect(New(WithNetwork("tcp"), WithRecursion(false)).
			Query(ctx, "knock.test", types.MX, ln.Addr().String(), 2*time.Second)).To(Succeed())
	})

})
