// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
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
// answering A queries for "knock.test." and NXDOMAIN otherwise.
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
			if req.Question[0].Name == "knock.test." {
				rr, _ := dns.NewRR("knock.test. 60 IN A 127.0.0.42")
				resp.Answer = append(resp.Answer, rr)
			} else {
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

// run executes the root command with the specified args, returning its
// output and error.
func run(ctx context.Context, args ...string) (string, error) {
	GinkgoHelper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

var _ = Describe("pdknockr command", func() {

	DescribeTable("rejects invalid configurations",
		func(ctx context.Context, args []string, reason string) {
			_, err := run(ctx, args...)
			var cfgerr *types.ConfigError
			Expect(err).To(BeAssignableToTypeOf(cfgerr))
			Expect(err.Error()).To(ContainSubstring(reason))
		},
		Entry("no domains", []string{"-r", "127.0.0.1"}, "no domains"),
		Entry("no resolvers", []string{"-d", "knock.test"}, "no resolvers"),
		Entry("zero concurrency", []string{"-d", "knock.test", "-r", "127.0.0.1", "-c", "0"}, "--concurrency"),
		Entry("tiny timeout", []string{"-d", "knock.test", "-r", "127.0.0.1", "--timeout", "1ms"}, "--timeout"),
		Entry("noise without subdomains", []string{"-d", "knock.test", "-r", "127.0.0.1", "-n"}, "no subdomains"),
		Entry("too few labels", []string{"-d", "knock.test", "-r", "127.0.0.1", "-n", "-s", "www,mail", "--max-labels", "1"}, "--max-labels"),
		Entry("invalid record type", []string{"-d", "knock.test", "-r", "127.0.0.1", "-t", "A,BOGUS"}, "BOGUS"),
		Entry("empty domain list", []string{"-d", ",,", "-r", "127.0.0.1", "--no-journal"}, "no domains"),
	)

	It("rejects missing list files", func(ctx context.Context) {
		_, err := run(ctx, "-d", "./nonexisting/domains.txt", "-r", "127.0.0.1", "--no-journal")
		var nferr *types.NotFoundError
		Expect(err).To(BeAssignableToTypeOf(nferr))
		Expect(err.Error()).To(ContainSubstring("domains file not found"))
	})

	It("exits cleanly when interrupted while fetching public resolvers", NodeTimeout(20*time.Second), func(ctx context.Context) {
		runctx, cancel := context.WithCancel(ctx)
		defer cancel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cancel()
			<-r.Context().Done()
		}))
		defer srv.Close()

		out := Successful(run(runctx,
			"-d", "knock.test", "--public-resolvers", "--public-url", srv.URL,
			"--no-journal", "--no-color"))
		Expect(out).NotTo(ContainSubstring("knocked"))
	})

	It("exits cleanly when interrupted while probing resolvers", NodeTimeout(20*time.Second), func(ctx context.Context) {
		runctx, cancel := context.WithCancel(ctx)
		cancel()
		out := Successful(run(runctx,
			"-d", "knock.test", "-r", "127.0.0.1", "--probe",
			"--no-journal", "--no-color"))
		Expect(out).NotTo(ContainSubstring("knocked"))
	})

	It("knocks each domain on each resolver once", NodeTimeout(20*time.Second), func(ctx context.Context) {
		var queries atomic.Int64
		addr := startServer(&queries)

		out := Successful(run(ctx,
			"-d", "knock.test,other.test", "-r", addr, "-t", "A",
			"--no-journal", "--no-color", "-v", "--timeout", "2s"))
		Expect(queries.Load()).To(Equal(int64(2)))
		Expect(out).To(ContainSubstring("knocked " + addr + " with knock.test (A): sent"))
		Expect(out).To(ContainSubstring("knocked " + addr + " with other.test (A): failed"))
		Expect(out).To(ContainSubstring("knocked 2 times"))
		Expect(out).To(ContainSubstring("1 sent, 1 failed"))
	})

	It("journals knocks", NodeTimeout(20*time.Second), func(ctx context.Context) {
		var queries atomic.Int64
		addr := startServer(&queries)
		dir := GinkgoT().TempDir()
		domains := filepath.Join(dir, "domains.txt")
		Expect(os.WriteFile(domains, []byte("# domains\nknock.test\n\nother.test\n"), 0644)).To(Succeed())
		logs := filepath.Join(dir, "logs")

		out := Successful(run(ctx,
			"-d", domains, "-r", addr, "-t", "AAAA",
			"--log-dir", logs, "--no-color", "--spinner", "20ms"))
		Expect(out).To(ContainSubstring("knocked 2 times"))

		journals := Successful(filepath.Glob(filepath.Join(logs, "pdk_*.log")))
		Expect(journals).To(HaveLen(1))
		content := Successful(os.ReadFile(journals[0]))
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		Expect(lines).To(HaveLen(2))
		targets := []string{}
		for _, line := range lines {
			var entry map[string]any
			Expect(json.Unmarshal([]byte(line), &entry)).To(Succeed())
			Expect(entry).To(HaveKeyWithValue("resolver", addr))
			Expect(entry).To(HaveKeyWithValue("type", "AAAA"))
			targets = append(targets, entry["target"].(string))
		}
		Expect(targets).To(ConsistOf("knock.test", "other.test"))
	})

	It("knocks with noise until interrupted", NodeTimeout(20*time.Second), func(ctx context.Context) {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
		var queries atomic.Int64
		addr := startServer(&queries)

		runctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			defer GinkgoRecover()
			Eventually(queries.Load).Should(BeNumerically(">=", 20))
			cancel()
		}()
		out := Successful(run(runctx,
			"-d", "corp.test", "-r", addr, "-n", "-s", "www,mail,ftp,vpn",
			"-c", "4", "--no-journal", "--no-color", "--spinner", "20ms"))
		Expect(queries.Load()).To(BeNumerically(">=", 20))
		Expect(out).To(MatchRegexp(`knocked \d+ times`))
	})

})
