// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"

	"github.com/siemens/pdknockr/journal"
	"github.com/siemens/pdknockr/knock"
	"github.com/siemens/pdknockr/lists"
	"github.com/siemens/pdknockr/noise"
	"github.com/siemens/pdknockr/probe"
	"github.com/siemens/pdknockr/resolver"
	"github.com/siemens/pdknockr/source"
)

// KnockAndReport gathers the domains, resolvers, and optional noise labels,
// and then knocks until either all domain × resolver combinations have been
// knocked once or, in noise mode, until the context gets cancelled. Progress
// is either shown in form of a live status line, or in verbose mode as one
// line per knock.
func KnockAndReport(ctx context.Context, w io.Writer) error {
	cfg, err := newSourceConfig(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Debugf("interrupted before knocking")
			return nil
		}
		return err
	}
	policy := source.RandomPerRequest
	if *fixedType {
		policy = source.FixedPerDomain
	}
	src, err := source.New(cfg, source.WithRecordTypePolicy(policy))
	if err != nil {
		return err
	}

	// Now lets put the required processing elements and their plumbing in
	// place.
	//
	//   - Source producing lookup requests, possibly endlessly.
	//   - Dispatcher pulling requests and limiting the knocks in flight.
	//   - Knocker sending the queries and reporting their outcomes to the
	//     journal and the console.
	sinks := []knock.EventSink{}
	if !*noJournal {
		j, err := journal.New(*logDir)
		if err != nil {
			return err
		}
		defer j.Close()
		log.Debugf("knock journal: %s", j.Path())
		sinks = append(sinks, j)
	}
	if *verbose {
		sinks = append(sinks, newConsoleSink(w))
	}
	network := "udp"
	if *useTCP {
		network = "tcp"
	}
	knocker := knock.NewKnocker(resolver.New(resolver.WithNetwork(network)), sinks...)
	dispatcher, err := knock.NewDispatcher(*concurrency, knocker)
	if err != nil {
		return err
	}

	log.Debugf("knocking %d domains on %d resolvers, %d in flight, looping: %t",
		len(cfg.Domains), len(cfg.Resolvers), dispatcher.Size(), src.Looping())
	start := time.Now()
	var renderingDone chan struct{}
	dispatchingDone := make(chan struct{})
	if !*verbose {
		renderingDone = make(chan struct{})
		go func() {
			// Avoid uilive's background updating and instead explicitly
			// flush after having completed the rendering, so the status line
			// doesn't flicker.
			term := uilive.New()
			term.Out = w
			r := newRenderer(term, knocker.Stats(), start)
			defer func() {
				r.RenderDone()
				_ = term.Flush()
				close(renderingDone)
			}()
			renderStatus(term, r)
			ticker := time.NewTicker(*spinnerInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					renderStatus(term, r)
				case <-dispatchingDone:
					return
				}
			}
		}()
	}

	err = dispatcher.Dispatch(ctx, src)
	close(dispatchingDone)
	if renderingDone != nil {
		<-renderingDone
	}
	if errors.Is(err, context.Canceled) {
		log.Debugf("knocking interrupted")
		err = nil
	}
	stats := knocker.Stats().Snapshot()
	fmt.Fprintf(w, "knocked %d times in %s: %s sent, %s failed\n",
		stats.Started, time.Since(start).Round(time.Millisecond),
		styled(sentStyle, fmt.Sprint(stats.Sent)),
		styled(failedStyle, fmt.Sprint(stats.Failed)))
	return err
}

// newSourceConfig gathers the lists of domains, resolvers, and noise labels,
// and returns the resulting source configuration.
func newSourceConfig(ctx context.Context) (source.Config, error) {
	domains, err := lists.Load("domains", *domainsArg)
	if err != nil {
		return source.Config{}, err
	}
	domains = lists.Dedup(domains)
	if err := lists.Require("domains", domains); err != nil {
		return source.Config{}, err
	}

	resolvers := []string{}
	if *resolversArg != "" {
		resolvers, err = lists.Load("resolvers", *resolversArg)
		if err != nil {
			return source.Config{}, err
		}
	}
	if *publicResolvers {
		public, err := lists.FetchResolvers(ctx, nil, *publicURL)
		if err != nil {
			if ctxerr := ctx.Err(); ctxerr != nil {
				return source.Config{}, ctxerr
			}
			return source.Config{}, err
		}
		log.Debugf("fetched %d public resolvers", len(public))
		resolvers = append(resolvers, public...)
	}
	resolvers = lists.Dedup(resolvers)
	if *probeResolvers && len(resolvers) > 0 {
		reachable := probe.New(*concurrency).Reachable(ctx, resolvers)
		// Interrupted probes fail, so don't mistake them for dead resolvers.
		if err := ctx.Err(); err != nil {
			return source.Config{}, err
		}
		log.Debugf("%d out of %d resolvers reachable", len(reachable), len(resolvers))
		resolvers = reachable
	}
	if err := lists.Require("resolvers", resolvers); err != nil {
		return source.Config{}, err
	}

	var noiseSpec *noise.Spec
	if *noiseMode {
		labels, err := lists.Load("subdomains", *subdomainsArg)
		if err != nil {
			return source.Config{}, err
		}
		noiseSpec = &noise.Spec{
			Labels:    lists.Dedup(labels),
			MaxLabels: *maxLabels,
		}
	}
	return source.Config{
		Domains:     domains,
		Resolvers:   resolvers,
		RecordTypes: recordTypes,
		Timeout:     *timeout,
		Noise:       noiseSpec,
	}, nil
}

// renderStatus renders the current knock statistics and flushes them to the
// terminal.
func renderStatus(term *uilive.Writer, r *renderer) {
	r.Render()
	_ = term.Flush()
}
