// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/siemens/pdknockr/knock"
	"github.com/siemens/pdknockr/types"
)

// renderer renders the live knocking status line.
type renderer struct {
	w       io.Writer
	stats   *knock.Stats
	start   time.Time
	spinner *spinner
}

// newRenderer returns a renderer rendering the specified knock statistics to
// the specified io.Writer.
func newRenderer(w io.Writer, stats *knock.Stats, start time.Time) *renderer {
	return &renderer{
		w:       w,
		stats:   stats,
		start:   start,
		spinner: newSpinner(),
	}
}

// Render the current knock statistics, advancing the spinner.
func (r *renderer) Render() {
	r.render(r.spinner.Next())
}

// RenderDone renders the final knock statistics.
func (r *renderer) RenderDone() {
	r.render(r.spinner.Done())
}

func (r *renderer) render(spin string) {
	s := r.stats.Snapshot()
	elapsed := time.Since(r.start).Truncate(time.Second)
	fmt.Fprintf(r.w, "%sknocking for %s: %s sent, %s failed, %d in flight\n",
		spin, elapsed,
		styled(sentStyle, fmt.Sprint(s.Sent)),
		styled(failedStyle, fmt.Sprint(s.Failed)),
		s.InFlight)
}

// consoleSink prints each knock event as a line of its own.
type consoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsoleSink(w io.Writer) *consoleSink {
	return &consoleSink{w: w}
}

// Record prints the specified knock event.
func (c *consoleSink) Record(ev types.Event) {
	outcome := styled(sentStyle, ev.Outcome.String())
	if ev.Outcome == types.Failed {
		outcome = styled(failedStyle, ev.Outcome.String())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s | knocked %s with %s (%s): %s\n",
		ev.Time.Format("03:04:05 PM"),
		styled(resolverStyle, ev.Resolver),
		styled(targetStyle, ev.Target),
		styled(typeStyle, string(ev.Type)),
		outcome)
}
