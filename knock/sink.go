// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package knock

import "github.com/siemens/pdknockr/types"

// EventSink consumes knock events. Knockers call Record concurrently, so sinks
// must be safe for concurrent use.
type EventSink interface {
	Record(ev types.Event)
}

// SinkFunc adapts a plain function into an EventSink.
type SinkFunc func(ev types.Event)

// Record calls fn(ev).
func (fn SinkFunc) Record(ev types.Event) { fn(ev) }
