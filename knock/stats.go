// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package knock

import "sync/atomic"

// Stats counts knocks; it is safe for concurrent use.
type Stats struct {
	started atomic.Int64
	sent    atomic.Int64
	failed  atomic.Int64
}

// Snapshot is a point-in-time copy of knock statistics.
type Snapshot struct {
	Started  int64 `json:"started"`
	Sent     int64 `json:"sent"`
	Failed   int64 `json:"failed"`
	InFlight int64 `json:"inflight"`
}

// Snapshot returns the current statistics.
func (s *Stats) Snapshot() Snapshot {
	// Read the finished counters first so that we never report negative
	// in-flight numbers.
	sent := s.sent.Load()
	failed := s.failed.Load()
	started := s.started.Load()
	return Snapshot{
		Started:  started,
		Sent:     sent,
		Failed:   failed,
		InFlight: started - sent - failed,
	}
}

// InFlight returns the number of knocks started but not yet finished.
func (s *Stats) InFlight() int64 {
	return s.Snapshot().InFlight
}
